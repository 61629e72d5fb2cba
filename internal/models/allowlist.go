package models

import "time"

// AllowlistEntry is a pre-registered identity key eligible to provision.
// HasApplied flips exactly once, when a provisioning run succeeds.
type AllowlistEntry struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"               json:"id"`
	IdentityKey   string    `gorm:"type:varchar(64);uniqueIndex;not null"  json:"identity_key"`
	DisplayName   string    `gorm:"type:varchar(128)"                      json:"display_name,omitempty"`
	GroupInfo     string    `gorm:"type:varchar(128)"                      json:"group_info,omitempty"`
	HasApplied    bool      `gorm:"not null;default:false"                 json:"has_applied"`
	AppliedDBName string    `gorm:"type:varchar(80)"                       json:"applied_db_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BatchImportResult summarizes one batch import run.
type BatchImportResult struct {
	Imported int      `json:"imported_count"`
	Updated  int      `json:"updated_count"`
	Errors   []string `json:"errors"`
}

// AllowlistStats counts entries by applied state.
type AllowlistStats struct {
	Total      int64 `json:"total_count"`
	Applied    int64 `json:"applied_count"`
	NotApplied int64 `json:"not_applied_count"`
}
