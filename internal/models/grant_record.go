package models

import "time"

// Grant record status values. A record is written for every provisioning
// attempt and never removed except by the reconciler.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusDeleted = "deleted"
)

// GrantRecord is the ledger row for one provisioning attempt.
type GrantRecord struct {
	ID             int64      `gorm:"primaryKey;autoIncrement"          json:"id"`
	IdentityKey    string     `gorm:"type:varchar(64);index;not null"   json:"identity_key"`
	DBName         string     `gorm:"type:varchar(80);not null"         json:"db_name"`
	DBUser         string     `gorm:"type:varchar(80);not null"         json:"db_user"`
	Status         string     `gorm:"type:varchar(16);index;not null;default:success" json:"status"`
	FailureReason  string     `gorm:"type:text"                         json:"failure_reason,omitempty"`
	CreatedAt      time.Time  `gorm:"index;not null"                    json:"created_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
	DeletionReason string     `gorm:"type:text"                         json:"deletion_reason,omitempty"`
}

// IsActive reports whether this record still claims a live external grant.
func (r *GrantRecord) IsActive() bool {
	return r.Status == StatusSuccess && r.DeletedAt == nil
}

// PublicRecord is a grant record reduced for the unauthenticated feed.
// The identity key is masked so the feed never leaks full principal names.
type PublicRecord struct {
	ID          int64     `json:"id"`
	IdentityKey string    `json:"identity_key"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// MaskKey reduces an identity key to its first four characters.
func MaskKey(key string) string {
	if len(key) > 4 {
		return key[:4] + "****"
	}
	return "****"
}
