package store

import (
	"errors"

	"github.com/iwen-conf/DormDB/internal/models"

	"gorm.io/gorm"
)

// Pagination bounds for allowlist listing.
const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

// IsAllowed reports whether key is registered and has not applied yet.
func (s *Store) IsAllowed(key string) (bool, error) {
	var count int64
	err := s.db.Model(&models.AllowlistEntry{}).
		Where("identity_key = ? AND has_applied = ?", key, false).
		Count(&count).Error
	return count > 0, err
}

// MarkApplied flips the entry for key to applied and records the database
// it received. Flipping an unknown key returns ErrRecordNotFound.
func (s *Store) MarkApplied(key, dbName string) error {
	result := s.db.Model(&models.AllowlistEntry{}).
		Where("identity_key = ?", key).
		Updates(map[string]any{
			"has_applied":     true,
			"applied_db_name": dbName,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// ClearApplied resets the applied flag after the corresponding grant is
// torn down, making the key eligible again.
func (s *Store) ClearApplied(key string) error {
	return s.db.Model(&models.AllowlistEntry{}).
		Where("identity_key = ?", key).
		Updates(map[string]any{
			"has_applied":     false,
			"applied_db_name": "",
		}).Error
}

// ListAllowlist returns entries newest first. Limit defaults to
// DefaultListLimit and is capped at MaxListLimit.
func (s *Store) ListAllowlist(limit, offset int) ([]models.AllowlistEntry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	var entries []models.AllowlistEntry
	err := s.db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	return entries, err
}

// GetAllowlistEntry returns the entry for key, or ErrRecordNotFound.
func (s *Store) GetAllowlistEntry(key string) (*models.AllowlistEntry, error) {
	var entry models.AllowlistEntry
	err := s.db.Where("identity_key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// AddAllowlistEntry registers a new key. Duplicate keys return
// ErrDuplicateKey.
func (s *Store) AddAllowlistEntry(key, displayName, groupInfo string) error {
	entry := &models.AllowlistEntry{
		IdentityKey: key,
		DisplayName: displayName,
		GroupInfo:   groupInfo,
	}
	return translateInsertErr(s.db.Create(entry).Error)
}

// UpdateAllowlistEntry rewrites the descriptive fields of an entry.
func (s *Store) UpdateAllowlistEntry(id int64, displayName, groupInfo string) error {
	result := s.db.Model(&models.AllowlistEntry{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"display_name": displayName,
			"group_info":   groupInfo,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// DeleteAllowlistEntry removes an entry. Entries with an applied grant are
// refused; the grant must be torn down first.
func (s *Store) DeleteAllowlistEntry(id int64) error {
	var entry models.AllowlistEntry
	if err := s.db.First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		return err
	}
	if entry.HasApplied {
		return ErrEntryApplied
	}
	return s.db.Delete(&models.AllowlistEntry{}, id).Error
}

// AllowlistStats counts entries by applied state.
func (s *Store) AllowlistStats() (*models.AllowlistStats, error) {
	var stats models.AllowlistStats
	if err := s.db.Model(&models.AllowlistEntry{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.AllowlistEntry{}).
		Where("has_applied = ?", true).
		Count(&stats.Applied).Error; err != nil {
		return nil, err
	}
	stats.NotApplied = stats.Total - stats.Applied
	return &stats, nil
}
