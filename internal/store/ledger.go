package store

import (
	"errors"
	"time"

	"github.com/iwen-conf/DormDB/internal/models"

	"gorm.io/gorm"
)

// Grant record operations. Records are append-only: a row is written for
// every attempt, mutated only by admin deletion, and removed only by the
// reconciler.

// ExistsActive reports whether a non-deleted record exists for key.
func (s *Store) ExistsActive(key string) (bool, error) {
	var count int64
	err := s.db.Model(&models.GrantRecord{}).
		Where("identity_key = ? AND status != ?", key, models.StatusDeleted).
		Count(&count).Error
	return count > 0, err
}

// InsertSuccess appends a success record. Returns ErrDuplicateKey when a
// concurrent request already claimed the key.
func (s *Store) InsertSuccess(key, dbName, dbUser string) error {
	record := &models.GrantRecord{
		IdentityKey: key,
		DBName:      dbName,
		DBUser:      dbUser,
		Status:      models.StatusSuccess,
		CreatedAt:   time.Now(),
	}
	return translateInsertErr(s.db.Create(record).Error)
}

// InsertFailure appends a failure record for a provisioning attempt that
// did not complete.
func (s *Store) InsertFailure(key, reason string) error {
	record := &models.GrantRecord{
		IdentityKey:   key,
		Status:        models.StatusFailed,
		FailureReason: reason,
		CreatedAt:     time.Now(),
	}
	return translateInsertErr(s.db.Create(record).Error)
}

func translateInsertErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateKey
	}
	return err
}

// ListAll returns every grant record, newest first.
func (s *Store) ListAll() ([]models.GrantRecord, error) {
	var records []models.GrantRecord
	err := s.db.Order("created_at DESC").Find(&records).Error
	return records, err
}

// ListRecent returns the n newest grant records.
func (s *Store) ListRecent(n int) ([]models.GrantRecord, error) {
	var records []models.GrantRecord
	err := s.db.Order("created_at DESC").Limit(n).Find(&records).Error
	return records, err
}

// ListActive returns records that claim a live external grant.
func (s *Store) ListActive() ([]models.GrantRecord, error) {
	var records []models.GrantRecord
	err := s.db.
		Where("status = ? AND deleted_at IS NULL", models.StatusSuccess).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

// ListPublic returns the newest records with masked identity keys, for the
// unauthenticated activity feed.
func (s *Store) ListPublic(limit int) ([]models.PublicRecord, error) {
	records, err := s.ListRecent(limit)
	if err != nil {
		return nil, err
	}
	public := make([]models.PublicRecord, 0, len(records))
	for _, r := range records {
		public = append(public, models.PublicRecord{
			ID:          r.ID,
			IdentityKey: models.MaskKey(r.IdentityKey),
			Status:      r.Status,
			CreatedAt:   r.CreatedAt,
		})
	}
	return public, nil
}

// MarkDeleted flips the active record for key to deleted and stamps the
// deletion metadata. Marking an already-deleted (or absent) key returns
// ErrRecordNotFound.
func (s *Store) MarkDeleted(key, reason string) error {
	now := time.Now()
	result := s.db.Model(&models.GrantRecord{}).
		Where("identity_key = ? AND status != ?", key, models.StatusDeleted).
		Updates(map[string]any{
			"status":          models.StatusDeleted,
			"deleted_at":      now,
			"deletion_reason": reason,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Remove hard-deletes all records for key. Reconciler repair path only.
func (s *Store) Remove(key string) error {
	return s.db.Where("identity_key = ?", key).Delete(&models.GrantRecord{}).Error
}

// Counters for the admin dashboard.

func (s *Store) CountTotal() (int64, error) {
	var count int64
	err := s.db.Model(&models.GrantRecord{}).Count(&count).Error
	return count, err
}

func (s *Store) CountSince(t time.Time) (int64, error) {
	var count int64
	err := s.db.Model(&models.GrantRecord{}).
		Where("created_at >= ?", t).
		Count(&count).Error
	return count, err
}

func (s *Store) CountByStatus(status string) (int64, error) {
	var count int64
	err := s.db.Model(&models.GrantRecord{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
