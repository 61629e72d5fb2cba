// Package store is the ledger: the durable local record of every
// provisioning attempt, plus the allowlist of keys eligible to provision.
// Every write is committed before the call returns; the orchestrator leans
// on that for its at-most-one-active-grant guarantee.
package store

import (
	"time"

	"github.com/iwen-conf/DormDB/internal/models"
	"github.com/iwen-conf/DormDB/internal/retry"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Store struct {
	db *gorm.DB
}

// Options tunes the ledger connection. Zero values fall back to defaults.
type Options struct {
	MaxOpenConns int
	ConnLifetime time.Duration
	Retry        retry.Policy
}

// New opens the ledger database, runs migrations, and installs the active
// uniqueness index. Connection establishment is retried per the policy;
// nothing else in this package retries.
func New(driver, dsn string, opts Options) (*Store, error) {
	dialector, err := openDialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = retry.Policy{MaxAttempts: 1}
	}

	var db *gorm.DB
	err = opts.Retry.Do("ledger connect", func() error {
		db, err = gorm.Open(dialector, &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Warn),
			TranslateError: true,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.ConnLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnLifetime)
	}

	if err := db.AutoMigrate(
		&models.GrantRecord{},
		&models.AllowlistEntry{},
	); err != nil {
		return nil, err
	}

	// AutoMigrate cannot express a partial index, and a plain unique index
	// would block re-provisioning a deleted key. Uniqueness holds only
	// among non-deleted rows.
	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_grant_records_active_key
		 ON grant_records(identity_key) WHERE status != 'deleted'`,
	).Error; err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// Health checks the database connection
func (s *Store) Health() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// DB returns the underlying GORM database connection (for transactions)
func (s *Store) DB() *gorm.DB {
	return s.db
}
