package grant

import (
	"fmt"
	"log"

	"github.com/iwen-conf/DormDB/internal/config"
	"github.com/iwen-conf/DormDB/internal/identity"
	"github.com/iwen-conf/DormDB/internal/models"
	"github.com/iwen-conf/DormDB/internal/retry"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MySQLEngine implements Engine against a live MySQL server.
type MySQLEngine struct {
	db          *gorm.DB
	host        string
	port        int
	allowedHost string
	devMode     bool
}

var _ Engine = (*MySQLEngine)(nil)

// NewMySQLEngine connects to the configured server. Connection
// establishment is retried with backoff; individual operations are not.
func NewMySQLEngine(cfg *config.Config) (*MySQLEngine, error) {
	if err := ValidateHost(cfg.AllowedHost, cfg.DevMode); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&timeout=15s",
		cfg.MySQLUser, cfg.MySQLPassword, cfg.MySQLHost, cfg.MySQLPort, cfg.MySQLDatabase)

	policy := retry.Policy{
		MaxAttempts:  cfg.ConnectMaxRetries,
		InitialDelay: cfg.ConnectRetryDelay,
	}

	var db *gorm.DB
	err := policy.Do("mysql connect", func() error {
		var openErr error
		db, openErr = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		return openErr
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MySQLMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MySQLMaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return &MySQLEngine{
		db:          db,
		host:        cfg.MySQLHost,
		port:        cfg.MySQLPort,
		allowedHost: cfg.AllowedHost,
		devMode:     cfg.DevMode,
	}, nil
}

// CreateScopedResource runs the creation sequence in fixed order:
// database, user, minimal grant, dangerous revoke, privilege flush. The
// revoke runs even when the user was just created and holds nothing to
// revoke, so its errors are logged and swallowed.
func (e *MySQLEngine) CreateScopedResource(
	id identity.Identifier, password string,
) (*models.Credentials, error) {
	if err := ValidateHost(e.allowedHost, e.devMode); err != nil {
		return nil, err
	}

	if err := e.db.Exec(createDatabaseSQL(id)).Error; err != nil {
		return nil, fmt.Errorf("create database %s: %w", id.DBName(), err)
	}

	if err := e.db.Exec(createUserSQL(id, e.allowedHost, password)).Error; err != nil {
		return nil, fmt.Errorf("create user %s@%s: %w", id.DBUser(), e.allowedHost, err)
	}

	if err := e.db.Exec(grantSQL(id, e.allowedHost)).Error; err != nil {
		return nil, fmt.Errorf("grant on %s: %w", id.DBName(), err)
	}

	if err := e.db.Exec(revokeSQL(id, e.allowedHost)).Error; err != nil {
		// The user may simply not hold any of these privileges yet.
		log.Printf("revoke for %s@%s: %v", id.DBUser(), e.allowedHost, err)
	}

	if err := e.db.Exec("FLUSH PRIVILEGES").Error; err != nil {
		return nil, fmt.Errorf("flush privileges: %w", err)
	}

	log.Printf("provisioned %s for %s (privileges: %s)",
		id.DBName(), id.Key(), tenantPrivileges)

	return models.NewCredentials(e.host, e.port, id.DBName(), id.DBUser(), password), nil
}

// Teardown drops the user, the database, and flushes privileges, in that
// order. It runs inside compensation paths, so server-side errors are
// logged rather than returned; IF EXISTS makes repeat calls no-ops.
func (e *MySQLEngine) Teardown(id identity.Identifier) error {
	if err := e.db.Exec(dropUserSQL(id, e.allowedHost)).Error; err != nil {
		log.Printf("teardown: drop user %s@%s: %v", id.DBUser(), e.allowedHost, err)
	}
	if err := e.db.Exec(dropDatabaseSQL(id)).Error; err != nil {
		log.Printf("teardown: drop database %s: %v", id.DBName(), err)
	}
	if err := e.db.Exec("FLUSH PRIVILEGES").Error; err != nil {
		log.Printf("teardown: flush privileges: %v", err)
	}
	return nil
}

// ResourceExists performs live catalog lookups; results are never cached.
func (e *MySQLEngine) ResourceExists(id identity.Identifier) (bool, bool, error) {
	var dbCount int64
	err := e.db.Raw(
		"SELECT COUNT(*) FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?",
		id.DBName(),
	).Scan(&dbCount).Error
	if err != nil {
		return false, false, fmt.Errorf("schema lookup for %s: %w", id.DBName(), err)
	}

	var userCount int64
	err = e.db.Raw(
		"SELECT COUNT(*) FROM mysql.user WHERE User = ? AND Host = ?",
		id.DBUser(), e.allowedHost,
	).Scan(&userCount).Error
	if err != nil {
		return false, false, fmt.Errorf("user lookup for %s: %w", id.DBUser(), err)
	}

	return dbCount > 0, userCount > 0, nil
}

// Ping checks server connectivity.
func (e *MySQLEngine) Ping() error {
	sqlDB, err := e.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
