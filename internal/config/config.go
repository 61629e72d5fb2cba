package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Key format policy constants
const (
	KeyFormatFlexible = "flexible"
	KeyFormatStrict   = "strict"
)

type Config struct {
	// Server settings
	ServerAddr string

	// Ledger database (sqlite)
	LedgerDriver string // "sqlite"
	LedgerDSN    string // file path or ":memory:"

	// MySQL tenant server
	MySQLHost     string
	MySQLPort     int
	MySQLUser     string
	MySQLPassword string
	MySQLDatabase string

	// Host the provisioned users may connect from. A wildcard "%" is
	// refused unless DevMode is set.
	AllowedHost string
	DevMode     bool

	// Connection pool settings
	LedgerMaxOpenConns int
	MySQLMaxOpenConns  int
	MySQLMaxIdleConns  int
	ConnMaxLifetime    time.Duration
	ConnectMaxRetries  int
	ConnectRetryDelay  time.Duration

	// Identity key policy
	KeyFormat    string // "flexible" or "strict"
	MaxKeyLength int

	// Generated credential length
	PasswordLength int

	// Admin settings
	AdminPassword     string // plaintext fallback when hash is unset
	AdminPasswordHash string // bcrypt hash, preferred
	JWTSecret         string
	JWTExpiration     time.Duration

	// Metrics
	EnableMetrics bool
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":3000"),

		LedgerDriver: getEnv("LEDGER_DRIVER", "sqlite"),
		LedgerDSN:    getEnv("LEDGER_DSN", getEnv("SQLITE_PATH", "dormdb_state.db")),

		MySQLHost:     getEnv("MYSQL_HOST", "localhost"),
		MySQLPort:     getEnvInt("MYSQL_PORT", 3306),
		MySQLUser:     getEnv("MYSQL_USERNAME", "root"),
		MySQLPassword: getEnv("MYSQL_PASSWORD", ""),
		MySQLDatabase: getEnv("MYSQL_DATABASE", "mysql"),

		AllowedHost: getEnv("MYSQL_ALLOWED_HOST", "localhost"),
		DevMode:     getEnvBool("DEV_MODE", false),

		LedgerMaxOpenConns: getEnvInt("LEDGER_MAX_OPEN_CONNS", 20),
		MySQLMaxOpenConns:  getEnvInt("MYSQL_MAX_OPEN_CONNS", 10),
		MySQLMaxIdleConns:  getEnvInt("MYSQL_MAX_IDLE_CONNS", 2),
		ConnMaxLifetime:    getEnvDuration("CONN_MAX_LIFETIME", time.Hour),
		ConnectMaxRetries:  getEnvInt("CONNECT_MAX_RETRIES", 3),
		ConnectRetryDelay:  getEnvDuration("CONNECT_RETRY_DELAY", time.Second),

		KeyFormat:    getEnv("KEY_FORMAT", KeyFormatFlexible),
		MaxKeyLength: getEnvInt("MAX_KEY_LENGTH", 50),

		PasswordLength: getEnvInt("PASSWORD_LENGTH", 16),

		AdminPassword:     getEnv("ADMIN_PASSWORD", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		JWTSecret:         getEnv("JWT_SECRET", "change-me-in-production"),
		JWTExpiration:     getEnvDuration("JWT_EXPIRATION", 24*time.Hour),

		EnableMetrics: getEnvBool("ENABLE_METRICS", true),
	}
}

// Validate rejects configurations that would be unsafe or unusable at
// runtime. Called once at startup before any connection is opened.
func (c *Config) Validate() error {
	if c.MySQLHost == "" {
		return fmt.Errorf("MYSQL_HOST must not be empty")
	}
	if c.MySQLPort <= 0 || c.MySQLPort > 65535 {
		return fmt.Errorf("invalid MYSQL_PORT: %d", c.MySQLPort)
	}
	if c.MySQLPassword == "" {
		return fmt.Errorf("MYSQL_PASSWORD is required")
	}
	if c.LedgerDSN == "" {
		return fmt.Errorf("LEDGER_DSN must not be empty")
	}
	if c.AllowedHost == "" {
		return fmt.Errorf("MYSQL_ALLOWED_HOST must not be empty")
	}
	// A wildcard host on a shared server lets any tenant's machine log in
	// as any provisioned user.
	if c.AllowedHost == "%" && !c.DevMode {
		return fmt.Errorf("MYSQL_ALLOWED_HOST=%% is only permitted with DEV_MODE=true")
	}
	if c.KeyFormat != KeyFormatFlexible && c.KeyFormat != KeyFormatStrict {
		return fmt.Errorf("unknown KEY_FORMAT: %s", c.KeyFormat)
	}
	if c.MaxKeyLength < 1 {
		return fmt.Errorf("MAX_KEY_LENGTH must be positive")
	}
	if c.PasswordLength < 8 {
		return fmt.Errorf("PASSWORD_LENGTH must be at least 8")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
