// Package grant talks to the shared multi-tenant MySQL server. It owns the
// external (database, user, privileges) triples and never caches their
// state: every existence check is a live catalog query.
package grant

import (
	"errors"

	"github.com/iwen-conf/DormDB/internal/identity"
	"github.com/iwen-conf/DormDB/internal/models"
)

var (
	// ErrWildcardHost is returned when the configured allowed host is "%"
	// outside development mode.
	ErrWildcardHost = errors.New("wildcard allowed host is forbidden outside dev mode")

	// ErrInvalidHost is returned when the configured allowed host is not a
	// plausible hostname, IP address, or "localhost".
	ErrInvalidHost = errors.New("invalid allowed host")
)

// Engine creates and destroys scoped tenant resources on the external
// server. Implementations surface raw errors upward; compensation decisions
// belong to the orchestrator.
type Engine interface {
	// CreateScopedResource creates the database, the user bound to the
	// configured allowed host, grants the minimal privilege set on that
	// database only, revokes global structural privileges, and flushes the
	// privilege cache. Creation is idempotent (IF NOT EXISTS).
	CreateScopedResource(id identity.Identifier, password string) (*models.Credentials, error)

	// Teardown drops the user and database, tolerating either being
	// absent. It is used both for admin revocation and as the
	// compensating action during rollback, so it must not fail loudly.
	Teardown(id identity.Identifier) error

	// ResourceExists reports, from a live catalog lookup, whether the
	// database and the user currently exist.
	ResourceExists(id identity.Identifier) (dbExists, userExists bool, err error)

	// Ping checks server connectivity.
	Ping() error
}
