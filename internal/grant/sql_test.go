package grant

import (
	"testing"

	"github.com/iwen-conf/DormDB/internal/identity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIdentifier(t *testing.T, key string) identity.Identifier {
	t.Helper()
	id, err := identity.NewValidator(false, 50).NewIdentifier(key)
	require.NoError(t, err)
	return id
}

func TestCreateDatabaseSQL(t *testing.T) {
	id := testIdentifier(t, "USER123")
	sql := createDatabaseSQL(id)
	assert.Contains(t, sql, "CREATE DATABASE IF NOT EXISTS `db_USER123`")
	assert.Contains(t, sql, "utf8mb4")
}

func TestCreateUserSQL_EscapesPassword(t *testing.T) {
	id := testIdentifier(t, "USER123")
	sql := createUserSQL(id, "localhost", `pa'ss\word`)
	assert.Equal(t,
		`CREATE USER IF NOT EXISTS 'user_USER123'@'localhost' IDENTIFIED BY 'pa''ss\\word'`,
		sql)
}

func TestGrantSQL_MinimalPrivilegeSet(t *testing.T) {
	id := testIdentifier(t, "USER123")
	sql := grantSQL(id, "localhost")
	assert.Equal(t,
		"GRANT SELECT, INSERT, UPDATE, DELETE, INDEX, LOCK TABLES "+
			"ON `db_USER123`.* TO 'user_USER123'@'localhost'",
		sql)
	// Structural privileges must never appear in the grant.
	assert.NotContains(t, sql, "CREATE")
	assert.NotContains(t, sql, "DROP")
	assert.NotContains(t, sql, "ALTER")
}

func TestRevokeSQL_GlobalScope(t *testing.T) {
	id := testIdentifier(t, "USER123")
	sql := revokeSQL(id, "localhost")
	assert.Contains(t, sql, "REVOKE")
	assert.Contains(t, sql, "ON *.* FROM 'user_USER123'@'localhost'")
	for _, priv := range []string{"CREATE", "DROP", "ALTER", "TRIGGER", "EVENT", "EXECUTE"} {
		assert.Contains(t, sql, priv)
	}
}

func TestDropSQL_Idempotent(t *testing.T) {
	id := testIdentifier(t, "USER123")
	assert.Equal(t, "DROP USER IF EXISTS 'user_USER123'@'localhost'",
		dropUserSQL(id, "localhost"))
	assert.Equal(t, "DROP DATABASE IF EXISTS `db_USER123`",
		dropDatabaseSQL(id))
}

func TestEscapeStringLiteral(t *testing.T) {
	assert.Equal(t, "plain", escapeStringLiteral("plain"))
	assert.Equal(t, "it''s", escapeStringLiteral("it's"))
	assert.Equal(t, `a\\b`, escapeStringLiteral(`a\b`))
	assert.Equal(t, `''; DROP TABLE x; --`, escapeStringLiteral(`'; DROP TABLE x; --`))
}
