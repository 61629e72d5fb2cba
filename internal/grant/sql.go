package grant

import (
	"fmt"
	"strings"

	"github.com/iwen-conf/DormDB/internal/identity"
)

// The privilege set a tenant receives on its own database, and nothing
// else. No CREATE, DROP, or ALTER: tenants must not reshape or destroy
// what the service manages.
const tenantPrivileges = "SELECT, INSERT, UPDATE, DELETE, INDEX, LOCK TABLES"

// Global structural and administrative privileges explicitly revoked after
// the grant, in case the user pre-existed with a wider set.
const dangerousPrivileges = "CREATE, DROP, ALTER, REFERENCES, " +
	"CREATE TEMPORARY TABLES, EXECUTE, CREATE VIEW, SHOW VIEW, " +
	"CREATE ROUTINE, ALTER ROUTINE, EVENT, TRIGGER"

// MySQL cannot bind identifiers as statement parameters, so these builders
// only ever accept identity.Identifier, which carries a validated key.
// Passwords are the one free-form value and are escaped as string literals.

func createDatabaseSQL(id identity.Identifier) string {
	return fmt.Sprintf(
		"CREATE DATABASE IF NOT EXISTS `%s` CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci",
		id.DBName())
}

func createUserSQL(id identity.Identifier, host, password string) string {
	return fmt.Sprintf("CREATE USER IF NOT EXISTS '%s'@'%s' IDENTIFIED BY '%s'",
		id.DBUser(), host, escapeStringLiteral(password))
}

func grantSQL(id identity.Identifier, host string) string {
	return fmt.Sprintf("GRANT %s ON `%s`.* TO '%s'@'%s'",
		tenantPrivileges, id.DBName(), id.DBUser(), host)
}

func revokeSQL(id identity.Identifier, host string) string {
	return fmt.Sprintf("REVOKE %s ON *.* FROM '%s'@'%s'",
		dangerousPrivileges, id.DBUser(), host)
}

func dropUserSQL(id identity.Identifier, host string) string {
	return fmt.Sprintf("DROP USER IF EXISTS '%s'@'%s'", id.DBUser(), host)
}

func dropDatabaseSQL(id identity.Identifier) string {
	return fmt.Sprintf("DROP DATABASE IF EXISTS `%s`", id.DBName())
}

func escapeStringLiteral(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `''`)
}
