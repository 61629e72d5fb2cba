package store

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openDialector maps the configured ledger driver name onto a GORM
// dialector. The ledger is sqlite in practice; the name stays configurable
// so a different embedded driver could be slotted in without touching New.
func openDialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "sqlite":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported ledger driver: %s", driver)
	}
}
