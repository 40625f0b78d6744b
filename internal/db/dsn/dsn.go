// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"strings"

	"github.com/ClinicOps/clinicops/internal/config"
)

// Default ports used when db.port is zero.
const (
	DefaultMySQLPort    = 3306
	DefaultPostgresPort = 5432
)

// Create builds the Data Source Name for the configured driver.
// It returns an empty string for an unknown driver.
func Create(db config.DB) string {
	switch db.Driver {
	case config.DriverMySQL:
		out := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
			db.User,
			db.Password,
			db.Host,
			port(db.Port, DefaultMySQLPort),
			db.Name,
		)

		if db.Extras != "" {
			out += "?" + db.Extras
		}

		return out
	case config.DriverPostgres:
		parts := []string{
			"host=" + db.Host,
			fmt.Sprintf("port=%d", port(db.Port, DefaultPostgresPort)),
			"user=" + db.User,
			"password=" + db.Password,
			"dbname=" + db.Name,
		}

		if db.Extras != "" {
			parts = append(parts, db.Extras)
		}

		return strings.Join(parts, " ")
	case config.DriverSQLite:
		if db.Extras != "" {
			return db.Path + "?" + db.Extras
		}

		return db.Path
	default:
		return ""
	}
}

func port(p, fallback int) int {
	if p == 0 {
		return fallback
	}

	return p
}
