package config

// Supported database drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	Driver   string `toml:"driver"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Name     string `toml:"name"`
	// Extras is appended to the DSN, e.g. "parseTime=true" or "sslmode=disable".
	Extras string `toml:"extras"`
	// Path is the database file of the sqlite driver, ":memory:" for a throwaway database.
	Path string `toml:"path"`
}
