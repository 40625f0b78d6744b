package logger

// Console format values.
const (
	FormatAuto   = "auto"
	FormatJSON   = "json"
	FormatPretty = "pretty"
)

// Console implements a console based logger.
type Console struct {
	Enabled bool `toml:"enabled"`
	// Format is one of auto, json or pretty. auto writes pretty output when
	// stdout is a terminal and JSON otherwise.
	Format string `toml:"format"`
}

// Rotation configures one rolling log file.
type Rotation struct {
	File       string `toml:"file"`
	MaxSize    int    `toml:"maxSize"` // megabytes
	MaxBackups int    `toml:"maxBackups"`
	MaxAge     int    `toml:"maxAge"` // days
}

// LogFile implements a file based logger with one file per level group.
type LogFile struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`

	Error Rotation `toml:"error"`
	Warn  Rotation `toml:"warn"`
	Info  Rotation `toml:"info"`
	Trace Rotation `toml:"trace"`
}

// Log implements the logger config.
type Log struct {
	LogLevel     string `toml:"logLevel"` // trace, debug, info, warn, error.
	ReportCaller bool   `toml:"reportCaller"`

	// SQLLevel is the level SQL statements are logged at by the gorm adapter.
	// Slow statements and failures are always logged at warn and error.
	SQLLevel string `toml:"sqlLevel"`

	AppName     string `toml:"appName"`
	ServiceName string `toml:"serviceName"`

	// Console used mainly for docker and interactive use.
	Console Console `toml:"console"`

	File LogFile `toml:"file"`
}
