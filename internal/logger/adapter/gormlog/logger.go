// Package gormlog writes gorm statements to the global zerolog logger.
package gormlog

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DefaultSlowThreshold marks statements taking longer as slow.
const DefaultSlowThreshold = 200 * time.Millisecond

// Logger implements gorm's logger.Interface on top of zerolog.
type Logger struct {
	mode          gormlogger.LogLevel
	sqlLevel      zerolog.Level
	slowThreshold time.Duration
}

// New creates a Logger. Successful statements are logged at sqlLevel, slow
// ones at warn and failed ones at error. gorm.ErrRecordNotFound is not a failure.
func New(sqlLevel zerolog.Level, slowThreshold time.Duration) *Logger {
	if slowThreshold <= 0 {
		slowThreshold = DefaultSlowThreshold
	}

	return &Logger{
		mode:          gormlogger.Info,
		sqlLevel:      sqlLevel,
		slowThreshold: slowThreshold,
	}
}

// LogMode implements gormlogger.Interface.
func (l *Logger) LogMode(mode gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.mode = mode

	return &clone
}

// Info implements gormlogger.Interface.
func (l *Logger) Info(_ context.Context, msg string, data ...any) {
	if l.mode >= gormlogger.Info {
		log.Info().Msg(fmt.Sprintf(msg, data...))
	}
}

// Warn implements gormlogger.Interface.
func (l *Logger) Warn(_ context.Context, msg string, data ...any) {
	if l.mode >= gormlogger.Warn {
		log.Warn().Msg(fmt.Sprintf(msg, data...))
	}
}

// Error implements gormlogger.Interface.
func (l *Logger) Error(_ context.Context, msg string, data ...any) {
	if l.mode >= gormlogger.Error {
		log.Error().Msg(fmt.Sprintf(msg, data...))
	}
}

// Trace implements gormlogger.Interface.
func (l *Logger) Trace(_ context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.mode <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)

	var ev *zerolog.Event

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.mode >= gormlogger.Error:
		ev = log.Error().Err(err)
	case elapsed > l.slowThreshold && l.mode >= gormlogger.Warn:
		ev = log.Warn().Bool("slow", true)
	case l.mode >= gormlogger.Info:
		ev = log.WithLevel(l.sqlLevel)
	default:
		return
	}

	sql, rows := fc()

	ev.Str("sql", sql).
		Int64("rows", rows).
		Dur("elapsed", elapsed).
		Msg("sql")
}
