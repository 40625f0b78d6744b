package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ClinicOps/clinicops/internal/logger"
)

func TestLogger(t *testing.T) {
	type testCase struct {
		name             string
		cfg              logger.Log
		shouldHaveOutPut bool
		outPutIsJSON     bool
	}

	testCases := []testCase{
		{
			name: "no logger enabled log level not set",
			cfg: logger.Log{
				ServiceName: "test",
				AppName:     "test",
			},
			shouldHaveOutPut: false,
		},
		{
			name: "console enabled log level info",
			cfg: logger.Log{
				LogLevel:    "info",
				ServiceName: "test",
				AppName:     "test",
				Console:     logger.Console{Enabled: true},
			},
			shouldHaveOutPut: true,
		},
		{
			name: "console enabled pretty",
			cfg: logger.Log{
				LogLevel:    "info",
				ServiceName: "test",
				AppName:     "test",
				Console:     logger.Console{Enabled: true, Format: logger.FormatPretty},
			},
			shouldHaveOutPut: true,
		},
		{
			name: "console enabled pretty trace",
			cfg: logger.Log{
				LogLevel:    "trace",
				ServiceName: "test",
				AppName:     "test",
				Console:     logger.Console{Enabled: true, Format: logger.FormatPretty},
			},
			shouldHaveOutPut: true,
		},
		{
			name: "console enabled json info",
			cfg: logger.Log{
				LogLevel:    "info",
				ServiceName: "test",
				AppName:     "test",
				Console:     logger.Console{Enabled: true, Format: logger.FormatJSON},
			},
			shouldHaveOutPut: true,
			outPutIsJSON:     true,
		},
		{
			name: "console enabled json trace with stack",
			cfg: logger.Log{
				LogLevel:     "trace",
				ServiceName:  "test",
				AppName:      "test",
				ReportCaller: true,
				Console:      logger.Console{Enabled: true, Format: logger.FormatJSON},
			},
			shouldHaveOutPut: true,
			outPutIsJSON:     true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := testLoggerConfig(t, tc.cfg)

			if tc.shouldHaveOutPut {
				assert.NotEmpty(t, out)
			} else {
				assert.Empty(t, out)
			}

			if !tc.outPutIsJSON {
				return
			}

			for _, line := range strings.Split(out, "\n") {
				if line == "" {
					continue
				}

				entry := map[string]any{}
				require.NoError(t, json.Unmarshal([]byte(line), &entry), "expected json output but got: %s", line)
				assert.Equal(t, "test", entry["app"])
			}
		})
	}
}

func TestInitErrors(t *testing.T) {
	testCases := []struct {
		name string
		cfg  logger.Log
		err  error
	}{
		{"no service name", logger.Log{AppName: "test"}, logger.ErrServiceNameIsEmpty},
		{"no app name", logger.Log{ServiceName: "test"}, logger.ErrAppNameIsEmpty},
		{
			"unknown console format",
			logger.Log{AppName: "test", ServiceName: "test", Console: logger.Console{Format: "xml"}},
			logger.ErrUnknownConsoleFormat,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, logger.Init(tc.cfg), tc.err)
		})
	}

	require.Error(t, logger.Init(logger.Log{LogLevel: "loud", AppName: "test", ServiceName: "test"}))
}

func TestFileLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	err := logger.Init(logger.Log{
		LogLevel:    "info",
		ServiceName: "test",
		AppName:     "test",
		File: logger.LogFile{
			Enabled: true,
			Path:    dir,
			Error:   logger.Rotation{File: "error.log", MaxSize: 1},
			Info:    logger.Rotation{File: "info.log", MaxSize: 1},
		},
	})
	require.NoError(t, err)

	log.Info().Msg("permissions generated")
	log.Error().Err(alwaysErrFunc()).Msg("permission generation rolled back")
	log.Warn().Msg("dropped, no warn file configured")

	info, err := os.ReadFile(filepath.Join(dir, "info.log"))
	require.NoError(t, err)
	assert.Contains(t, string(info), "permissions generated")
	assert.NotContains(t, string(info), "rolled back")

	errLog, err := os.ReadFile(filepath.Join(dir, "error.log"))
	require.NoError(t, err)
	assert.Contains(t, string(errLog), "rolled back")
}

func TestLevelWriter(t *testing.T) {
	var info, warn, errs bytes.Buffer

	lw := &logger.LevelWriter{InfoWriter: &info, WarnWriter: &warn, ErrorWriter: &errs}

	for _, l := range []zerolog.Level{zerolog.DebugLevel, zerolog.InfoLevel, zerolog.WarnLevel, zerolog.ErrorLevel, zerolog.FatalLevel} {
		_, err := lw.WriteLevel(l, []byte(l.String()+"\n"))
		require.NoError(t, err)
	}

	n, err := lw.WriteLevel(zerolog.TraceLevel, []byte("trace\n"))
	require.NoError(t, err)
	assert.Equal(t, 6, n, "missing writer drops silently")

	assert.Equal(t, "debug\ninfo\n", info.String())
	assert.Equal(t, "warn\n", warn.String())
	assert.Equal(t, "error\nfatal\n", errs.String())
}

func alwaysErrFunc() error {
	return errors.New("a test error") //nolint:err113
}

func testLoggerConfig(t *testing.T, cfg logger.Log) string {
	t.Helper()

	stdout := os.Stdout
	stderr := os.Stderr

	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = w
	os.Stderr = w

	initErr := logger.Init(cfg)

	log.Info().Msg("this info message should be seen...")
	log.Error().Err(alwaysErrFunc()).Msg("this err message should be seen...")
	log.Trace().Err(alwaysErrFunc()).Msg("this trace message should be seen...")

	outC := make(chan string)

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	_ = w.Close()
	os.Stdout = stdout
	os.Stderr = stderr
	out := <-outC

	require.NoError(t, initErr)

	return out
}
