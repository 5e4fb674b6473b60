// Package logging builds the application's file logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nhle/trainadmin/internal/model"
)

const timeFormat = "2006-01-02 15:04:05"

// Open creates a logger writing to cfg.File at cfg.Level. The returned
// closer releases the file. An empty file path discards all output.
func Open(cfg model.LogConfig) (*log.Logger, io.Closer, error) {
	if cfg.File == "" {
		return New(io.Discard, cfg.Level), io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file %s: %w", cfg.File, err)
	}
	return New(f, cfg.Level), f, nil
}

// New creates a text logger on w. Unknown levels fall back to info.
func New(w io.Writer, level string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      timeFormat,
		Level:           ParseLevel(level),
		Prefix:          "trainadmin",
	})
}

// ParseLevel maps a config level name to a log level.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
