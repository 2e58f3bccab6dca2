package logger

import (
	"io"
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/kirychukyurii/dr-dashboard/internal/config"
)

// NewFromConfig creates a logger according to the log section of the configuration.
// When a file is configured, output goes to a size-rotated file and the returned closer releases it,
// otherwise records are written to console.
func NewFromConfig(cfg config.LogConfig, console io.Writer) (*slog.Logger, io.Closer) {
	level := ParseLevel(cfg.Level)

	if cfg.File == "" {
		return newJSON(console, level), nopCloser{}
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		Compress:   true,
	}

	return newJSON(rotator, level), rotator
}

// ParseLevel converts a textual level to slog.Level, falling back to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard returns a logger that drops every record, for tests
func Discard() *slog.Logger {
	return newJSON(io.Discard, slog.LevelError)
}

func newJSON(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewJSONHandler(w, opts)
	return slog.New(handler)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
