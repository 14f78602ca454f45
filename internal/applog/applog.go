// Package applog builds the structured logger handed to the pipeline.
package applog

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ParseLevel maps debug/info/warn/error to a slog level; anything else is info.
func ParseLevel(level string, verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// FileName is the dated log file written inside a log directory.
func FileName(now time.Time) string {
	return "app_" + now.Format("20060102") + ".log"
}

// New returns a text logger. With dir set, records are appended to
// dir/app_YYYYMMDD.log; otherwise they go to fallback. The returned close
// function releases the file and is always safe to call.
func New(level slog.Level, dir string, fallback io.Writer, now time.Time) (*slog.Logger, func() error, error) {
	opts := &slog.HandlerOptions{Level: level}
	if dir == "" {
		return slog.New(slog.NewTextHandler(fallback, opts)), func() error { return nil }, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, FileName(now)), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(slog.NewTextHandler(f, opts)), f.Close, nil
}
