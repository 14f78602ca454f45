package applog

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("info", true))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN", false))
	assert.Equal(t, slog.LevelError, ParseLevel("error", false))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus", false))
}

func TestNewFallback(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(slog.LevelInfo, "", &buf, time.Now())
	require.NoError(t, err)
	defer closeFn()

	logger.Debug("hidden")
	logger.Info("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "k=v")
}

func TestNewDatedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	logger, closeFn, err := New(slog.LevelDebug, dir, nil, now)
	require.NoError(t, err)
	logger.Debug("first")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(filepath.Join(dir, "app_20261014.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=first")
}
