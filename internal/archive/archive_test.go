package archive

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"puzzlearchive/internal/archive/config"
	"puzzlearchive/internal/logging"
)

func TestNewApp(t *testing.T) {
	dir := t.TempDir()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabasePath = filepath.Join(dir, "archive.db")
	cfg.ContentCacheDir = filepath.Join(dir, "content")

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	app, err := NewApp(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	assert.NotNil(t, app.Session)
	assert.NotNil(t, app.Engine)
	assert.NotNil(t, app.Content)
	assert.NotNil(t, app.Attempts)

	// The replica schema is migrated and empty.
	total, err := app.Repos.Catalog.CountMatching(context.Background(), "")
	require.NoError(t, err)
	assert.Zero(t, total)
}
