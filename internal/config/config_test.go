package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PRAXIS_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, []int{30, 60, 90}, cfg.Analysis.Horizons)
	assert.Equal(t, 30, cfg.Analysis.OverdueMinDays)
	assert.Equal(t, int64(32), cfg.Upload.MaxSizeMB)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PRAXIS_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("PRAXIS_SERVER_PORT", "9090")
	t.Setenv("PRAXIS_ANALYSIS_HORIZONS", "15,45")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []int{15, 45}, cfg.Analysis.Horizons)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "praxispulse.yaml")
	content := []byte("server:\n  port: 7070\nlogging:\n  level: debug\n")
	require.NoError(t, os.WriteFile(path, content, 0644))
	t.Setenv("PRAXIS_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidateRejectsBadLevel(t *testing.T) {
	t.Setenv("PRAXIS_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("PRAXIS_LOGGING_LEVEL", "verbose")

	_, err := Load()
	assert.Error(t, err)
}
