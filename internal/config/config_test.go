package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "lab")
	t.Setenv("QEX_DATA_DIR", dataDir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, dataDir, cfg.DataDir)
	assert.DirExists(t, cfg.DataDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DevMode)
	assert.Equal(t, filepath.Join(dataDir, "qex.db"), cfg.StorePath())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("QEX_DATA_DIR", t.TempDir())
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DEV_MODE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.DevMode)
}
