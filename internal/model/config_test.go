package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 300, cfg.List.SearchDebounceMs)
	assert.Equal(t, 60, cfg.List.PollIntervalSec)
	assert.Equal(t, 3, cfg.API.MaxRetries)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfigReadsFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
api:
  base_url: https://trains.example.com
  timeout_sec: 5
list:
  search_debounce_ms: 150
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	t.Setenv("TRAINADMIN_LOG_LEVEL", "debug")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://trains.example.com", cfg.API.BaseURL)
	assert.Equal(t, 5, cfg.API.TimeoutSec)
	assert.Equal(t, 150, cfg.List.SearchDebounceMs)
	assert.Equal(t, 60, cfg.List.PollIntervalSec)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultAppConfig()
	cfg.API.BaseURL = "https://saved.example.com"

	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://saved.example.com", loaded.API.BaseURL)
}
