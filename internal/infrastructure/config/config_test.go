package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  addr: ":9090"
backend:
  base_url: "http://books.local:8000"
  fetch_attempts: 5
  fetch_backoff: 500ms
storage:
  database_path: "engine.db"
engine:
  ebay_fee_rate: 0.14
  default_acquisition_cost: 1.50
observability:
  logging:
    level: "debug"
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "http://books.local:8000", cfg.Backend.BaseURL)
	assert.Equal(t, 5, cfg.Backend.FetchAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Backend.FetchBackoff.Std())
	assert.Equal(t, "engine.db", cfg.Storage.DatabasePath)
	assert.Equal(t, 0.14, cfg.Engine.EBayFeeRate)
	assert.Equal(t, 1.50, cfg.Engine.DefaultAcquisitionCost)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
}

func TestLoadFromEnv(t *testing.T) {
	os.Setenv("ENGINE_DB_PATH", "test.db")
	os.Setenv("LOTHELPER_API_URL", "http://test:8000")
	os.Setenv("LOTHELPER_FETCH_ATTEMPTS", "4")
	os.Setenv("LOTHELPER_FETCH_BACKOFF", "250ms")
	defer func() {
		os.Unsetenv("ENGINE_DB_PATH")
		os.Unsetenv("LOTHELPER_API_URL")
		os.Unsetenv("LOTHELPER_FETCH_ATTEMPTS")
		os.Unsetenv("LOTHELPER_FETCH_BACKOFF")
	}()

	cfg := LoadFromEnv()
	assert.Equal(t, "test.db", cfg.Storage.DatabasePath)
	assert.Equal(t, "http://test:8000", cfg.Backend.BaseURL)
	assert.Equal(t, 4, cfg.Backend.FetchAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.Backend.FetchBackoff.Std())
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	os.Unsetenv("ENGINE_DB_PATH")
	os.Unsetenv("LOTHELPER_API_URL")
	os.Unsetenv("LOTHELPER_FETCH_ATTEMPTS")

	cfg := LoadFromEnv()
	assert.Equal(t, ":8090", cfg.Server.Addr)
	assert.Equal(t, "catalog.db", cfg.Storage.DatabasePath)
	assert.Equal(t, "http://localhost:8000", cfg.Backend.BaseURL)
	assert.Equal(t, 3, cfg.Backend.FetchAttempts)
	assert.Equal(t, time.Second, cfg.Backend.FetchBackoff.Std())
	assert.Equal(t, "info", cfg.Observability.Logging.Level)
}

func TestLoadOrEnv_FallbackToEnv(t *testing.T) {
	os.Setenv("ENGINE_DB_PATH", "fallback.db")
	defer os.Unsetenv("ENGINE_DB_PATH")

	cfg := LoadOrEnvWithPath("nonexistent.yaml")
	assert.NotNil(t, cfg)
	assert.Equal(t, "fallback.db", cfg.Storage.DatabasePath)
}

func TestEnvVarExpansion(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
storage:
  database_path: "${TEST_ENGINE_DB_PATH}"
backend:
  base_url: "${TEST_LOTHELPER_URL}"
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	os.Setenv("TEST_ENGINE_DB_PATH", "expanded.db")
	os.Setenv("TEST_LOTHELPER_URL", "http://expanded:8000")
	defer func() {
		os.Unsetenv("TEST_ENGINE_DB_PATH")
		os.Unsetenv("TEST_LOTHELPER_URL")
	}()

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "expanded.db", cfg.Storage.DatabasePath)
	assert.Equal(t, "http://expanded:8000", cfg.Backend.BaseURL)
}
