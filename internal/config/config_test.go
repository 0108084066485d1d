package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIKeyEnv, cfg.APIKeyEnv)
	assert.Equal(t, 120*time.Second, cfg.Timeout.Std())
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 24*time.Hour, cfg.Redis.TTL.Std())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoad_LayersFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canopy.yaml")
	raw := `
default_model: claude-3-haiku-20240307
timeout: 30s
http:
  addr: ":9090"
redis:
  addr: "localhost:6379"
  ttl: 1h
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "claude-3-haiku-20240307", cfg.DefaultModel)
	assert.Equal(t, 30*time.Second, cfg.Timeout.Std())
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, time.Hour, cfg.Redis.TTL.Std())
	assert.Equal(t, "debug", cfg.LogLevel)

	// Untouched keys keep their defaults.
	assert.Equal(t, DefaultAPIKeyEnv, cfg.APIKeyEnv)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canopy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http: [unclosed"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_BadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canopy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timeout: fast\n"), 0o600))

	_, err := Load(path)
	assert.ErrorContains(t, err, "invalid duration")
}

func TestAPIKey(t *testing.T) {
	t.Setenv("CANOPY_TEST_KEY", "sk-test")

	cfg := Default()
	cfg.APIKeyEnv = "CANOPY_TEST_KEY"
	assert.Equal(t, "sk-test", cfg.APIKey())

	cfg.APIKeyEnv = "CANOPY_TEST_KEY_UNSET"
	assert.Empty(t, cfg.APIKey())
}
