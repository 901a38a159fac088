package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("NEO4J_PASSWORD", "secret")
	t.Setenv("TAXII_BASE_URL", "http://taxii.test/collections/1/objects")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "bolt://localhost:7687", cfg.Neo4jURI)
	assert.Equal(t, "neo4j", cfg.Neo4jUser)
	assert.Equal(t, 10*time.Second, cfg.PollInterval)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, float64(0), cfg.FeedRateLimit)
	assert.False(t, cfg.EnableTracing)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("POLL_INTERVAL", "60")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("FEED_RATE_LIMIT", "2.5")
	t.Setenv("ENABLE_TRACING", "true")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, cfg.PollInterval)
	assert.Equal(t, 2.5, cfg.FeedRateLimit)
	assert.True(t, cfg.EnableTracing)
	assert.True(t, cfg.IsProduction())
}

func TestLoadConfig_MissingFeedURL(t *testing.T) {
	t.Setenv("NEO4J_PASSWORD", "secret")
	t.Setenv("TAXII_BASE_URL", "")

	_, err := LoadConfig()

	assert.Error(t, err)
}

func TestLoadConfig_MissingStorePassword(t *testing.T) {
	t.Setenv("NEO4J_PASSWORD", "")
	t.Setenv("TAXII_BASE_URL", "http://taxii.test/objects")

	_, err := LoadConfig()

	assert.Error(t, err)
}

func TestLoadConfig_FileOverrides(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "overrides.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"poll_interval_seconds: 120\nlog_level: debug\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 120*time.Second, cfg.PollInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
	// Keys absent from the file keep their environment values.
	assert.Equal(t, ":8080", cfg.ServerAddress)
}

func TestValidate_RejectsNonPositiveInterval(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("POLL_INTERVAL", "0")

	_, err := LoadConfig()

	assert.Error(t, err)
}
