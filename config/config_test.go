package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, "genai", cfg.AI.Provider)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "memory", cfg.RateLimit.Store)
	assert.Equal(t, 5, cfg.RateLimit.Questions.MaxRequests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Questions.Window)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("AI_PROVIDER", "vertex")
	t.Setenv("RATELIMIT_STORE", "redis")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "vertex", cfg.AI.Provider)
	assert.Equal(t, "redis", cfg.RateLimit.Store)
	assert.Equal(t, "9090", cfg.HTTP.Port)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "careerpilot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ai:\n  model: gemini-pro\nworkers:\n  count: 7\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini-pro", cfg.AI.Model)
	assert.Equal(t, 7, cfg.Workers.Count)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	t.Setenv("AI_PROVIDER", "openai")

	_, err := Load("")
	require.Error(t, err)
}
