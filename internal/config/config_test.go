package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("PORT", "")
	t.Setenv("LLM_MODEL", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("AI_API_KEY", "")
	t.Setenv("REDIS_ADDR", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "gpt-4o", cfg.LLMModel)
	assert.Equal(t, "output", cfg.OutputDir)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Empty(t, cfg.AIAPIKey)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("LLM_MODEL", "gpt-4o-mini")
	t.Setenv("CACHE_TTL", "30m")
	t.Setenv("ALLOWED_ORIGIN", "https://app.policymitra.in")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "gpt-4o-mini", cfg.LLMModel)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
	assert.Equal(t, []string{"https://app.policymitra.in"}, cfg.AllowedOrigins)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestLoadConfigBadCacheTTL(t *testing.T) {
	t.Setenv("CACHE_TTL", "not-a-duration")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CACHE_TTL")
}
