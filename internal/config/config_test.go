package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x?sslmode=disable")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 25, cfg.DBMaxOpenConns)
	assert.True(t, cfg.AutoMigrate)
	assert.False(t, cfg.ExposeErrorDetail)
	assert.Empty(t, cfg.RedisURL)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("EXPOSE_ERROR_DETAIL", "true")
	t.Setenv("REDIS_URL", "redis://cache:6379/1")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "60")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.ExposeErrorDetail)
	assert.Equal(t, "redis://cache:6379/1", cfg.RedisURL)
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
}

func TestLoad_RejectsUnknownEnv(t *testing.T) {
	t.Setenv("APP_ENV", "staging")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate_PoolSize(t *testing.T) {
	cfg := &Config{Port: 8000, Env: "test", DatabaseURL: "postgres://x", DBMaxOpenConns: 0}
	assert.Error(t, cfg.Validate())

	cfg.DBMaxOpenConns = 2
	assert.NoError(t, cfg.Validate())
}
