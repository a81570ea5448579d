package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("STORAGE", StorageMemory)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.HTTPAddr)
		assert.Equal(t, "Europe/Moscow", cfg.DefaultTimezone)
		assert.Equal(t, 24*time.Hour, cfg.OverlapLookback)
		assert.Equal(t, 20, cfg.RateLimitBurst)
		assert.Equal(t, time.Hour, cfg.RequestExpiryInterval)
	})

	t.Run("postgres requires dsn", func(t *testing.T) {
		t.Setenv("STORAGE", StoragePostgres)
		t.Setenv("DB_DSN", "")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("STORAGE", StoragePostgres)
		t.Setenv("DB_DSN", "postgres://localhost/tutor")
		t.Setenv("OVERLAP_LOOKBACK", "12h")
		t.Setenv("RATE_LIMIT_RPS", "2.5")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 12*time.Hour, cfg.OverlapLookback)
		assert.Equal(t, 2.5, cfg.RateLimitRPS)
	})

	t.Run("unknown storage", func(t *testing.T) {
		t.Setenv("STORAGE", "sqlite")

		_, err := Load()
		assert.Error(t, err)
	})
}
