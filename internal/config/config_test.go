package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.False(t, cfg.DBEnabled)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 4, cfg.Import.Workers)
	assert.Equal(t, 60*time.Second, cfg.Import.Timeout)
	assert.Equal(t, 20, cfg.Import.HeaderScanRows)
	assert.Equal(t, "memory", cfg.Lock.Backend)
	assert.Equal(t, "sochipe", cfg.Scoring.RuleSet)
	assert.Equal(t, 5*time.Second, cfg.WebhookDeadline)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("DB_ENABLED", "true")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("IMPORT_WORKERS", "8")
	t.Setenv("IMPORT_TIMEOUT", "2m")
	t.Setenv("LOCK_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg := Load()

	assert.True(t, cfg.DBEnabled)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, 8, cfg.Import.Workers)
	assert.Equal(t, 2*time.Minute, cfg.Import.Timeout)
	assert.Equal(t, "redis", cfg.Lock.Backend)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("IMPORT_WORKERS", "many")
	t.Setenv("IMPORT_TIMEOUT", "-5s")

	cfg := Load()

	assert.Equal(t, 4, cfg.Import.Workers)
	assert.Equal(t, 60*time.Second, cfg.Import.Timeout)
}
