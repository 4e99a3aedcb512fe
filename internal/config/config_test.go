package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, 5432, cfg.DBPort)
	assert.Equal(t, "catalog_db", cfg.DBName)
	assert.Equal(t, "8087", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 1000, cfg.SKUMaxAttempts)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("PORT", "9000")
	t.Setenv("SKU_MAX_ATTEMPTS", "50")
	t.Setenv("NATS_URL", "nats://localhost:4222")

	cfg := Load()

	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, 5433, cfg.DBPort)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 50, cfg.SKUMaxAttempts)
	assert.Equal(t, "nats://localhost:4222", cfg.NATSURL)
}
