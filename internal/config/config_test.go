package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"MS_PORT", "DB_BACKEND", "KAFKA_BROKERS", "REDIS_HOST", "NOMINATIM_RPS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "arango", cfg.DBBackend)
	assert.Equal(t, "admin", cfg.DefaultRole)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Empty(t, cfg.RedisAddr())
	assert.Equal(t, 1.0, cfg.NominatimRPS)
	assert.Equal(t, 24*time.Hour, cfg.GeocodeCacheTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MS_PORT", "8080")
	t.Setenv("DB_BACKEND", "memory")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,,")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("NOMINATIM_RPS", "0.5")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "memory", cfg.DBBackend)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "cache:6379", cfg.RedisAddr())
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 0.5, cfg.NominatimRPS)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	assert.NoError(t, os.WriteFile(path, []byte("EFFIMAPPRO_TEST_VALUE=from-file\nMS_PORT=9999\n"), 0o600))

	t.Setenv("MS_PORT", "4000")
	t.Cleanup(func() { _ = os.Unsetenv("EFFIMAPPRO_TEST_VALUE") })

	LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env"))
	assert.Equal(t, "from-file", os.Getenv("EFFIMAPPRO_TEST_VALUE"))
	assert.Equal(t, "4000", os.Getenv("MS_PORT"))
}

func TestValidate(t *testing.T) {
	t.Setenv("DEFAULT_ROLE", "")
	t.Setenv("DB_BACKEND", "")
	assert.NoError(t, Load().Validate())

	t.Setenv("DEFAULT_ROLE", "viewer")
	assert.NoError(t, Load().Validate())

	t.Setenv("DEFAULT_ROLE", "editor")
	err := Load().Validate()
	assert.ErrorContains(t, err, "DEFAULT_ROLE")

	t.Setenv("DEFAULT_ROLE", "admin")
	t.Setenv("DB_BACKEND", "firestore")
	assert.ErrorContains(t, Load().Validate(), "DB_BACKEND")
}
