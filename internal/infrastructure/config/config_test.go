package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dealerportal-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.False(t, cfg.IsProduction())

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Equal(t, "dealerportal", cfg.Database.DBName)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)

	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "stdout", cfg.Log.Output)

	assert.Equal(t, int64(20*1024*1024), cfg.Import.MaxFileSize)
	assert.Equal(t, 200000, cfg.Import.MaxRows)
	assert.Equal(t, 1000, cfg.Import.MaxErrors)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORTAL_APP_ENV", "production")
	t.Setenv("PORTAL_DATABASE_HOST", "db.internal")
	t.Setenv("PORTAL_DATABASE_PASSWORD", "secret")
	t.Setenv("PORTAL_REDIS_ENABLED", "true")
	t.Setenv("PORTAL_IMPORT_MAX_ROWS", "500")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Env)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "json", cfg.Log.Format) // production default
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 500, cfg.Import.MaxRows)
}

func TestLoadValidation(t *testing.T) {
	t.Run("rejects unknown log level", func(t *testing.T) {
		t.Setenv("PORTAL_LOG_LEVEL", "verbose")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("rejects unknown log format", func(t *testing.T) {
		t.Setenv("PORTAL_LOG_FORMAT", "xml")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log format")
	})

	t.Run("rejects negative import limits", func(t *testing.T) {
		t.Setenv("PORTAL_IMPORT_MAX_ERRORS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "import limits cannot be negative")
	})
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "portal",
		Password: "p@ss word",
		DBName:   "dealerportal",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=portal password=p%40ss+word dbname=dealerportal sslmode=require",
		d.DSN())
}
