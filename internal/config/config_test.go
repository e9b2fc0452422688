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
	cfg, err := load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "quiz.db", cfg.DB.Path)
	assert.Equal(t, 30*time.Second, cfg.DB.MaxConnLifetime)
	assert.Equal(t, SessionMemory, cfg.Session.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "admin@example.com", cfg.Admin.Email)
	assert.Equal(t, 10, cfg.Quiz.DefaultQuestions)
	assert.Equal(t, 20, cfg.Quiz.PageSize)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/myquest")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("ADMIN_PASSWORD", "s3cret!")

	cfg, err := load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	dsn, err := cfg.DB.DSN()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/myquest", dsn)
	assert.Equal(t, SessionRedis, cfg.Session.Backend)
	assert.Equal(t, "s3cret!", cfg.Admin.Password)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	data := "http:\n  addr: \":9090\"\nquiz:\n  page_size: 5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(data), 0o644))

	cfg, err := load(dir)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, 5, cfg.Quiz.PageSize)
}

func TestLoadValidation(t *testing.T) {
	t.Run("postgres without url", func(t *testing.T) {
		t.Setenv("DATABASE_DRIVER", "postgres")
		t.Setenv("DATABASE_URL", "")
		_, err := load(t.TempDir())
		assert.ErrorIs(t, err, ErrMissingEnvironmentVariables)
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("DATABASE_DRIVER", "oracle")
		_, err := load(t.TempDir())
		assert.ErrorIs(t, err, ErrUnsupportedDriver)
	})

	t.Run("unknown session backend", func(t *testing.T) {
		t.Setenv("SESSION_BACKEND", "cookie")
		_, err := load(t.TempDir())
		assert.ErrorIs(t, err, ErrUnsupportedSessionBackend)
	})
}
