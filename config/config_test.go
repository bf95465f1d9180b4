package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postgresYAML = `
database:
  type: postgresql
  host: db.internal
  port: 5432
  database: orders
  username: app
  password: secret
  query:
    slow:
      threshold: 50ms
    log:
      parameters: true
      max: 256
log:
  level: debug
  pretty: true
`

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.False(t, IsDatabaseConfigured(&cfg.Database))
	assert.Equal(t, 200*time.Millisecond, cfg.Database.Query.Slow.Threshold)
	assert.True(t, cfg.Database.Query.Slow.Enabled)
	assert.False(t, cfg.Database.Query.Log.Parameters)
	assert.Equal(t, 1000, cfg.Database.Query.Log.MaxLength)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sqlkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(postgresYAML), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, PostgreSQL, cfg.Database.Type)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "orders", cfg.Database.Database)
	assert.Equal(t, 50*time.Millisecond, cfg.Database.Query.Slow.Threshold)
	assert.True(t, cfg.Database.Query.Log.Parameters)
	assert.Equal(t, 256, cfg.Database.Query.Log.MaxLength)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.yaml")
}

func TestLoadBytes(t *testing.T) {
	cfg, err := LoadBytes([]byte(postgresYAML))
	require.NoError(t, err)
	assert.Equal(t, "orders", cfg.Database.Database)

	_, err = LoadBytes([]byte("database: [unclosed"))
	assert.Error(t, err)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("SQLKIT_DATABASE_HOST", "10.0.0.7")
	t.Setenv("SQLKIT_DATABASE_PORT", "6432")
	t.Setenv("SQLKIT_DATABASE_QUERY_SLOW_THRESHOLD", "1s")
	t.Setenv("SQLKIT_LOG_LEVEL", "warn")

	cfg, err := LoadBytes([]byte(postgresYAML))
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.7", cfg.Database.Host)
	assert.Equal(t, 6432, cfg.Database.Port)
	assert.Equal(t, time.Second, cfg.Database.Query.Slow.Threshold)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "orders", cfg.Database.Database)
}

func TestLoadSQLiteFromEnvironment(t *testing.T) {
	t.Setenv("SQLKIT_DATABASE_TYPE", "sqlite")
	t.Setenv("SQLKIT_DATABASE_DATABASE", ":memory:")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, SQLite, cfg.Database.Type)
	assert.Equal(t, ":memory:", cfg.Database.Database)
}

func TestLoadValidationFailure(t *testing.T) {
	_, err := LoadBytes([]byte("database:\n  type: db2\n  host: localhost\n"))
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "invalid", cfgErr.Category)
	assert.Equal(t, "database.type", cfgErr.Field)
	assert.Contains(t, cfgErr.Action, "postgresql")
}
