package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PERIODIZE_DB", "")
	t.Setenv("DEV_MODE", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "libsql", cfg.DB.Driver)
	assert.Empty(t, cfg.DB.ConnectionString)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "text", cfg.Server.LogFormat)
}

func TestLoadConfig_File(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PERIODIZE_DB", "")
	t.Setenv("DEV_MODE", "")

	dir := filepath.Join(home, ".config", "periodize")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
[database]
driver = "sqlite3"
connection_string = "file:test.db"

[server]
port = 9090
log_format = "json"
`), 0o644))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "sqlite3", cfg.DB.Driver)
	assert.Equal(t, "file:test.db", cfg.DB.ConnectionString)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "json", cfg.Server.LogFormat)
	// Unset fields still get defaults.
	assert.Equal(t, "info", cfg.Server.LogLevel)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PERIODIZE_DB", "libsql://somewhere.turso.io?authToken=x")
	t.Setenv("DEV_MODE", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "libsql://somewhere.turso.io?authToken=x", cfg.DB.ConnectionString)

	// DEV_MODE wins over everything.
	t.Setenv("DEV_MODE", "true")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "file:./local.db?cache=shared&mode=rwc", cfg.DB.ConnectionString)
}
