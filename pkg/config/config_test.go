package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Server.Bind)
	assert.Equal(t, 6379, cfg.Server.Port)
	assert.Equal(t, 16, cfg.Databases)
	assert.Equal(t, "badger", cfg.Storage.Engine)
	assert.Equal(t, "INFO", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:6380", cfg.Info.Addr)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load("./does-not-exist.yaml")
	require.NoError(t, err)
	assert.Equal(t, 10000, cfg.Server.MaxClients)
}

func TestLoadOverridesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yaml")
	contents := []byte(`
server:
  bind: "127.0.0.1"
  port: 7000
databases: 4
storage:
  engine: leveldb
  dir: /tmp/ironkv
`)
	require.NoError(t, os.WriteFile(path, contents, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", cfg.Server.Bind)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, 4, cfg.Databases)
	assert.Equal(t, "leveldb", cfg.Storage.Engine)
	assert.Equal(t, "/tmp/ironkv", cfg.Storage.Dir)
	// Untouched keys keep their defaults.
	assert.Equal(t, "INFO", cfg.Log.Level)
}
