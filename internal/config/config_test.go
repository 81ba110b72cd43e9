package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(home, ".config", "wattwatch", "wattwatch.db"), cfg.Storage.Path)
	assert.Equal(t, 5, cfg.Analysis.TopN)
	assert.True(t, cfg.Output.Color)
	assert.Equal(t, 80, cfg.Output.Width)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoad_FileOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
storage:
  backend: json
analysis:
  top_n: 3
server:
  addr: "127.0.0.1:9090"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(home, ".config", "wattwatch", "data.json"), cfg.Storage.Path)
	assert.Equal(t, 3, cfg.Analysis.TopN)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
}

func TestLoad_ExpandsStoragePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(writeConfig(t, "storage:\n  path: ~/energy/home.db\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "energy", "home.db"), cfg.Storage.Path)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("WATTWATCH_STORAGE_BACKEND", "json")
	t.Setenv("WATTWATCH_SERVER_ADDR", ":7000")

	cfg, err := Load(writeConfig(t, "storage:\n  backend: sqlite\n"))
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Storage.Backend)
	assert.Equal(t, ":7000", cfg.Server.Addr)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := Load(writeConfig(t, "storage:\n  backend: postgres\n"))
	assert.ErrorContains(t, err, "storage.backend")

	_, err = Load(writeConfig(t, "analysis:\n  top_n: -1\n"))
	assert.ErrorContains(t, err, "analysis.top_n")
}
