package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	t.Setenv(EnvServerURL, "")
	home := t.TempDir()

	cfg, err := LoadFrom(filepath.Join(home, "missing.toml"), home)
	require.NoError(t, err)
	assert.Equal(t, DefaultServerURL, cfg.ServerURL)
	assert.Equal(t, filepath.Join(home, ".config", "vask", "history.db"), cfg.HistoryPath)
	assert.Equal(t, filepath.Join(home, ".config", "vask", "vask.log"), cfg.LogPath)
	assert.Equal(t, time.Duration(0), cfg.Timeout)
	assert.True(t, cfg.SaveHistory)
}

func TestLoadFrom_File(t *testing.T) {
	t.Setenv(EnvServerURL, "")
	home := t.TempDir()
	path := filepath.Join(home, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
server_url = "https://ask.example.com"
history_path = "~/data/h.db"
timeout = "30s"
save_history = false
`), 0o644))

	cfg, err := LoadFrom(path, home)
	require.NoError(t, err)
	assert.Equal(t, "https://ask.example.com", cfg.ServerURL)
	assert.Equal(t, filepath.Join(home, "data", "h.db"), cfg.HistoryPath)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.False(t, cfg.SaveHistory)
}

func TestLoadFrom_EnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`server_url = "https://file.example.com"`), 0o644))
	t.Setenv(EnvServerURL, "http://env.example.com")

	cfg, err := LoadFrom(path, home)
	require.NoError(t, err)
	assert.Equal(t, "http://env.example.com", cfg.ServerURL)
}

func TestLoadFrom_Invalid(t *testing.T) {
	t.Setenv(EnvServerURL, "")
	home := t.TempDir()

	bad := filepath.Join(home, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte(`server_url = `), 0o644))
	_, err := LoadFrom(bad, home)
	assert.Error(t, err)

	neg := filepath.Join(home, "neg.toml")
	require.NoError(t, os.WriteFile(neg, []byte(`timeout = "-1s"`), 0o644))
	_, err = LoadFrom(neg, home)
	assert.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	assert.Equal(t, filepath.Join("/h", "x"), expandHome("~/x", "/h"))
	assert.Equal(t, "/abs/x", expandHome("/abs/x", "/h"))
	assert.Equal(t, "~", expandHome("~", "/h"))
}
