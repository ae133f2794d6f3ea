package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultServerURL is where the Flask backend listens by default.
const DefaultServerURL = "http://localhost:5000"

// EnvServerURL overrides server_url from the config file.
const EnvServerURL = "VASK_SERVER_URL"

type Config struct {
	ServerURL   string        `toml:"server_url"`
	HistoryPath string        `toml:"history_path"`
	LogPath     string        `toml:"log_path"`
	Timeout     time.Duration `toml:"timeout"` // 0 = wait forever
	SaveHistory bool          `toml:"save_history"`
}

// Dir returns the directory holding config.toml and the default data files.
func Dir(home string) string {
	return filepath.Join(home, ".config", "vask")
}

func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(filepath.Join(Dir(home), "config.toml"), home)
}

// LoadFrom reads cfgPath if it exists, on top of defaults rooted at home.
func LoadFrom(cfgPath, home string) (*Config, error) {
	cfg := &Config{
		ServerURL:   DefaultServerURL,
		HistoryPath: filepath.Join(Dir(home), "history.db"),
		LogPath:     filepath.Join(Dir(home), "vask.log"),
		SaveHistory: true,
	}

	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	if v := os.Getenv(EnvServerURL); v != "" {
		cfg.ServerURL = v
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("parse config %s: timeout must not be negative", cfgPath)
	}

	// expand ~ in paths
	cfg.HistoryPath = expandHome(cfg.HistoryPath, home)
	cfg.LogPath = expandHome(cfg.LogPath, home)

	return cfg, nil
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
