package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Zuo-Peng/vask/internal/config"
	"github.com/Zuo-Peng/vask/internal/controller"
	"github.com/Zuo-Peng/vask/internal/history"
	"github.com/spf13/cobra"
)

var envHint = "$" + config.EnvServerURL

// loadConfig reads the config file and applies the --server flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if s, _ := cmd.Flags().GetString("server"); s != "" {
		cfg.ServerURL = s
	}
	return cfg, nil
}

// openLogFile returns a logger writing text records to path. The TUI owns
// the terminal, so its diagnostics go to a file.
func openLogFile(path string) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, nil)), f, nil
}

// controllerOptions opens the history store when enabled. The returned
// cleanup must always be called.
func controllerOptions(cfg *config.Config, logger *slog.Logger) ([]controller.Option, func(), error) {
	opts := []controller.Option{controller.WithLogger(logger)}
	if !cfg.SaveHistory {
		return opts, func() {}, nil
	}
	db, err := history.Open(cfg.HistoryPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open history: %w", err)
	}
	opts = append(opts, controller.WithRecorder(db))
	return opts, func() { db.Close() }, nil
}
