package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/Zuo-Peng/vask/internal/history"
	"github.com/spf13/cobra"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: show config, server URL, and history stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			fmt.Println("=== Server ===")
			fmt.Printf("  URL: %s\n", cfg.ServerURL)
			if u, err := url.Parse(cfg.ServerURL); err != nil || u.Scheme == "" || u.Host == "" {
				fmt.Println("  Status: INVALID (expected e.g. http://localhost:5000)")
			} else {
				fmt.Println("  Status: OK")
			}
			if cfg.Timeout > 0 {
				fmt.Printf("  Timeout: %s\n", cfg.Timeout)
			} else {
				fmt.Println("  Timeout: none")
			}

			fmt.Println("\n=== Log ===")
			fmt.Printf("  Path: %s\n", cfg.LogPath)

			fmt.Println("\n=== History ===")
			fmt.Printf("  Path: %s\n", cfg.HistoryPath)
			if !cfg.SaveHistory {
				fmt.Println("  Recording: disabled")
			}
			if _, err := os.Stat(cfg.HistoryPath); os.IsNotExist(err) {
				fmt.Println("  Status: NOT FOUND (created on first answer)")
				return nil
			}

			db, err := history.Open(cfg.HistoryPath)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer db.Close()

			count, err := db.Count(ctx)
			if err != nil {
				return fmt.Errorf("count exchanges: %w", err)
			}
			sessions, err := db.SessionCount(ctx)
			if err != nil {
				return fmt.Errorf("count sessions: %w", err)
			}
			fmt.Printf("  Exchanges: %d\n", count)
			fmt.Printf("  Sessions:  %d\n", sessions)

			// check FTS5
			fmt.Println("\n=== FTS5 ===")
			if err := db.CheckFTS(ctx); err != nil {
				fmt.Printf("  Status: MISMATCH (%v)\n", err)
			} else {
				fmt.Println("  Status: OK (synced)")
			}

			if info, err := os.Stat(cfg.HistoryPath); err == nil {
				sizeMB := float64(info.Size()) / 1024 / 1024
				fmt.Printf("\n=== DB Size: %.1f MB ===\n", sizeMB)
			}

			return nil
		},
	}
}
