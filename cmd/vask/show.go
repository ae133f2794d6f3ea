package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/Zuo-Peng/vask/internal/history"
	"github.com/Zuo-Peng/vask/internal/render"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func showCmd() *cobra.Command {
	var whole bool
	var query string

	cmd := &cobra.Command{
		Use:   "show <id|session>",
		Short: "Print a saved exchange or a whole conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			db, err := history.Open(cfg.HistoryPath)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			var exchanges []history.Exchange
			if id, err := strconv.ParseInt(args[0], 10, 64); err == nil {
				ex, err := db.Get(ctx, id)
				if err != nil {
					return fmt.Errorf("get exchange: %w", err)
				}
				if ex == nil {
					return fmt.Errorf("exchange not found: %d", id)
				}
				exchanges = []history.Exchange{*ex}
				if whole {
					if exchanges, err = db.Conversation(ctx, ex.SessionID); err != nil {
						return fmt.Errorf("get conversation: %w", err)
					}
				}
			} else {
				if exchanges, err = db.Conversation(ctx, args[0]); err != nil {
					return fmt.Errorf("get conversation: %w", err)
				}
				if len(exchanges) == 0 {
					return fmt.Errorf("session not found: %s", args[0])
				}
			}

			width := 0
			if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				width = w
			}
			fmt.Print(render.Conversation(exchanges, render.Options{Width: width, Query: query}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&whole, "conversation", false, "With an id, show the whole conversation it belongs to")
	cmd.Flags().StringVar(&query, "query", "", "Keywords to highlight")

	return cmd
}
