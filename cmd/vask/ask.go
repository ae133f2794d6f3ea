package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Zuo-Peng/vask/internal/api"
	"github.com/Zuo-Peng/vask/internal/console"
	"github.com/Zuo-Peng/vask/internal/controller"
	"github.com/Zuo-Peng/vask/internal/session"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func askCmd() *cobra.Command {
	var followUps []string
	var format string

	cmd := &cobra.Command{
		Use:   "ask <video-url> <question>",
		Short: "Ask one question, plus optional follow-ups, and print the answers",
		Long: `Asks a question about a video and prints the answer to stdout. Each
--follow-up is asked afterwards in the same conversation. Stops at the first
error and exits non-zero.

  vask ask https://youtu.be/dQw4w9WgXcQ "What is the song about?" \
    --follow-up "When does the chorus start?"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if format == "" {
				format = string(console.FormatPlain)
				if term.IsTerminal(int(os.Stdout.Fd())) {
					format = string(console.FormatANSI)
				}
			}
			f, err := console.ParseFormat(format)
			if err != nil {
				return err
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
			opts, cleanup, err := controllerOptions(cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			view := console.NewView(os.Stdout, os.Stderr, f)
			client := api.NewClient(cfg.ServerURL, cfg.Timeout)
			ctl := controller.New(client, view, session.NewGenerator(), opts...)
			return runAsk(cmd.Context(), ctl, view, os.Stderr, args[0], args[1], followUps)
		},
	}

	cmd.Flags().StringArrayVarP(&followUps, "follow-up", "f", nil, "Follow-up question (repeatable)")
	cmd.Flags().StringVar(&format, "format", "", "Answer format: ansi, html or plain (default ansi on a terminal, plain otherwise)")

	return cmd
}

// runAsk drives the controller through a primary question and its follow-ups.
func runAsk(ctx context.Context, ctl *controller.Controller, view *console.View, status io.Writer, videoURL, question string, followUps []string) error {
	ctl.HandleSubmit(ctx, videoURL, question)
	if view.Err() != nil {
		return errReported
	}

	for _, q := range followUps {
		fmt.Fprintln(status)
		ctl.HandleFollowUp(ctx, videoURL, q)
		if view.Err() != nil {
			return errReported
		}
	}

	fmt.Fprintf(status, "session: %s\n", ctl.SessionID())
	return nil
}
