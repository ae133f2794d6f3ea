package main

import (
	"errors"
	"os"

	"github.com/Zuo-Peng/vask/internal/api"
	"github.com/Zuo-Peng/vask/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui [video-url]",
		Short: "Open the interactive question panel",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTUI,
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("not a terminal; use 'vask ask <url> <question>' for scripted use")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, logFile, err := openLogFile(cfg.LogPath)
	if err != nil {
		return err
	}
	defer logFile.Close()

	opts, cleanup, err := controllerOptions(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	var videoURL string
	if len(args) > 0 {
		videoURL = args[0]
	}

	logger.Info("starting tui", "server_url", cfg.ServerURL)
	client := api.NewClient(cfg.ServerURL, cfg.Timeout)
	return tui.Run(cmd.Context(), client, videoURL, opts...)
}
