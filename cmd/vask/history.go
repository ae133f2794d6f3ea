package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Zuo-Peng/vask/internal/history"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

const (
	sColorReset   = "\033[0m"
	sColorBoldRed = "\033[1;31m"
	sColorBlue    = "\033[1;34m"
	sColorDim     = "\033[2m"
)

const questionWidth = 60

func colorizeSnippet(snippet string) string {
	snippet = strings.ReplaceAll(snippet, ">>>", sColorBoldRed)
	snippet = strings.ReplaceAll(snippet, "<<<", sColorReset)
	return snippet
}

// flatten makes a value safe for one TSV field.
func flatten(s string) string {
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

func historyCmd() *cobra.Command {
	var opts history.Options

	cmd := &cobra.Command{
		Use:   "history [query]",
		Short: "List or full-text search past questions and answers",
		Long: `Lists saved exchanges newest first, or searches questions and answers
when a query is given. Output is TSV:
  id, session, askedAt, url, question, snippet

Show one with 'vask show <id>' or a whole conversation with 'vask show <session>'.`,
		Args: cobra.MaximumNArgs(1),
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

			if len(args) > 0 {
				opts.Query = args[0]
			}
			results, err := db.Search(cmd.Context(), opts)
			if err != nil {
				return err
			}

			if len(results) == 0 {
				fmt.Fprintln(os.Stderr, "No results found.")
				return nil
			}
			writeResults(os.Stdout, results)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.SessionID, "session", "", "Only exchanges from this session")
	cmd.Flags().StringVar(&opts.VideoURL, "url", "", "Only exchanges whose video URL contains this")
	cmd.Flags().StringVar(&opts.Since, "since", "", "Only exchanges asked since date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 100, "Max results")

	return cmd
}

func writeResults(w io.Writer, results []history.Result) {
	for _, r := range results {
		question := flatten(r.Question)
		if runewidth.StringWidth(question) > questionWidth {
			question = runewidth.Truncate(question, questionWidth, "...")
		}
		kind := ""
		if r.FollowUp {
			kind = "↳ "
		}
		// first two fields stay plain for cut/fzf {1} {2}
		fmt.Fprintf(w, "%d\t%s\t%s%s%s\t%s\t%s%s%s%s\t%s\n",
			r.ID,
			r.SessionID,
			sColorDim, r.AskedAt.Local().Format("2006-01-02 15:04"), sColorReset,
			flatten(r.VideoURL),
			kind, sColorBlue, question, sColorReset,
			colorizeSnippet(flatten(r.Snippet)),
		)
	}
}
