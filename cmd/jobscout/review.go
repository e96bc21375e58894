package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jobscout/jobscout/internal/queue"
	"github.com/jobscout/jobscout/internal/review"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review the queue interactively (TUI)",
	Long:  "Browse queued postings, change statuses and run AI analysis from an interactive view.",
	RunE:  runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	store, err := queue.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open queue store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	items, err := store.List(nil)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("Queue is empty. Run `jobscout search` first.")
		return nil
	}

	// The TUI owns the terminal; route analyzer logs to discard so nothing
	// corrupts the alt screen.
	silentLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	analyzer := setupAnalyzer(cfg, silentLogger)

	return review.Run(items, store, analyzer, cfg.Profile)
}
