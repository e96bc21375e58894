package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jobscout/jobscout/internal/model"
	"github.com/jobscout/jobscout/internal/queue"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show queue statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
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

	stats, err := store.Stats()
	if err != nil {
		return err
	}

	fmt.Printf("Total postings: %d\n", stats.Total)
	for _, st := range []model.Status{
		model.StatusQueued, model.StatusReviewed, model.StatusApplied,
		model.StatusSkipped, model.StatusRejected,
	} {
		if n := stats.ByStatus[st]; n > 0 {
			fmt.Printf("  %-9s %d\n", st, n)
		}
	}
	if stats.AvgScore > 0 {
		fmt.Printf("Average match score: %.1f%%\n", stats.AvgScore*100)
	}
	return nil
}
