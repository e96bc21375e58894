package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jobscout/jobscout/internal/queue"
)

var (
	topLimit    int
	topMinScore float64
)

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Show the best-scoring postings",
	Long:  "Lists scored, non-rejected postings ordered by match score, then recency.",
	RunE:  runTop,
}

func init() {
	topCmd.Flags().IntVar(&topLimit, "limit", 10, "maximum postings to show")
	topCmd.Flags().Float64Var(&topMinScore, "min-score", 0, "minimum match score (0..1)")
	rootCmd.AddCommand(topCmd)
}

func runTop(cmd *cobra.Command, args []string) error {
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

	items, err := store.TopMatches(topLimit, topMinScore)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("No scored postings match.")
		return nil
	}

	printItems(items)
	return nil
}
