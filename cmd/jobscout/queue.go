package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jobscout/jobscout/internal/model"
	"github.com/jobscout/jobscout/internal/queue"
)

var queueStatusFilter string

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "List queued postings",
	Long:  "Lists the queue newest first, optionally filtered by status.",
	RunE:  runQueue,
}

func init() {
	queueCmd.Flags().StringVar(&queueStatusFilter, "status", "", "filter by status (queued/reviewed/applied/skipped/rejected)")
	rootCmd.AddCommand(queueCmd)
}

func runQueue(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var statusFilter *model.Status
	if queueStatusFilter != "" {
		st, err := model.ParseStatus(queueStatusFilter)
		if err != nil {
			return err
		}
		statusFilter = &st
	}

	store, err := queue.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open queue store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	items, err := store.List(statusFilter)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("Queue is empty.")
		return nil
	}

	printItems(items)
	return nil
}

func printItems(items []model.QueueItem) {
	for _, it := range items {
		match := "   --"
		if it.MatchScore != nil {
			match = fmt.Sprintf("%4.0f%%", *it.MatchScore*100)
		}
		fmt.Printf("%s  %s  %-9s  %s @ %s (%s)\n",
			shortID(it.Posting.ID()), match, it.Status,
			it.Posting.Title, it.Posting.Company, it.Posting.Platform)
	}
}

// shortID truncates a queue ID for display. Commands accept the prefix back.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
