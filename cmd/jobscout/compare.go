package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jobscout/jobscout/internal/compare"
	"github.com/jobscout/jobscout/internal/model"
	"github.com/jobscout/jobscout/internal/queue"
)

var compareCmd = &cobra.Command{
	Use:   "compare <id>...",
	Short: "Compare queued postings side by side",
	Long:  "Builds a comparison matrix, rankings and a recommendation for the given queue IDs. IDs may be unique prefixes.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
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

	all, err := store.List(nil)
	if err != nil {
		return err
	}

	items := make([]model.QueueItem, 0, len(args))
	for _, arg := range args {
		item, err := findByPrefix(all, arg)
		if err != nil {
			return err
		}
		items = append(items, *item)
	}

	result := compare.Compare(items, cfg.Profile)
	fmt.Println(result.Render())
	return nil
}

// findByPrefix resolves a full queue ID or a unique ID prefix to an item.
func findByPrefix(items []model.QueueItem, prefix string) (*model.QueueItem, error) {
	var found *model.QueueItem
	for i := range items {
		id := items[i].Posting.ID()
		if id == prefix {
			return &items[i], nil
		}
		if strings.HasPrefix(id, prefix) {
			if found != nil {
				return nil, fmt.Errorf("id prefix %q is ambiguous", prefix)
			}
			found = &items[i]
		}
	}
	if found == nil {
		return nil, fmt.Errorf("no queued posting matches id %q", prefix)
	}
	return found, nil
}
