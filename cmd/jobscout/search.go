package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jobscout/jobscout/internal/aggregate"
	"github.com/jobscout/jobscout/internal/model"
	"github.com/jobscout/jobscout/internal/queue"
)

var (
	searchKeywords  []string
	searchLocations []string
	searchWorkType  string
	searchSalaryMin int64
	searchDryRun    bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search all enabled boards and queue the results",
	Long:  "Searches every enabled source concurrently, scores the merged postings against your profile and adds new ones to the queue.",
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringSliceVar(&searchKeywords, "keywords", nil, "override profile keywords")
	searchCmd.Flags().StringSliceVar(&searchLocations, "locations", nil, "override profile locations")
	searchCmd.Flags().StringVar(&searchWorkType, "work-type", "", "override profile work type (remote/hybrid/onsite)")
	searchCmd.Flags().Int64Var(&searchSalaryMin, "salary-min", 0, "override profile salary floor")
	searchCmd.Flags().BoolVar(&searchDryRun, "dry-run", false, "print results without writing to the queue")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	agg, err := buildAggregator(cfg, newHTTPClient(), logger)
	if err != nil {
		logger.Error("failed to build aggregator", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scored, statuses := agg.Search(ctx, cfg.Profile, buildFilters())

	fmt.Println("Sources:")
	for _, st := range statuses {
		if st.Err != nil {
			fmt.Printf("  %-24s failed: %v\n", st.Platform, st.Err)
			continue
		}
		fmt.Printf("  %-24s %d postings\n", st.Platform, st.Count)
	}
	fmt.Printf("Total after dedup: %d\n\n", len(scored))

	if searchDryRun {
		for _, sp := range scored {
			fmt.Printf("  %5.1f%%  %s @ %s (%s)\n", sp.Score*100, sp.Posting.Title, sp.Posting.Company, sp.Posting.Platform)
		}
		return nil
	}

	store, err := queue.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open queue store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	added := 0
	for _, sp := range scored {
		inserted, err := store.Upsert(sp.Posting)
		if err != nil {
			logger.Error("failed to queue posting", "id", sp.Posting.ID(), "error", err)
			continue
		}
		if !inserted {
			continue
		}
		added++
		if err := store.SetScore(sp.Posting.ID(), sp.Score); err != nil {
			logger.Error("failed to store score", "id", sp.Posting.ID(), "error", err)
		}
	}
	fmt.Printf("Queued %d new postings (%d already known).\n", added, len(scored)-added)
	return nil
}

func buildFilters() *aggregate.Filters {
	f := &aggregate.Filters{
		Keywords:  searchKeywords,
		Locations: searchLocations,
	}
	if searchWorkType != "" {
		wt := model.ParseWorkType(searchWorkType)
		f.WorkType = &wt
	}
	if searchSalaryMin > 0 {
		f.SalaryMin = &searchSalaryMin
	}
	return f
}
