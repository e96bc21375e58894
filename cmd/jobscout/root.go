package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jobscout/jobscout/internal/adapter"
	"github.com/jobscout/jobscout/internal/aggregate"
	"github.com/jobscout/jobscout/internal/ai"
	"github.com/jobscout/jobscout/internal/config"
	"github.com/jobscout/jobscout/internal/model"
	"github.com/jobscout/jobscout/internal/ratelimit"
	"github.com/jobscout/jobscout/internal/retry"
	"github.com/jobscout/jobscout/internal/score"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobscout",
	Short: "Job search aggregator — one queue across every board",
	Long:  "JobScout searches job boards in parallel, scores each posting against your profile and keeps everything in a reviewable queue.",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBSCOUT_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBSCOUT_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("JOBSCOUT_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

func setupAnalyzer(cfg *config.Config, logger *slog.Logger) ai.Analyzer {
	if !cfg.AI.Enabled {
		return ai.NewNopAnalyzer()
	}
	httpClient := &http.Client{Timeout: cfg.AI.Timeout}
	provider := ai.NewOpenAIProvider(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, httpClient)
	logger.Info("AI analysis enabled", "model", cfg.AI.Model)
	return ai.NewLLMAnalyzer(provider, logger)
}

func buildScorer(cfg *config.Config) (*score.Scorer, error) {
	if cfg.Scoring.Weights == nil {
		return score.NewScorer(), nil
	}
	return score.NewScorerWithWeights(*cfg.Scoring.Weights)
}

// buildAdapters assembles the enabled source adapters, each wrapped with
// platform-level rate limiting and transient-failure retries.
func buildAdapters(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) map[string]model.SourceAdapter {
	limiter := ratelimit.NewPlatformRateLimiter(cfg.RateLimit.MinDelay)

	wrap := func(inner model.SourceAdapter, platform string) model.SourceAdapter {
		limited := ratelimit.Wrap(inner, limiter, platform)
		return retry.Wrap(limited, cfg.Retry.MaxRetries, cfg.Retry.BaseDelay, logger)
	}

	adapters := make(map[string]model.SourceAdapter)
	if cfg.Sources.Remotive.Enabled {
		adapters["remotive"] = wrap(adapter.NewRemotiveAdapter(httpClient), "remotive")
	}
	if cfg.Sources.Arbeitnow.Enabled {
		adapters["arbeitnow"] = wrap(adapter.NewArbeitnowAdapter(httpClient), "arbeitnow")
	}
	for _, board := range cfg.Sources.Greenhouse {
		if !board.Enabled {
			continue
		}
		platform := "greenhouse:" + board.BoardToken
		adapters[platform] = wrap(adapter.NewGreenhouseAdapter(board.BoardToken, board.Company, httpClient), "greenhouse")
	}
	for platform := range adapters {
		logger.Debug("registered source", "platform", platform)
	}
	return adapters
}

func buildAggregator(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) (*aggregate.Aggregator, error) {
	scorer, err := buildScorer(cfg)
	if err != nil {
		return nil, err
	}
	adapters := buildAdapters(cfg, httpClient, logger)
	return aggregate.New(adapters, logger,
		aggregate.WithMaxWorkers(cfg.Aggregator.MaxWorkers),
		aggregate.WithAdapterTimeout(cfg.Aggregator.AdapterTimeout),
		aggregate.WithScorer(scorer),
	), nil
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}
