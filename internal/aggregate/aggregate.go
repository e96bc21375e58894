// Package aggregate orchestrates concurrent searches across all configured
// source adapters and merges the results into one deduplicated sequence.
package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jobscout/jobscout/internal/dedupe"
	"github.com/jobscout/jobscout/internal/model"
	"github.com/jobscout/jobscout/internal/normalize"
	"github.com/jobscout/jobscout/internal/score"
)

const (
	defaultMaxWorkers     = 3
	defaultAdapterTimeout = 30 * time.Second
)

// Filters override individual search parameters derived from the profile.
// Nil fields leave the profile-derived value in place.
type Filters struct {
	Keywords        []string
	Locations       []string
	ExperienceLevel *model.ExperienceLevel
	WorkType        *model.WorkType
	SalaryMin       *int64
}

// SourceStatus reports the outcome of one adapter's search. A failed or
// timed-out adapter contributes zero postings and a non-nil Err; it never
// fails the aggregation as a whole.
type SourceStatus struct {
	Platform string
	Count    int
	Err      error
}

// Aggregator fans a search out across source adapters with bounded
// concurrency, then normalizes, deduplicates and scores the merged results.
type Aggregator struct {
	adapters       map[string]model.SourceAdapter
	scorer         *score.Scorer // nil leaves scoring to the caller
	maxWorkers     int
	adapterTimeout time.Duration
	logger         *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithMaxWorkers caps how many adapters are queried concurrently.
func WithMaxWorkers(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.maxWorkers = n
		}
	}
}

// WithAdapterTimeout bounds each adapter call. A hung adapter surfaces as
// that adapter's failure instead of blocking the aggregation.
func WithAdapterTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.adapterTimeout = d
		}
	}
}

// WithScorer makes Search score the merged results before returning them.
func WithScorer(s *score.Scorer) Option {
	return func(a *Aggregator) {
		a.scorer = s
	}
}

// New creates an aggregator over the given adapters, keyed by platform name.
func New(adapters map[string]model.SourceAdapter, logger *slog.Logger, opts ...Option) *Aggregator {
	a := &Aggregator{
		adapters:       adapters,
		maxWorkers:     defaultMaxWorkers,
		adapterTimeout: defaultAdapterTimeout,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// sourceResult is one adapter's fan-in payload: its own slice, written by
// its own goroutine only, merged by the coordinating goroutine after all
// workers settle.
type sourceResult struct {
	platform string
	postings []model.Posting
	err      error
}

// Search queries every adapter concurrently and returns the merged,
// deduplicated (and, with a scorer, scored) postings plus a per-source
// status summary. Partial results are always preferable to total failure:
// an adapter error is logged and isolated, never propagated.
//
// Postings arrive in adapter completion order; Dedupe keeps the sequence
// first-occurrence-preserving, but callers must not assume a particular order
// across sources.
func (a *Aggregator) Search(ctx context.Context, profile model.Profile, filters *Filters) ([]score.ScoredPosting, []SourceStatus) {
	params := a.buildParams(profile, filters)

	results := make(chan sourceResult, len(a.adapters))
	sem := make(chan struct{}, a.maxWorkers)

	var wg sync.WaitGroup
	for name, adapter := range a.adapters {
		wg.Add(1)
		go func(name string, adapter model.SourceAdapter) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results <- a.searchOne(ctx, name, adapter, params)
		}(name, adapter)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var merged []model.Posting
	var statuses []SourceStatus
	for res := range results {
		status := SourceStatus{Platform: res.platform, Count: len(res.postings), Err: res.err}
		statuses = append(statuses, status)

		if res.err != nil {
			a.logger.Warn("source failed, continuing without it",
				"platform", res.platform,
				"error", res.err,
			)
			continue
		}
		a.logger.Info("source searched",
			"platform", res.platform,
			"found", len(res.postings),
		)
		merged = append(merged, res.postings...)
	}

	unique := dedupe.Dedupe(merged)
	a.logger.Info("aggregation complete",
		"sources", len(a.adapters),
		"merged", len(merged),
		"unique", len(unique),
	)

	if a.scorer == nil {
		unscored := make([]score.ScoredPosting, len(unique))
		for i, p := range unique {
			unscored[i] = score.ScoredPosting{Posting: p}
		}
		return unscored, statuses
	}
	return a.scorer.ScoreBatch(unique, profile), statuses
}

// searchOne runs a single adapter with its own timeout, normalizing its raw
// postings. A panicking adapter is contained here and reported as its error.
func (a *Aggregator) searchOne(ctx context.Context, name string, adapter model.SourceAdapter, params model.SearchParams) (res sourceResult) {
	res.platform = name

	defer func() {
		if r := recover(); r != nil {
			res.postings = nil
			res.err = fmt.Errorf("adapter %s panicked: %v", name, r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, a.adapterTimeout)
	defer cancel()

	raws, err := adapter.Search(ctx, params)
	if err != nil {
		res.err = fmt.Errorf("searching %s: %w", name, err)
		return res
	}

	for _, raw := range raws {
		p, err := normalize.Normalize(raw, name)
		if err != nil {
			// Completely unparseable postings are dropped, but not silently.
			a.logger.Warn("dropping unparseable posting", "platform", name, "error", err)
			continue
		}
		res.postings = append(res.postings, p)
	}
	return res
}

// buildParams derives shared search parameters from the profile, then
// applies explicit filter overrides field by field.
func (a *Aggregator) buildParams(profile model.Profile, filters *Filters) model.SearchParams {
	params := model.SearchParams{
		Keywords:        profile.DesiredRoles,
		Locations:       profile.DesiredLocations,
		ExperienceLevel: profile.ExperienceLevel(),
		WorkType:        profile.WorkType,
		SalaryMin:       profile.SalaryMin,
	}

	if filters == nil {
		return params
	}
	if filters.Keywords != nil {
		params.Keywords = filters.Keywords
	}
	if filters.Locations != nil {
		params.Locations = filters.Locations
	}
	if filters.ExperienceLevel != nil {
		params.ExperienceLevel = *filters.ExperienceLevel
	}
	if filters.WorkType != nil {
		params.WorkType = *filters.WorkType
	}
	if filters.SalaryMin != nil {
		params.SalaryMin = filters.SalaryMin
	}
	return params
}
