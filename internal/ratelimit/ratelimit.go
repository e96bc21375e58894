package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jobscout/jobscout/internal/model"
)

// PlatformRateLimiter enforces a minimum delay between requests to the same
// job-board platform.
type PlatformRateLimiter struct {
	mu       sync.Mutex
	lastCall map[string]time.Time // key: platform name
	minDelay time.Duration
}

// NewPlatformRateLimiter creates a rate limiter that enforces minDelay between
// consecutive requests to the same platform.
func NewPlatformRateLimiter(minDelay time.Duration) *PlatformRateLimiter {
	return &PlatformRateLimiter{
		lastCall: make(map[string]time.Time),
		minDelay: minDelay,
	}
}

// Wait blocks until enough time has passed since the last request to the
// given platform. Returns an error if the context is cancelled while waiting.
func (r *PlatformRateLimiter) Wait(ctx context.Context, platform string) error {
	r.mu.Lock()
	last, ok := r.lastCall[platform]
	now := time.Now()

	if !ok {
		// First request for this platform, no wait needed.
		r.lastCall[platform] = now
		r.mu.Unlock()
		return nil
	}

	elapsed := now.Sub(last)
	if elapsed >= r.minDelay {
		r.lastCall[platform] = now
		r.mu.Unlock()
		return nil
	}

	// Need to wait for the remainder.
	remaining := r.minDelay - elapsed
	r.mu.Unlock()

	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", platform, ctx.Err())
	case <-time.After(remaining):
	}

	// Record the actual time after waiting.
	r.mu.Lock()
	r.lastCall[platform] = time.Now()
	r.mu.Unlock()

	return nil
}

// Adapter is a decorator that enforces platform-level rate limiting before
// delegating to the wrapped SourceAdapter.
type Adapter struct {
	inner    model.SourceAdapter
	limiter  *PlatformRateLimiter
	platform string
}

// Wrap wraps a SourceAdapter with platform-level rate limiting. All adapters
// targeting the same platform should share the same limiter instance.
func Wrap(inner model.SourceAdapter, limiter *PlatformRateLimiter, platform string) *Adapter {
	return &Adapter{
		inner:    inner,
		limiter:  limiter,
		platform: platform,
	}
}

// Search waits for the rate limiter to allow a request, then delegates to
// the wrapped adapter.
func (a *Adapter) Search(ctx context.Context, params model.SearchParams) ([]model.RawPosting, error) {
	if err := a.limiter.Wait(ctx, a.platform); err != nil {
		return nil, err
	}
	return a.inner.Search(ctx, params)
}
