package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/jobscout/jobscout/internal/model"
)

func TestWait_SamePlatform_EnforcesMinDelay(t *testing.T) {
	limiter := NewPlatformRateLimiter(100 * time.Millisecond)
	ctx := context.Background()

	// First call should return immediately.
	if err := limiter.Wait(ctx, "remotive"); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	start := time.Now()
	if err := limiter.Wait(ctx, "remotive"); err != nil {
		t.Fatalf("second wait: %v", err)
	}
	elapsed := time.Since(start)

	// Should have waited at least ~100ms (allow 80ms for timer jitter).
	if elapsed < 80*time.Millisecond {
		t.Errorf("expected >= 80ms wait, got %v", elapsed)
	}
}

func TestWait_DifferentPlatforms_NoCrossBlocking(t *testing.T) {
	limiter := NewPlatformRateLimiter(200 * time.Millisecond)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "remotive"); err != nil {
		t.Fatalf("remotive wait: %v", err)
	}

	// Immediately call for arbeitnow, should NOT block.
	start := time.Now()
	if err := limiter.Wait(ctx, "arbeitnow"); err != nil {
		t.Fatalf("arbeitnow wait: %v", err)
	}
	elapsed := time.Since(start)

	if elapsed > 50*time.Millisecond {
		t.Errorf("expected arbeitnow wait to be near-instant, got %v", elapsed)
	}
}

func TestWait_ContextCancellation(t *testing.T) {
	limiter := NewPlatformRateLimiter(5 * time.Second)
	ctx := context.Background()

	// First call to seed the last-call time.
	if err := limiter.Wait(ctx, "remotive"); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	cancelCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() {
		done <- limiter.Wait(cancelCtx, "remotive")
	}()

	cancel()
	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected cancellation error, got nil")
		}
	case <-time.After(time.Second):
		t.Fatal("wait did not return after cancellation")
	}
}

// staticSource returns a fixed result, recording whether it was called.
type staticSource struct {
	called bool
	raws   []model.RawPosting
}

func (s *staticSource) Search(_ context.Context, _ model.SearchParams) ([]model.RawPosting, error) {
	s.called = true
	return s.raws, nil
}

func TestAdapter_DelegatesAfterWait(t *testing.T) {
	limiter := NewPlatformRateLimiter(10 * time.Millisecond)
	src := &staticSource{raws: []model.RawPosting{{ID: "1"}}}
	a := Wrap(src, limiter, "remotive")

	raws, err := a.Search(context.Background(), model.SearchParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !src.called {
		t.Fatal("expected wrapped source to be called")
	}
	if len(raws) != 1 || raws[0].ID != "1" {
		t.Fatalf("unexpected postings: %v", raws)
	}
}

func TestAdapter_CancelledContextSkipsSource(t *testing.T) {
	limiter := NewPlatformRateLimiter(5 * time.Second)
	if err := limiter.Wait(context.Background(), "remotive"); err != nil {
		t.Fatalf("seed wait: %v", err)
	}

	src := &staticSource{}
	a := Wrap(src, limiter, "remotive")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := a.Search(ctx, model.SearchParams{}); err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if src.called {
		t.Fatal("expected wrapped source not to be called")
	}
}
