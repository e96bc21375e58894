package retry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jobscout/jobscout/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockSource calls a function on each invocation, tracking call count.
type mockSource struct {
	calls int
	fn    func(attempt int) ([]model.RawPosting, error)
}

func (m *mockSource) Search(_ context.Context, _ model.SearchParams) ([]model.RawPosting, error) {
	m.calls++
	return m.fn(m.calls)
}

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	raws := []model.RawPosting{{ID: "1", Title: "Engineer"}}
	mock := &mockSource{fn: func(_ int) ([]model.RawPosting, error) {
		return raws, nil
	}}

	ra := Wrap(mock, 2, 10*time.Millisecond, discardLogger())
	got, err := ra.Search(context.Background(), model.SearchParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("unexpected postings: %v", got)
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call, got %d", mock.calls)
	}
}

func TestRetry_RetriesOn5xx_SucceedsOnSecondAttempt(t *testing.T) {
	raws := []model.RawPosting{{ID: "1"}}
	mock := &mockSource{fn: func(attempt int) ([]model.RawPosting, error) {
		if attempt == 1 {
			return nil, &model.HTTPError{StatusCode: 503, Err: errors.New("service unavailable")}
		}
		return raws, nil
	}}

	ra := Wrap(mock, 2, 10*time.Millisecond, discardLogger())
	got, err := ra.Search(context.Background(), model.SearchParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 posting, got %d", len(got))
	}
	if mock.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.calls)
	}
}

func TestRetry_DoesNotRetryOn4xx(t *testing.T) {
	mock := &mockSource{fn: func(_ int) ([]model.RawPosting, error) {
		return nil, &model.HTTPError{StatusCode: 404, Err: errors.New("not found")}
	}}

	ra := Wrap(mock, 2, 10*time.Millisecond, discardLogger())
	_, err := ra.Search(context.Background(), model.SearchParams{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != 404 {
		t.Fatalf("expected HTTPError 404, got %v", err)
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call, got %d", mock.calls)
	}
}

func TestRetry_ExhaustsRetriesAndReturnsLastError(t *testing.T) {
	mock := &mockSource{fn: func(_ int) ([]model.RawPosting, error) {
		return nil, &model.HTTPError{StatusCode: 500, Err: errors.New("boom")}
	}}

	ra := Wrap(mock, 2, time.Millisecond, discardLogger())
	_, err := ra.Search(context.Background(), model.SearchParams{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	// 1 initial attempt + 2 retries
	if mock.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", mock.calls)
	}
}

func TestRetry_HonorsRetryAfter(t *testing.T) {
	retryAfter := 20 * time.Millisecond
	mock := &mockSource{fn: func(attempt int) ([]model.RawPosting, error) {
		if attempt == 1 {
			return nil, &model.HTTPError{
				StatusCode: 429,
				RetryAfter: retryAfter,
				Err:        errors.New("rate limited"),
			}
		}
		return []model.RawPosting{{ID: "1"}}, nil
	}}

	ra := Wrap(mock, 2, time.Hour, discardLogger())
	start := time.Now()
	_, err := ra.Search(context.Background(), model.SearchParams{})
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Retry-After overrides the (huge) base delay.
	if elapsed < retryAfter || elapsed > time.Second {
		t.Fatalf("expected delay close to Retry-After, took %v", elapsed)
	}
}

func TestRetry_ContextCancelledDuringBackoff(t *testing.T) {
	mock := &mockSource{fn: func(_ int) ([]model.RawPosting, error) {
		return nil, &model.HTTPError{StatusCode: 500, Err: errors.New("boom")}
	}}

	ctx, cancel := context.WithCancel(context.Background())
	ra := Wrap(mock, 2, time.Hour, discardLogger())

	done := make(chan error, 1)
	go func() {
		_, err := ra.Search(ctx, model.SearchParams{})
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("search did not return after cancellation")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "context canceled", err: context.Canceled, want: false},
		{name: "deadline exceeded", err: context.DeadlineExceeded, want: false},
		{name: "429", err: &model.HTTPError{StatusCode: 429, Err: errors.New("x")}, want: true},
		{name: "503", err: &model.HTTPError{StatusCode: 503, Err: errors.New("x")}, want: true},
		{name: "401", err: &model.HTTPError{StatusCode: 401, Err: errors.New("x")}, want: false},
		{name: "plain network error", err: errors.New("connection refused"), want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := isRetryable(tc.err); got != tc.want {
				t.Errorf("isRetryable(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
