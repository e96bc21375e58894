package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTransition is returned when a status update would move an item
// backward or out of a terminal state.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrUnparseable is returned by normalization when a raw posting carries no
// usable identity at all (no title, no company, no URL).
var ErrUnparseable = errors.New("posting has no usable fields")

// HTTPError wraps an HTTP status code so retry logic can inspect it.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}
