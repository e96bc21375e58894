package model

import (
	"fmt"
	"time"
)

// Status tracks a posting's progress from discovery through application.
//
// Valid status graph:
//
//	queued ──► reviewed ──► applied
//	   │           │           │
//	   ├───────────┼──► skipped│
//	   └───────────┴───────────┴──► rejected
//
// Transitions only move forward. skipped and rejected are terminal, and an
// item is never resurrected to queued.
type Status string

const (
	StatusQueued   Status = "queued"
	StatusReviewed Status = "reviewed"
	StatusApplied  Status = "applied"
	StatusSkipped  Status = "skipped"
	StatusRejected Status = "rejected"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[Status][]Status{
	StatusQueued:   {StatusReviewed, StatusApplied, StatusSkipped, StatusRejected},
	StatusReviewed: {StatusApplied, StatusSkipped, StatusRejected},
	StatusApplied:  {StatusRejected},
	// skipped and rejected are terminal — no outgoing transitions
}

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusQueued, StatusReviewed, StatusApplied, StatusSkipped, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("unknown queue status %q", s)
}

// CanTransition returns true when moving from → to is permitted by the
// lifecycle. Self-transitions are not permitted.
func CanTransition(from, to Status) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Analysis is the structured result of an AI fit analysis for one posting.
type Analysis struct {
	MatchScore int      `json:"match_score"` // 0-100
	IsGoodFit  bool     `json:"is_good_fit"`
	Reason     string   `json:"reason"`
	Highlights []string `json:"highlights"`
	RedFlags   []string `json:"red_flags"`
}

// QueueItem wraps one Posting with application-tracking state. Owned
// exclusively by the queue store; everything here is mutable only through
// store operations.
type QueueItem struct {
	Posting     Posting
	Status      Status
	MatchScore  *float64 // 0.0-1.0, nil until scored
	Analysis    *Analysis
	CoverLetter string
	AddedAt     time.Time
	AppliedAt   *time.Time
}
