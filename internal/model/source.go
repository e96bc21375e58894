package model

import "context"

// SearchParams is the shared query every source adapter receives. Built from
// the profile by the aggregator and overridden field-by-field by explicit
// filters.
type SearchParams struct {
	Keywords        []string // from desired roles
	Locations       []string
	ExperienceLevel ExperienceLevel
	WorkType        WorkType
	SalaryMin       *int64
}

// RawPosting is a source adapter's loosely-typed view of one listing before
// normalization. Any field may be missing; the normalizer repairs what it can.
type RawPosting struct {
	ID           string
	Title        string
	Company      string
	Location     string
	Description  string
	Requirements string
	SalaryMin    *int64
	SalaryMax    *int64
	WorkType     string
	URL          string
	PostedAt     string // raw timestamp string, parsed by the normalizer
}

// SourceAdapter yields raw postings from one job board. Implementations may
// return an error; the aggregator treats any error as zero results from that
// source and never lets it abort sibling searches.
type SourceAdapter interface {
	Search(ctx context.Context, params SearchParams) ([]RawPosting, error)
}
