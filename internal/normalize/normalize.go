// Package normalize converts heterogeneous raw postings into the canonical
// Posting schema.
package normalize

import (
	"strings"
	"time"

	"github.com/jobscout/jobscout/internal/model"
)

// MaxDescriptionLen bounds the stored description so storage and downstream
// AI calls stay cheap. Measured in runes, not bytes.
const MaxDescriptionLen = 500

// Normalize converts one raw posting into the canonical schema. Missing text
// fields are repaired with the "unknown" sentinel and malformed optional
// fields are dropped rather than failing the pipeline. It returns
// model.ErrUnparseable only when the raw posting carries no usable identity
// at all (no title, no company, no URL).
func Normalize(raw model.RawPosting, platform string) (model.Posting, error) {
	title := strings.TrimSpace(raw.Title)
	company := strings.TrimSpace(raw.Company)
	url := strings.TrimSpace(raw.URL)

	if title == "" && company == "" && url == "" {
		return model.Posting{}, model.ErrUnparseable
	}

	p := model.Posting{
		SourceID:     strings.TrimSpace(raw.ID),
		Platform:     platform,
		Title:        orUnknown(title),
		Company:      orUnknown(company),
		Location:     orUnknown(strings.TrimSpace(raw.Location)),
		Description:  truncate(strings.TrimSpace(raw.Description), MaxDescriptionLen),
		Requirements: strings.TrimSpace(raw.Requirements),
		WorkType:     model.ParseWorkType(raw.WorkType),
		URL:          url,
	}

	p.SalaryMin, p.SalaryMax = normalizeSalary(raw.SalaryMin, raw.SalaryMax)

	if t := parsePostedAt(raw.PostedAt); t != nil {
		p.PostedAt = t
	}

	return p, nil
}

// normalizeSalary drops negative figures and swaps an inverted range so the
// SalaryMin <= SalaryMax invariant always holds.
func normalizeSalary(min, max *int64) (*int64, *int64) {
	if min != nil && *min < 0 {
		min = nil
	}
	if max != nil && *max < 0 {
		max = nil
	}
	if min != nil && max != nil && *min > *max {
		min, max = max, min
	}
	return min, max
}

// parsePostedAt accepts the timestamp formats seen across source APIs.
// Unparseable values are dropped, never an error.
func parsePostedAt(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func orUnknown(s string) string {
	if s == "" {
		return model.UnknownField
	}
	return s
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
