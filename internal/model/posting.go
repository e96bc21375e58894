package model

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"
)

// WorkType classifies where a job is performed.
type WorkType string

const (
	WorkRemote  WorkType = "remote"
	WorkHybrid  WorkType = "hybrid"
	WorkOnsite  WorkType = "onsite"
	WorkUnknown WorkType = "unknown"
)

// ParseWorkType maps a raw work-type string to a WorkType, falling back to
// WorkUnknown for anything unrecognized. Matching is case-insensitive.
func ParseWorkType(s string) WorkType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "remote":
		return WorkRemote
	case "hybrid":
		return WorkHybrid
	case "onsite", "on-site", "office":
		return WorkOnsite
	default:
		return WorkUnknown
	}
}

// UnknownField is the sentinel substituted for missing required text fields
// during normalization. Fields are never left empty or null.
const UnknownField = "unknown"

// Posting is the canonical representation of one job listing from any source.
// Immutable once normalized.
type Posting struct {
	SourceID     string     // opaque per-source identifier, may be empty
	Platform     string     // source name, e.g. "remotive"
	Title        string     // "unknown" sentinel if absent
	Company      string     // "unknown" sentinel if absent
	Location     string     // "unknown" sentinel if absent
	Description  string     // free text, possibly empty, bounded length
	Requirements string     // free text, possibly empty
	SalaryMin    *int64     // nullable, non-negative
	SalaryMax    *int64     // nullable, >= SalaryMin when both present
	WorkType     WorkType   // remote/hybrid/onsite/unknown
	URL          string     // canonical link, deduplication anchor when present
	PostedAt     *time.Time // nullable (not all sources provide this)
}

// IdentityKey returns the value that uniquely identifies the real opening
// behind this posting. A non-empty URL is authoritative on its own, even when
// titles differ across sources. Without a URL the key falls back to the
// (platform, company, title, location) tuple. All parts are trimmed and
// case-folded so "Acme Inc" and "acme inc " collide.
func (p Posting) IdentityKey() string {
	if url := foldKey(p.URL); url != "" {
		return "url|" + url
	}
	return strings.Join([]string{
		foldKey(p.Platform),
		foldKey(p.Company),
		foldKey(p.Title),
		foldKey(p.Location),
	}, "|")
}

// ID returns a stable hex digest of the identity key, used as the queue
// store's primary key.
func (p Posting) ID() string {
	sum := md5.Sum([]byte(p.IdentityKey()))
	return hex.EncodeToString(sum[:])
}

// BestSalary returns the best-available salary figure for ranking:
// SalaryMax if present, else SalaryMin, else (0, false).
func (p Posting) BestSalary() (int64, bool) {
	if p.SalaryMax != nil {
		return *p.SalaryMax, true
	}
	if p.SalaryMin != nil {
		return *p.SalaryMin, true
	}
	return 0, false
}

func foldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
