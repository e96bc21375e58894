// Package dedupe collapses postings that refer to the same real opening.
package dedupe

import "github.com/jobscout/jobscout/internal/model"

// Dedupe returns the input with duplicates removed, preserving order with
// first-occurrence-wins. Identity follows Posting.IdentityKey: a canonical
// URL is authoritative on its own (two postings sharing a URL collapse even
// when their titles differ); postings without a URL fall back to the
// (platform, company, title, location) composite key.
func Dedupe(postings []model.Posting) []model.Posting {
	seen := make(map[string]struct{}, len(postings))
	unique := make([]model.Posting, 0, len(postings))

	for _, p := range postings {
		key := p.IdentityKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, p)
	}

	return unique
}
