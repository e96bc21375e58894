// Package compare ranks and contrasts a selected subset of queue items.
package compare

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jobscout/jobscout/internal/model"
)

// RankEntry is one position in a ranking.
type RankEntry struct {
	Index   int // position in the input sequence
	Company string
	Title   string
	Score   float64
	Salary  string
}

// ProsCons is the threshold-rule assessment of one item.
type ProsCons struct {
	ID      string
	Company string
	Title   string
	Pros    []string
	Cons    []string
}

// Result is a full side-by-side comparison. Deterministic for identical
// inputs; ties keep the stable input order.
type Result struct {
	Empty          bool // true when there was nothing to compare
	Items          []model.QueueItem
	Matrix         [][]string // rows of label + one value per item
	ByScore        []RankEntry
	BySalary       []RankEntry
	ProsCons       []ProsCons
	Recommendation string
}

// Compare contrasts the given queue items against the profile. An empty
// input is an explicit "nothing to compare" result, not an error.
func Compare(items []model.QueueItem, profile model.Profile) Result {
	if len(items) == 0 {
		return Result{Empty: true, Recommendation: "No jobs selected for comparison."}
	}

	return Result{
		Items:          items,
		Matrix:         buildMatrix(items),
		ByScore:        rankByScore(items),
		BySalary:       rankBySalary(items),
		ProsCons:       analyzeProsCons(items, profile),
		Recommendation: recommend(items, profile),
	}
}

// buildMatrix lays the key attributes out row by row, one column per item.
func buildMatrix(items []model.QueueItem) [][]string {
	row := func(label string, value func(model.QueueItem) string) []string {
		cells := make([]string, 0, len(items)+1)
		cells = append(cells, label)
		for _, item := range items {
			cells = append(cells, value(item))
		}
		return cells
	}

	return [][]string{
		row("Company", func(it model.QueueItem) string { return it.Posting.Company }),
		row("Title", func(it model.QueueItem) string { return it.Posting.Title }),
		row("Location", func(it model.QueueItem) string { return it.Posting.Location }),
		row("Work type", func(it model.QueueItem) string { return string(it.Posting.WorkType) }),
		row("Salary", func(it model.QueueItem) string { return FormatSalary(it.Posting) }),
		row("Match", func(it model.QueueItem) string { return formatScore(it.MatchScore) }),
		row("Platform", func(it model.QueueItem) string { return it.Posting.Platform }),
	}
}

func rankByScore(items []model.QueueItem) []RankEntry {
	entries := entriesOf(items)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	return entries
}

// rankBySalary orders by the best-available figure (max, else min); items
// without salary data sort last.
func rankBySalary(items []model.QueueItem) []RankEntry {
	entries := entriesOf(items)
	best := func(e RankEntry) (int64, bool) {
		return items[e.Index].Posting.BestSalary()
	}
	sort.SliceStable(entries, func(i, j int) bool {
		si, iok := best(entries[i])
		sj, jok := best(entries[j])
		if iok != jok {
			return iok
		}
		return si > sj
	})
	return entries
}

func entriesOf(items []model.QueueItem) []RankEntry {
	entries := make([]RankEntry, len(items))
	for i, item := range items {
		entries[i] = RankEntry{
			Index:   i,
			Company: item.Posting.Company,
			Title:   item.Posting.Title,
			Score:   scoreOf(item),
			Salary:  FormatSalary(item.Posting),
		}
	}
	return entries
}

// analyzeProsCons derives pros and cons from simple threshold rules: score
// at least 0.8 is a pro and below 0.5 a con; salary measured against the
// profile floor; work-type agreement; remote flexibility.
func analyzeProsCons(items []model.QueueItem, profile model.Profile) []ProsCons {
	analyses := make([]ProsCons, 0, len(items))

	for _, item := range items {
		pc := ProsCons{
			ID:      item.Posting.ID(),
			Company: item.Posting.Company,
			Title:   item.Posting.Title,
		}

		score := scoreOf(item)
		if score >= 0.8 {
			pc.Pros = append(pc.Pros, fmt.Sprintf("Excellent match (%.0f%%)", score*100))
		} else if score < 0.5 {
			pc.Cons = append(pc.Cons, fmt.Sprintf("Lower match score (%.0f%%)", score*100))
		}

		if profile.SalaryMin != nil {
			if salary, ok := bestOfferedSalary(item.Posting); ok {
				if salary >= *profile.SalaryMin {
					pc.Pros = append(pc.Pros, "Meets salary expectations")
				} else {
					pc.Cons = append(pc.Cons, "Below salary expectations")
				}
			}
		}

		jobType := item.Posting.WorkType
		if profile.WorkType != model.WorkUnknown && profile.WorkType != "" {
			if profile.WorkType == jobType {
				pc.Pros = append(pc.Pros, fmt.Sprintf("%s work (as preferred)", capitalize(string(jobType))))
			} else if jobType != model.WorkUnknown {
				pc.Cons = append(pc.Cons, fmt.Sprintf("%s work (prefer %s)", capitalize(string(jobType)), profile.WorkType))
			}
		}

		if jobType == model.WorkRemote {
			pc.Pros = append(pc.Pros, "Remote position (flexible location)")
		}

		analyses = append(analyses, pc)
	}
	return analyses
}

// recommend names the single highest-scoring item, mentioning work-type and
// salary agreement when they hold. First occurrence wins ties.
func recommend(items []model.QueueItem, profile model.Profile) string {
	best := items[0]
	for _, item := range items[1:] {
		if scoreOf(item) > scoreOf(best) {
			best = item
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Based on your profile, %q at %s appears to be the strongest match (%.0f%% compatibility).",
		best.Posting.Title, best.Posting.Company, scoreOf(best)*100)

	if profile.WorkType != model.WorkUnknown && profile.WorkType != "" && best.Posting.WorkType == profile.WorkType {
		fmt.Fprintf(&b, " It offers your preferred %s work arrangement.", best.Posting.WorkType)
	}

	if profile.SalaryMin != nil {
		if salary, ok := bestOfferedSalary(best.Posting); ok && salary >= *profile.SalaryMin {
			b.WriteString(" The salary range meets your expectations.")
		}
	}
	return b.String()
}

// bestOfferedSalary prefers the posting minimum (the guaranteed figure) and
// falls back to the maximum.
func bestOfferedSalary(p model.Posting) (int64, bool) {
	if p.SalaryMin != nil {
		return *p.SalaryMin, true
	}
	if p.SalaryMax != nil {
		return *p.SalaryMax, true
	}
	return 0, false
}

func scoreOf(item model.QueueItem) float64 {
	if item.MatchScore == nil {
		return 0
	}
	return *item.MatchScore
}

// FormatSalary renders a posting's salary range for display.
func FormatSalary(p model.Posting) string {
	switch {
	case p.SalaryMin != nil && p.SalaryMax != nil:
		return fmt.Sprintf("$%s - $%s", group(*p.SalaryMin), group(*p.SalaryMax))
	case p.SalaryMin != nil:
		return fmt.Sprintf("$%s+", group(*p.SalaryMin))
	case p.SalaryMax != nil:
		return fmt.Sprintf("Up to $%s", group(*p.SalaryMax))
	default:
		return "Not specified"
	}
}

func formatScore(score *float64) string {
	if score == nil {
		return "—"
	}
	return fmt.Sprintf("%.3f", *score)
}

// group inserts thousands separators: 125000 → "125,000".
func group(v int64) string {
	s := fmt.Sprintf("%d", v)
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	return s + "," + strings.Join(parts, ",")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
