// Package score computes weighted match scores between postings and a
// profile.
package score

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/jobscout/jobscout/internal/model"
)

// neutral is returned by a sub-score when the profile gives no signal for
// that factor. Absence of signal is not a negative signal.
const neutral = 0.5

// Weights holds the relative weight of each scoring factor. They must be
// non-negative and sum to 1.0.
type Weights struct {
	Skills   float64
	Role     float64
	Location float64
	Salary   float64
	WorkType float64
}

// DefaultWeights is the standard factor weighting.
var DefaultWeights = Weights{
	Skills:   0.35,
	Role:     0.25,
	Location: 0.15,
	Salary:   0.15,
	WorkType: 0.10,
}

// Scorer computes deterministic match scores in [0, 1]. Safe for concurrent
// use; it holds no mutable state.
type Scorer struct {
	weights Weights
}

// NewScorer returns a scorer with the default weights.
func NewScorer() *Scorer {
	s, err := NewScorerWithWeights(DefaultWeights)
	if err != nil {
		// DefaultWeights sums to 1.0; this cannot fail.
		panic(err)
	}
	return s
}

// NewScorerWithWeights returns a scorer with custom weights. The weights are
// validated here, at construction, so a bad configuration can never surface
// as a silently wrong score at runtime.
func NewScorerWithWeights(w Weights) (*Scorer, error) {
	for name, v := range map[string]float64{
		"skills": w.Skills, "role": w.Role, "location": w.Location,
		"salary": w.Salary, "work_type": w.WorkType,
	} {
		if v < 0 {
			return nil, fmt.Errorf("scoring weight %s is negative: %v", name, v)
		}
	}
	sum := w.Skills + w.Role + w.Location + w.Salary + w.WorkType
	if math.Abs(sum-1.0) > 1e-9 {
		return nil, fmt.Errorf("scoring weights must sum to 1.0, got %v", sum)
	}
	return &Scorer{weights: w}, nil
}

// Score returns the weighted match score for one posting, rounded to 3
// decimals. Pure and deterministic: the same inputs always produce the same
// output.
func (s *Scorer) Score(p model.Posting, profile model.Profile) float64 {
	total := s.weights.Skills*scoreSkills(p, profile) +
		s.weights.Role*scoreRole(p, profile) +
		s.weights.Location*scoreLocation(p, profile) +
		s.weights.Salary*scoreSalary(p, profile) +
		s.weights.WorkType*scoreWorkType(p, profile)

	return math.Round(total*1000) / 1000
}

// ScoredPosting pairs a posting with its match score.
type ScoredPosting struct {
	Posting model.Posting
	Score   float64
}

// ScoreBatch scores a sequence of postings, preserving order.
func (s *Scorer) ScoreBatch(postings []model.Posting, profile model.Profile) []ScoredPosting {
	scored := make([]ScoredPosting, len(postings))
	for i, p := range postings {
		scored[i] = ScoredPosting{Posting: p, Score: s.Score(p, profile)}
	}
	return scored
}

// scoreSkills returns the fraction of profile skills found (case-insensitive
// substring) in the posting's title, description and requirements.
func scoreSkills(p model.Posting, profile model.Profile) float64 {
	skills := make(map[string]struct{}, len(profile.Skills))
	for _, s := range profile.Skills {
		skills[strings.ToLower(s)] = struct{}{}
	}
	if len(skills) == 0 {
		return neutral
	}

	text := strings.ToLower(p.Description + " " + p.Requirements + " " + p.Title)

	matched := 0
	for skill := range skills {
		if strings.Contains(text, skill) {
			matched++
		}
	}
	return float64(matched) / float64(len(skills))
}

// scoreRole compares the posting title against each desired role in order
// and returns on the first role with any signal: exact match 1.0,
// containment either direction 0.8, token overlap scaled into [0.5, 0.8].
// No signal from any role scores 0.
func scoreRole(p model.Posting, profile model.Profile) float64 {
	if len(profile.DesiredRoles) == 0 {
		return neutral
	}

	title := strings.ToLower(p.Title)
	titleWords := wordSet(title)

	for _, role := range profile.DesiredRoles {
		role := strings.ToLower(role)

		if role == title {
			return 1.0
		}
		if strings.Contains(title, role) || strings.Contains(role, title) {
			return 0.8
		}

		roleWords := wordSet(role)
		if overlap := intersectionSize(roleWords, titleWords); overlap > 0 {
			return 0.5 + (float64(overlap)/float64(len(roleWords)))*0.3
		}
	}
	return 0.0
}

// scoreLocation matches the posting location against desired locations.
// Remote postings match every location; this short-circuit applies before
// the neutral no-preference case, so a remote posting scores 1.0 even for a
// profile with no desired locations. Hybrid postings get no such shortcut.
func scoreLocation(p model.Posting, profile model.Profile) float64 {
	if p.WorkType == model.WorkRemote {
		return 1.0
	}
	if len(profile.DesiredLocations) == 0 {
		return neutral
	}

	location := strings.ToLower(p.Location)
	locationWords := fieldSet(location)

	for _, desired := range profile.DesiredLocations {
		desired := strings.ToLower(desired)

		if strings.Contains(location, desired) || strings.Contains(desired, location) {
			return 1.0
		}
		if intersectionSize(fieldSet(desired), locationWords) > 0 {
			return 0.6
		}
	}
	return 0.0
}

// scoreSalary compares the posting's salary range against the profile floor.
// Missing data on either side is neutral. A posting whose minimum already
// clears the floor scores 1.0; a maximum that clears it scores 0.8; a
// maximum below it decays linearly with the gap, floored at 0.
func scoreSalary(p model.Posting, profile model.Profile) float64 {
	if profile.SalaryMin == nil {
		return neutral
	}
	if p.SalaryMin == nil && p.SalaryMax == nil {
		return neutral
	}

	desired := float64(*profile.SalaryMin)

	if p.SalaryMin != nil && float64(*p.SalaryMin) >= desired {
		return 1.0
	}
	if p.SalaryMax != nil {
		if float64(*p.SalaryMax) >= desired {
			return 0.8
		}
		gap := (desired - float64(*p.SalaryMax)) / desired
		return math.Max(0, 1-gap)
	}

	// Only a minimum is known and it is below the floor.
	return neutral
}

// scoreWorkType: exact match 1.0; remote-seeker vs hybrid posting 0.7;
// a hybrid preference is broadly compatible with anything at 0.6.
func scoreWorkType(p model.Posting, profile model.Profile) float64 {
	if profile.WorkType == model.WorkUnknown || profile.WorkType == "" {
		return neutral
	}

	if profile.WorkType == p.WorkType {
		return 1.0
	}
	if profile.WorkType == model.WorkRemote && p.WorkType == model.WorkHybrid {
		return 0.7
	}
	if profile.WorkType == model.WorkHybrid {
		return 0.6
	}
	return 0.0
}

var wordRegex = regexp.MustCompile(`\w+`)

// wordSet splits on word boundaries (letters, digits, underscore).
func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range wordRegex.FindAllString(s, -1) {
		set[w] = struct{}{}
	}
	return set
}

// fieldSet splits on whitespace only; location tokens keep their punctuation.
func fieldSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}
	return set
}

func intersectionSize(a, b map[string]struct{}) int {
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}
