package adapter

import (
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// extractText converts an HTML or HTML-encoded string to plain text.
// It first unescapes HTML entities (handles boards that double-encode;
// no-op on already-real HTML), strips all tags, then collapses whitespace.
func extractText(content string) string {
	unescaped := html.UnescapeString(content)
	plain := htmlTagRegex.ReplaceAllString(unescaped, "")
	return strings.Join(strings.Fields(plain), " ")
}

// parseRetryAfter parses the Retry-After header value into a duration.
// Supports seconds format (e.g. "120"). Returns zero if absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

var salaryFigureRegex = regexp.MustCompile(`(?i)\$?\s*(\d{1,3}(?:,\d{3})+|\d+(?:\.\d+)?)\s*(k)?`)

// parseSalaryText extracts annual salary figures from free-form salary text
// like "$70,000 - $90,000" or "100k+". The first figure is the minimum and
// the second, if present, the maximum. Figures below 1000 after applying a
// "k" multiplier are assumed to be hourly rates and discarded.
func parseSalaryText(text string) (min, max *int64) {
	if text == "" {
		return nil, nil
	}
	var figures []int64
	for _, m := range salaryFigureRegex.FindAllStringSubmatch(text, -1) {
		f, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			continue
		}
		if strings.EqualFold(m[2], "k") {
			f *= 1000
		}
		if f < 1000 {
			continue
		}
		figures = append(figures, int64(f))
		if len(figures) == 2 {
			break
		}
	}
	switch len(figures) {
	case 0:
		return nil, nil
	case 1:
		return &figures[0], nil
	default:
		return &figures[0], &figures[1]
	}
}

// matchesKeywords reports whether any keyword appears in one of the given
// fields, case-insensitively. An empty keyword list matches everything.
func matchesKeywords(keywords []string, fields ...string) bool {
	if len(keywords) == 0 {
		return true
	}
	var haystack strings.Builder
	for _, f := range fields {
		haystack.WriteString(strings.ToLower(f))
		haystack.WriteByte(' ')
	}
	text := haystack.String()
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
