package adapter

import (
	"testing"
	"time"
)

func TestExtractText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "double-encoded HTML",
			input: "This is the job description. &lt;p&gt;Any HTML included.&lt;/p&gt;",
			want:  "This is the job description. Any HTML included.",
		},
		{
			name:  "nested tags and whitespace",
			input: "<p>We are hiring.</p>\n<ul>\n  <li>Write code</li>\n  <li>Review PRs</li>\n</ul>",
			want:  "We are hiring. Write code Review PRs",
		},
		{
			name:  "plain text with no HTML",
			input: "No tags here.",
			want:  "No tags here.",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := extractText(tc.input)
			if got != tc.want {
				t.Errorf("extractText(%q)\n got  %q\n want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseSalaryText(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMin int64
		wantMax int64 // 0 means nil expected
		wantNil bool
	}{
		{name: "dollar range with commas", input: "$70,000 - $90,000", wantMin: 70000, wantMax: 90000},
		{name: "k suffix range", input: "80k-100k", wantMin: 80000, wantMax: 100000},
		{name: "single figure with plus", input: "$120,000+", wantMin: 120000},
		{name: "single k figure", input: "100k", wantMin: 100000},
		{name: "hourly rate discarded", input: "$40 - $60 per hour", wantNil: true},
		{name: "no figures", input: "competitive", wantNil: true},
		{name: "empty", input: "", wantNil: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			min, max := parseSalaryText(tc.input)
			if tc.wantNil {
				if min != nil || max != nil {
					t.Fatalf("expected nil figures, got %v/%v", min, max)
				}
				return
			}
			if min == nil || *min != tc.wantMin {
				t.Errorf("expected min %d, got %v", tc.wantMin, min)
			}
			if tc.wantMax == 0 {
				if max != nil {
					t.Errorf("expected nil max, got %d", *max)
				}
			} else if max == nil || *max != tc.wantMax {
				t.Errorf("expected max %d, got %v", tc.wantMax, max)
			}
		})
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"120", 120 * time.Second},
		{"0", 0},
		{"", 0},
		{"not-a-number", 0},
	}

	for _, tc := range tests {
		if got := parseRetryAfter(tc.input); got != tc.want {
			t.Errorf("parseRetryAfter(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestMatchesKeywords(t *testing.T) {
	tests := []struct {
		name     string
		keywords []string
		fields   []string
		want     bool
	}{
		{name: "empty keywords match everything", keywords: nil, fields: []string{"anything"}, want: true},
		{name: "case-insensitive hit", keywords: []string{"GoLang"}, fields: []string{"Senior golang developer"}, want: true},
		{name: "hit in later field", keywords: []string{"kubernetes"}, fields: []string{"Engineer", "docker, kubernetes"}, want: true},
		{name: "no hit", keywords: []string{"rust"}, fields: []string{"Go developer"}, want: false},
		{name: "blank keywords ignored", keywords: []string{" ", ""}, fields: []string{"Go developer"}, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := matchesKeywords(tc.keywords, tc.fields...); got != tc.want {
				t.Errorf("matchesKeywords(%v, %v) = %v, want %v", tc.keywords, tc.fields, got, tc.want)
			}
		})
	}
}
