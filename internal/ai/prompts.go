package ai

import (
	_ "embed"
	"text/template"
)

//go:embed prompts/job_analysis.md
var analysisPromptRaw string

//go:embed prompts/cover_letter.md
var coverLetterPromptRaw string

// AnalysisTemplate is the parsed prompt template for fit analysis.
// Parsed once at package init; reused on every Analyze call.
var AnalysisTemplate = template.Must(template.New("job_analysis").Parse(analysisPromptRaw))

// CoverLetterTemplate is the parsed prompt template for cover letters.
var CoverLetterTemplate = template.Must(template.New("cover_letter").Parse(coverLetterPromptRaw))
