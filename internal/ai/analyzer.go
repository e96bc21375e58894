// Package ai is the optional natural-language collaborator: structured fit
// analysis and cover-letter drafting. The pipeline is fully functional
// without it.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/jobscout/jobscout/internal/model"
)

// Analyzer produces natural-language scoring and drafting for one posting.
type Analyzer interface {
	// Analyze returns a structured fit analysis, or (nil, nil) when the
	// service is disabled.
	Analyze(ctx context.Context, posting model.Posting, profile model.Profile) (*model.Analysis, error)
	// Draft writes a cover letter, or ("", nil) when the service is disabled.
	Draft(ctx context.Context, posting model.Posting, profile model.Profile) (string, error)
}

// LLMAnalyzer implements Analyzer on top of an LLMProvider.
type LLMAnalyzer struct {
	provider LLMProvider
	logger   *slog.Logger
}

// NewLLMAnalyzer creates an analyzer backed by the given provider.
func NewLLMAnalyzer(provider LLMProvider, logger *slog.Logger) *LLMAnalyzer {
	return &LLMAnalyzer{
		provider: provider,
		logger:   logger,
	}
}

// promptData is the template input shared by both prompts.
type promptData struct {
	Title        string
	Company      string
	Budget       string
	Description  string
	Requirements string
	Skills       []string
	Roles        []string
	Experience   int
}

func newPromptData(p model.Posting, profile model.Profile) promptData {
	return promptData{
		Title:        p.Title,
		Company:      p.Company,
		Budget:       budgetLine(p),
		Description:  p.Description,
		Requirements: p.Requirements,
		Skills:       profile.Skills,
		Roles:        profile.DesiredRoles,
		Experience:   profile.ExperienceYears,
	}
}

// Analyze asks the LLM for a structured fit verdict on the posting.
func (a *LLMAnalyzer) Analyze(ctx context.Context, posting model.Posting, profile model.Profile) (*model.Analysis, error) {
	prompt, err := render(AnalysisTemplate, newPromptData(posting, profile))
	if err != nil {
		return nil, fmt.Errorf("render analysis prompt: %w", err)
	}

	raw, err := a.provider.Complete(ctx, prompt, analysisSchema)
	if err != nil {
		return nil, fmt.Errorf("llm complete: %w", err)
	}

	analysis, err := parseAnalysis(raw)
	if err != nil {
		return nil, fmt.Errorf("parse analysis: %w", err)
	}

	a.logger.Debug("posting analyzed",
		"title", posting.Title,
		"match_score", analysis.MatchScore,
		"good_fit", analysis.IsGoodFit,
	)
	return analysis, nil
}

// Draft asks the LLM for a cover letter tailored to the posting.
func (a *LLMAnalyzer) Draft(ctx context.Context, posting model.Posting, profile model.Profile) (string, error) {
	prompt, err := render(CoverLetterTemplate, newPromptData(posting, profile))
	if err != nil {
		return "", fmt.Errorf("render cover letter prompt: %w", err)
	}

	text, err := a.provider.Complete(ctx, prompt, nil)
	if err != nil {
		return "", fmt.Errorf("llm complete: %w", err)
	}
	return text, nil
}

// parseAnalysis deserializes the LLM response. Structured outputs guarantees
// valid JSON conforming to analysisSchema, so no code-fence stripping is
// needed, but the score is still clamped as a guard.
func parseAnalysis(raw string) (*model.Analysis, error) {
	var a model.Analysis
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return nil, fmt.Errorf("unmarshal analysis JSON: %w", err)
	}

	if a.MatchScore < 0 {
		a.MatchScore = 0
	}
	if a.MatchScore > 100 {
		a.MatchScore = 100
	}
	return &a, nil
}

// budgetLine summarizes the posting's salary data for the prompt.
func budgetLine(p model.Posting) string {
	switch {
	case p.SalaryMin != nil && p.SalaryMax != nil:
		return fmt.Sprintf("%d-%d", *p.SalaryMin, *p.SalaryMax)
	case p.SalaryMin != nil:
		return fmt.Sprintf("from %d", *p.SalaryMin)
	case p.SalaryMax != nil:
		return fmt.Sprintf("up to %d", *p.SalaryMax)
	default:
		return "not stated"
	}
}

func render(tmpl *template.Template, data promptData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
