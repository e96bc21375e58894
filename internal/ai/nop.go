package ai

import (
	"context"

	"github.com/jobscout/jobscout/internal/model"
)

// NopAnalyzer is used when ai.enabled is false. It makes no LLM calls; the
// rest of the pipeline operates purely on structured data.
type NopAnalyzer struct{}

// NewNopAnalyzer returns a NopAnalyzer.
func NewNopAnalyzer() *NopAnalyzer {
	return &NopAnalyzer{}
}

// Analyze reports no analysis.
func (n *NopAnalyzer) Analyze(_ context.Context, _ model.Posting, _ model.Profile) (*model.Analysis, error) {
	return nil, nil
}

// Draft reports no letter.
func (n *NopAnalyzer) Draft(_ context.Context, _ model.Posting, _ model.Profile) (string, error) {
	return "", nil
}
