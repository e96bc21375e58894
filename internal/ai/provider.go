package ai

import "context"

// LLMProvider sends a prompt to an LLM and returns the raw text response.
// A non-nil schema requests structured output conforming to it; a nil schema
// returns free text. Used only inside this package.
type LLMProvider interface {
	Complete(ctx context.Context, prompt string, schema map[string]any) (string, error)
}
