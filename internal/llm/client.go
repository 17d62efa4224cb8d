package llm

import "context"

// Client defines the narrow interface to a text-generation provider: one
// prompt in, raw completion text out. Validation of the completion lives
// in Fallback, so tests can swap a deterministic stub in here without
// touching classification logic.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config holds configuration for the fallback classifier and its provider
// client.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}
