// Package llm provides text-generation backend clients and the adapter
// that shields the agent from backend failures.
package llm

import "context"

// Generation budget applied to every backend call. Bounded output and
// low randomness keep the decision output parseable.
const (
	// MaxNewTokens bounds the generated output length.
	MaxNewTokens = 512

	// Temperature keeps sampling near-deterministic.
	Temperature = 0.3
)

// Client is the interface that all backend providers implement.
type Client interface {
	// Name returns the provider identifier (e.g., "gemini").
	Name() string

	// Generate sends the full prompt and returns the generated text.
	Generate(ctx context.Context, prompt string) (string, error)
}
