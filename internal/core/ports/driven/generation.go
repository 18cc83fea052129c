package driven

import "context"

// GenerationService produces free text from a prompt.
// This is an optional service - when nil or unreachable, the engine builds a
// templated fallback answer instead (signalled as
// domain.ErrGenerationUnavailable, never a generic failure).
type GenerationService interface {
	// Generate produces a text completion for the prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}
