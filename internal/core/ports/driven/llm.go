package driven

import (
	"context"

	"github.com/confab-labs/confab-cli/internal/core/domain"
)

// LLMService provides chat completion against a hosted model API.
//
// Implementations may include:
//   - OpenAI (GPT-4o family) or any compatible gateway
//   - Anthropic (Claude)
//   - Ollama (local models)
type LLMService interface {
	// Chat conducts a multi-turn conversation and returns the assistant
	// reply plus token usage for statistics.
	Chat(ctx context.Context, messages []domain.Message, opts ChatOptions) (*ChatResult, error)

	// Generate produces a completion for a single prompt. Convenience
	// wrapper over Chat for one-shot use (batch jobs, metaprompts).
	Generate(ctx context.Context, prompt string, opts ChatOptions) (*ChatResult, error)

	// ModelName returns the name of the chat model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ChatOptions configures a chat request.
type ChatOptions struct {
	// Model overrides the service's default model when non-empty.
	Model string

	// Parameters are the sampling parameters for the request.
	Parameters domain.ModelParameters
}

// ChatResult is a completed chat response with usage accounting.
type ChatResult struct {
	// Content is the assistant reply text.
	Content string

	// Model is the model that produced the reply.
	Model string

	// PromptTokens and CompletionTokens are the provider-reported
	// token counts, zero when the provider omits them.
	PromptTokens     int
	CompletionTokens int
}
