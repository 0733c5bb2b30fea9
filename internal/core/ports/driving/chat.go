package driving

import (
	"context"

	"github.com/confab-labs/confab-cli/internal/core/domain"
)

// ChatService manages the live conversation with the chat model.
type ChatService interface {
	// Send submits a user message, optionally augmented with retrieved
	// context, and returns the exchange outcome. Retrieval failures
	// never block the turn; provider failures do surface.
	Send(ctx context.Context, text string) (*Exchange, error)

	// History returns the messages exchanged so far, excluding the
	// system prompt.
	History() []domain.Message

	// Reset clears the conversation history.
	Reset()

	// Model returns the active chat model name.
	Model() string

	// SetModel switches the chat model for subsequent turns.
	SetModel(model string)

	// SystemPrompt returns the active system instruction.
	SystemPrompt() string

	// SetSystemPrompt replaces the system instruction.
	SetSystemPrompt(prompt string)

	// Parameters returns the active sampling parameters.
	Parameters() domain.ModelParameters

	// SetParameters replaces the sampling parameters after validation.
	SetParameters(p domain.ModelParameters) error

	// Snapshot captures the session as a persistable conversation.
	Snapshot(name string) *domain.Conversation

	// Restore replaces the session state from a saved conversation.
	Restore(conv *domain.Conversation)
}

// Exchange is the outcome of one chat turn.
type Exchange struct {
	// Reply is the assistant response.
	Reply string

	// Context is the retrieval augmentation applied to the turn,
	// empty when RAG is disabled or nothing relevant was found.
	Context domain.ContextBlock

	// PromptTokens and CompletionTokens are provider-reported counts.
	PromptTokens     int
	CompletionTokens int
}
