// Package messages defines Bubbletea message types for the TUI.
// Messages represent events that flow through the Elm architecture.
package messages

import (
	"github.com/confab-labs/confab-cli/internal/core/ports/driving"
)

// PromptSubmitted is sent when the user submits a prompt.
type PromptSubmitted struct {
	Text string
}

// ReplyReceived carries the outcome of a chat turn back to the model.
type ReplyReceived struct {
	Exchange *driving.Exchange
	Err      error
}

// ConversationSaved signals a save attempt finished.
type ConversationSaved struct {
	Name string
	Err  error
}

// ConversationCleared signals the session history was reset.
type ConversationCleared struct{}
