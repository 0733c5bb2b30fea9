package tui

import (
	"context"
	"errors"

	"github.com/confab-labs/confab-cli/internal/core/domain"
	"github.com/confab-labs/confab-cli/internal/core/ports/driving"
)

// ConversationSaver persists chat snapshots. Satisfied by the
// conversation service; extracted so the TUI can be tested without it.
type ConversationSaver interface {
	Save(ctx context.Context, conv *domain.Conversation) error
}

// Ports bundles the services the TUI drives.
type Ports struct {
	// Chat drives the conversation. Required.
	Chat driving.ChatService

	// Conversations persists saved sessions. Optional; saving is
	// disabled when nil.
	Conversations ConversationSaver
}

// Validate checks that required ports are present.
func (p *Ports) Validate() error {
	if p == nil || p.Chat == nil {
		return errors.New("chat service is required")
	}
	return nil
}
