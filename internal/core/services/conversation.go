package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/confab-labs/confab-cli/internal/core/domain"
	"github.com/confab-labs/confab-cli/internal/core/ports/driven"
	"github.com/confab-labs/confab-cli/internal/core/ports/driving"
	"github.com/confab-labs/confab-cli/internal/logger"
)

// ConversationService persists chat sessions and searches over them.
type ConversationService struct {
	convStore driven.ConversationStore
	indexer   driving.IndexService
	autoIndex bool
	now       func() time.Time
}

// NewConversationService creates a conversation service.
// The indexer parameter is optional (can be nil).
func NewConversationService(convStore driven.ConversationStore, indexer driving.IndexService) *ConversationService {
	return &ConversationService{
		convStore: convStore,
		indexer:   indexer,
		now:       time.Now,
	}
}

// SetAutoIndex toggles indexing conversations into the vector store on
// every save.
func (s *ConversationService) SetAutoIndex(enabled bool) {
	s.autoIndex = enabled
}

// Save persists a conversation under its name. With auto-index on, the
// conversation is also embedded into the vector store; index failures
// are logged but never fail the save.
func (s *ConversationService) Save(ctx context.Context, conv *domain.Conversation) error {
	if strings.TrimSpace(conv.Name) == "" {
		return fmt.Errorf("%w: empty conversation name", domain.ErrInvalidInput)
	}

	conv.UpdatedAt = s.now()
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = conv.UpdatedAt
	}

	if err := s.convStore.Save(ctx, conv); err != nil {
		return fmt.Errorf("save conversation: %w", err)
	}
	logger.Info("Saved conversation %q (%d messages)", conv.Name, len(conv.Messages))

	if s.autoIndex && s.indexer != nil {
		if _, err := s.indexer.IndexConversation(ctx, conv); err != nil {
			logger.Warn("Auto-index failed for %q: %v", conv.Name, err)
		}
	}
	return nil
}

// Get retrieves a saved conversation by name.
func (s *ConversationService) Get(ctx context.Context, name string) (*domain.Conversation, error) {
	conv, err := s.convStore.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get conversation %q: %w", name, err)
	}
	return conv, nil
}

// List returns summaries of all saved conversations, newest first.
func (s *ConversationService) List(ctx context.Context) ([]domain.ConversationSummary, error) {
	return s.convStore.List(ctx)
}

// Delete removes a saved conversation. Store entries indexed from it
// are not removed; they are replaced on the next re-index of a
// conversation with the same name.
func (s *ConversationService) Delete(ctx context.Context, name string) error {
	if err := s.convStore.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete conversation %q: %w", name, err)
	}
	logger.Info("Deleted conversation %q", name)
	return nil
}

// Search finds saved conversations by keyword. Content matching is
// case-insensitive and returns one hit per conversation with the first
// matching message as the snippet.
func (s *ConversationService) Search(
	ctx context.Context, query string, opts domain.ConversationSearchOptions,
) ([]domain.ConversationMatch, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []domain.ConversationMatch{}, nil
	}

	summaries, err := s.convStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	var matches []domain.ConversationMatch
	for _, summary := range summaries {
		if opts.NamesOnly {
			if strings.Contains(strings.ToLower(summary.Name), query) {
				matches = append(matches, domain.ConversationMatch{Name: summary.Name})
			}
			continue
		}

		conv, err := s.convStore.Get(ctx, summary.Name)
		if err != nil {
			logger.Warn("Search: skipping %q: %v", summary.Name, err)
			continue
		}
		if match, ok := matchConversation(conv, query, opts.Role); ok {
			matches = append(matches, match)
		}
	}

	return matches, nil
}

// matchConversation returns the first message hit in a conversation.
func matchConversation(conv *domain.Conversation, query, role string) (domain.ConversationMatch, bool) {
	for _, msg := range conv.Messages {
		if role != "" && msg.Role != role {
			continue
		}
		if !strings.Contains(strings.ToLower(msg.Content), query) {
			continue
		}
		return domain.ConversationMatch{
			Name:    conv.Name,
			Role:    msg.Role,
			Snippet: snippet(msg.Content, 120),
		}, true
	}
	return domain.ConversationMatch{}, false
}

// snippet truncates text to max runes, appending an ellipsis.
func snippet(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
