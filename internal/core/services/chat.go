package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/confab-labs/confab-cli/internal/core/domain"
	"github.com/confab-labs/confab-cli/internal/core/ports/driven"
	"github.com/confab-labs/confab-cli/internal/core/ports/driving"
	"github.com/confab-labs/confab-cli/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// ChatService holds one live conversation and drives chat turns
// through the configured model provider, with optional retrieval
// augmentation and usage accounting.
type ChatService struct {
	llmService driven.LLMService
	retrieval  driving.RetrievalService
	usageStore driven.UsageStore
	ragEnabled bool
	now        func() time.Time

	mu           sync.Mutex
	model        string
	systemPrompt string
	parameters   domain.ModelParameters
	messages     []domain.Message
}

// ChatServiceOption configures the chat service.
type ChatServiceOption func(*ChatService)

// WithRetrieval enables retrieval augmentation for chat turns.
func WithRetrieval(retrieval driving.RetrievalService) ChatServiceOption {
	return func(s *ChatService) {
		s.retrieval = retrieval
		s.ragEnabled = retrieval != nil
	}
}

// WithUsageStore enables usage recording for chat turns.
func WithUsageStore(store driven.UsageStore) ChatServiceOption {
	return func(s *ChatService) {
		s.usageStore = store
	}
}

// WithSystemPrompt sets the initial system instruction.
func WithSystemPrompt(prompt string) ChatServiceOption {
	return func(s *ChatService) {
		s.systemPrompt = prompt
	}
}

// NewChatService creates a chat service for the given model.
func NewChatService(llmService driven.LLMService, model string, opts ...ChatServiceOption) *ChatService {
	s := &ChatService{
		llmService: llmService,
		model:      model,
		parameters: domain.DefaultModelParameters(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send submits a user message and returns the exchange outcome. When
// retrieval is enabled the turn is augmented with relevant snippets
// from past conversations and documents; retrieval failures degrade to
// an unaugmented turn, provider failures surface to the caller and
// leave the history unchanged.
func (s *ChatService) Send(ctx context.Context, text string) (*driving.Exchange, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty message", domain.ErrInvalidInput)
	}
	if s.llmService == nil {
		return nil, fmt.Errorf("send: %w", domain.ErrLLMUnavailable)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var block domain.ContextBlock
	if s.ragEnabled && s.retrieval != nil {
		block = s.retrieval.AssembleContext(ctx, text, domain.SearchOptions{})
	}

	request := s.buildRequest(text, block)
	logger.Debug("Chat request: %d messages, model=%s", len(request), s.model)

	result, err := s.llmService.Chat(ctx, request, driven.ChatOptions{
		Model:      s.model,
		Parameters: s.parameters,
	})
	if err != nil {
		return nil, fmt.Errorf("chat: %w", err)
	}

	s.messages = append(s.messages,
		domain.Message{Role: domain.RoleUser, Content: text},
		domain.Message{Role: domain.RoleAssistant, Content: result.Content},
	)

	s.recordUsage(ctx, result)

	return &driving.Exchange{
		Reply:            result.Content,
		Context:          block,
		PromptTokens:     result.PromptTokens,
		CompletionTokens: result.CompletionTokens,
	}, nil
}

// buildRequest assembles the provider message list: system instruction
// (with the context block prepended when present), then the running
// history, then the new user message.
func (s *ChatService) buildRequest(text string, block domain.ContextBlock) []domain.Message {
	system := s.systemPrompt
	if !block.Empty() {
		if system != "" {
			system = block.Text + "\n\n" + system
		} else {
			system = block.Text
		}
	}

	request := make([]domain.Message, 0, len(s.messages)+2)
	if system != "" {
		request = append(request, domain.Message{Role: domain.RoleSystem, Content: system})
	}
	request = append(request, s.messages...)
	request = append(request, domain.Message{Role: domain.RoleUser, Content: text})

	return request
}

// recordUsage appends a usage record. Best effort: accounting never
// fails a successful chat turn.
func (s *ChatService) recordUsage(ctx context.Context, result *driven.ChatResult) {
	if s.usageStore == nil {
		return
	}

	model := result.Model
	if model == "" {
		model = s.model
	}

	rec := &domain.RequestRecord{
		Model:            model,
		PromptTokens:     result.PromptTokens,
		CompletionTokens: result.CompletionTokens,
		Cost:             domain.EstimateCost(model, result.PromptTokens, result.CompletionTokens),
		CreatedAt:        s.now(),
	}
	if err := s.usageStore.Record(ctx, rec); err != nil {
		logger.Warn("Usage recording failed: %v", err)
	}
}

// History returns a copy of the messages exchanged so far.
func (s *ChatService) History() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Reset clears the conversation history.
func (s *ChatService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}

// Model returns the active chat model name.
func (s *ChatService) Model() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

// SetModel switches the chat model for subsequent turns.
func (s *ChatService) SetModel(model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = model
}

// SystemPrompt returns the active system instruction.
func (s *ChatService) SystemPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.systemPrompt
}

// SetSystemPrompt replaces the system instruction.
func (s *ChatService) SetSystemPrompt(prompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.systemPrompt = prompt
}

// Parameters returns the active sampling parameters.
func (s *ChatService) Parameters() domain.ModelParameters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.parameters
}

// SetParameters replaces the sampling parameters after validation.
func (s *ChatService) SetParameters(p domain.ModelParameters) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.parameters = p
	return nil
}

// Snapshot captures the session as a persistable conversation.
func (s *ChatService) Snapshot(name string) *domain.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := make([]domain.Message, len(s.messages))
	copy(messages, s.messages)

	now := s.now()
	return &domain.Conversation{
		Name:         name,
		Model:        s.model,
		SystemPrompt: s.systemPrompt,
		Messages:     messages,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Restore replaces the session state from a saved conversation.
func (s *ChatService) Restore(conv *domain.Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conv.Model != "" {
		s.model = conv.Model
	}
	s.systemPrompt = conv.SystemPrompt
	s.messages = make([]domain.Message, len(conv.Messages))
	copy(s.messages, conv.Messages)
}
