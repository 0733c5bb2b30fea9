package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/confab-labs/confab-cli/internal/chunker"
	"github.com/confab-labs/confab-cli/internal/core/domain"
	"github.com/confab-labs/confab-cli/internal/core/ports/driven"
	"github.com/confab-labs/confab-cli/internal/core/ports/driving"
	"github.com/confab-labs/confab-cli/internal/core/services"
)

// mockRetrievalService returns canned ranked entries.
type mockRetrievalService struct {
	results []domain.RankedEntry
	err     error
}

func (m *mockRetrievalService) Search(_ context.Context, _ string, _ domain.SearchOptions) ([]domain.RankedEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

func (m *mockRetrievalService) AssembleContext(_ context.Context, _ string, _ domain.SearchOptions) domain.ContextBlock {
	return domain.ContextBlock{}
}

// mockChatService records sent prompts and echoes a fixed reply.
type mockChatService struct {
	reply    string
	sent     []string
	model    string
	system   string
	params   domain.ModelParameters
	restored *domain.Conversation
	err      error
}

func (m *mockChatService) Send(_ context.Context, text string) (*driving.Exchange, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.sent = append(m.sent, text)
	return &driving.Exchange{Reply: m.reply}, nil
}

func (m *mockChatService) History() []domain.Message {
	var history []domain.Message
	for _, text := range m.sent {
		history = append(history,
			domain.Message{Role: domain.RoleUser, Content: text},
			domain.Message{Role: domain.RoleAssistant, Content: m.reply},
		)
	}
	return history
}

func (m *mockChatService) Reset()                { m.sent = nil }
func (m *mockChatService) Model() string         { return m.model }
func (m *mockChatService) SetModel(model string) { m.model = model }
func (m *mockChatService) SystemPrompt() string  { return m.system }
func (m *mockChatService) SetSystemPrompt(prompt string) {
	m.system = prompt
}
func (m *mockChatService) Parameters() domain.ModelParameters { return m.params }
func (m *mockChatService) SetParameters(p domain.ModelParameters) error {
	if err := p.Validate(); err != nil {
		return err
	}
	m.params = p
	return nil
}

func (m *mockChatService) Snapshot(name string) *domain.Conversation {
	return &domain.Conversation{Name: name, Model: m.model, Messages: m.History()}
}

func (m *mockChatService) Restore(conv *domain.Conversation) { m.restored = conv }

// mockConversationStore is an in-memory conversation store.
type mockConversationStore struct {
	conversations map[string]*domain.Conversation
}

func newMockConversationStore() *mockConversationStore {
	return &mockConversationStore{conversations: make(map[string]*domain.Conversation)}
}

func (m *mockConversationStore) Save(_ context.Context, conv *domain.Conversation) error {
	saved := *conv
	m.conversations[conv.Name] = &saved
	return nil
}

func (m *mockConversationStore) Get(_ context.Context, name string) (*domain.Conversation, error) {
	conv, ok := m.conversations[name]
	if !ok {
		return nil, fmt.Errorf("conversation %q: %w", name, domain.ErrNotFound)
	}
	copied := *conv
	return &copied, nil
}

func (m *mockConversationStore) List(_ context.Context) ([]domain.ConversationSummary, error) {
	summaries := make([]domain.ConversationSummary, 0, len(m.conversations))
	for _, conv := range m.conversations {
		summaries = append(summaries, domain.ConversationSummary{
			Name:         conv.Name,
			Model:        conv.Model,
			MessageCount: len(conv.Messages),
			UpdatedAt:    conv.UpdatedAt,
		})
	}
	return summaries, nil
}

func (m *mockConversationStore) Delete(_ context.Context, name string) error {
	if _, ok := m.conversations[name]; !ok {
		return fmt.Errorf("conversation %q: %w", name, domain.ErrNotFound)
	}
	delete(m.conversations, name)
	return nil
}

// mockProfileStore is an in-memory profile store.
type mockProfileStore struct {
	profiles map[string]*domain.Profile
}

func newMockProfileStore() *mockProfileStore {
	return &mockProfileStore{profiles: make(map[string]*domain.Profile)}
}

func (m *mockProfileStore) Save(_ context.Context, p *domain.Profile) error {
	saved := *p
	m.profiles[p.Name] = &saved
	return nil
}

func (m *mockProfileStore) Get(_ context.Context, name string) (*domain.Profile, error) {
	p, ok := m.profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile %q: %w", name, domain.ErrNotFound)
	}
	copied := *p
	return &copied, nil
}

func (m *mockProfileStore) List(_ context.Context) ([]domain.Profile, error) {
	out := make([]domain.Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockProfileStore) Delete(_ context.Context, name string) error {
	if _, ok := m.profiles[name]; !ok {
		return fmt.Errorf("profile %q: %w", name, domain.ErrNotFound)
	}
	delete(m.profiles, name)
	return nil
}

// mockFeedbackStore is an in-memory feedback store.
type mockFeedbackStore struct {
	records []domain.Feedback
}

func (m *mockFeedbackStore) Save(_ context.Context, f *domain.Feedback) error {
	m.records = append([]domain.Feedback{*f}, m.records...)
	return nil
}

func (m *mockFeedbackStore) List(_ context.Context) ([]domain.Feedback, error) {
	return m.records, nil
}

// mockTemplateStore is an in-memory template store.
type mockTemplateStore struct {
	templates map[string]*domain.Template
}

func newMockTemplateStore() *mockTemplateStore {
	return &mockTemplateStore{templates: make(map[string]*domain.Template)}
}

func (m *mockTemplateStore) Save(_ context.Context, t *domain.Template) error {
	saved := *t
	m.templates[t.ID] = &saved
	return nil
}

func (m *mockTemplateStore) Get(_ context.Context, id string) (*domain.Template, error) {
	t, ok := m.templates[id]
	if !ok {
		return nil, fmt.Errorf("template %q: %w", id, domain.ErrNotFound)
	}
	copied := *t
	return &copied, nil
}

func (m *mockTemplateStore) List(_ context.Context) ([]domain.Template, error) {
	out := make([]domain.Template, 0, len(m.templates))
	for _, t := range m.templates {
		out = append(out, *t)
	}
	return out, nil
}

func (m *mockTemplateStore) Delete(_ context.Context, id string) error {
	if _, ok := m.templates[id]; !ok {
		return fmt.Errorf("template %q: %w", id, domain.ErrNotFound)
	}
	delete(m.templates, id)
	return nil
}

// mockIndexService counts index calls and reports fixed stats.
type mockIndexService struct {
	indexed []string
	report  domain.IndexReport
	stats   domain.StoreStats
	err     error
}

func (m *mockIndexService) IndexConversation(_ context.Context, conv *domain.Conversation) (*domain.IndexReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.indexed = append(m.indexed, conv.Name)
	report := m.report
	return &report, nil
}

func (m *mockIndexService) IndexDocument(_ context.Context, doc *domain.Document) (*domain.IndexReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.indexed = append(m.indexed, doc.ID)
	report := m.report
	return &report, nil
}

func (m *mockIndexService) Stats(_ context.Context) (*domain.StoreStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	stats := m.stats
	return &stats, nil
}

// mockKnowledgeService answers with canned collections and documents.
type mockKnowledgeService struct {
	collections []domain.Collection
	documents   []domain.Document
	added       *domain.Document
	watched     []string
	err         error
}

func (m *mockKnowledgeService) CreateCollection(_ context.Context, name, description string) (*domain.Collection, error) {
	if m.err != nil {
		return nil, m.err
	}
	coll := domain.Collection{Name: name, Description: description, CreatedAt: time.Now()}
	m.collections = append(m.collections, coll)
	return &coll, nil
}

func (m *mockKnowledgeService) ListCollections(_ context.Context) ([]domain.Collection, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.collections, nil
}

func (m *mockKnowledgeService) AddDocument(_ context.Context, path, collection, title string, _ chunker.Strategy) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.added != nil {
		return m.added, nil
	}
	return &domain.Document{ID: "doc-1", Title: title, Collection: collection, Path: path}, nil
}

func (m *mockKnowledgeService) ListDocuments(_ context.Context, collection string) ([]domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	if collection == "" {
		return m.documents, nil
	}
	var filtered []domain.Document
	for _, doc := range m.documents {
		if doc.Collection == collection {
			filtered = append(filtered, doc)
		}
	}
	return filtered, nil
}

func (m *mockKnowledgeService) CollectionStats(_ context.Context, name string) (*domain.CollectionStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	stats := &domain.CollectionStats{Name: name}
	for _, doc := range m.documents {
		if doc.Collection != name {
			continue
		}
		stats.Documents++
		stats.TotalChunks += doc.ChunkCount()
		stats.TotalWords += doc.WordCount
		if doc.Indexed {
			stats.IndexedDocuments++
		}
	}
	return stats, nil
}

func (m *mockKnowledgeService) Stats(_ context.Context) (*domain.KnowledgeBaseStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	stats := &domain.KnowledgeBaseStats{Collections: len(m.collections)}
	for _, doc := range m.documents {
		stats.Documents++
		stats.TotalChunks += doc.ChunkCount()
		stats.TotalWords += doc.WordCount
		if doc.Indexed {
			stats.IndexedDocuments++
		}
	}
	return stats, nil
}

func (m *mockKnowledgeService) Watch(ctx context.Context, dir, _ string, _ chunker.Strategy) error {
	m.watched = append(m.watched, dir)
	<-ctx.Done()
	return ctx.Err()
}

// mockBatchStore is an in-memory batch job store.
type mockBatchStore struct {
	jobs map[string]*domain.BatchJob
}

func newMockBatchStore() *mockBatchStore {
	return &mockBatchStore{jobs: make(map[string]*domain.BatchJob)}
}

func (m *mockBatchStore) Save(_ context.Context, job *domain.BatchJob) error {
	saved := *job
	saved.Prompts = append([]domain.BatchPrompt(nil), job.Prompts...)
	m.jobs[job.Name] = &saved
	return nil
}

func (m *mockBatchStore) Get(_ context.Context, name string) (*domain.BatchJob, error) {
	job, ok := m.jobs[name]
	if !ok {
		return nil, fmt.Errorf("batch job %q: %w", name, domain.ErrNotFound)
	}
	copied := *job
	copied.Prompts = append([]domain.BatchPrompt(nil), job.Prompts...)
	return &copied, nil
}

func (m *mockBatchStore) List(_ context.Context) ([]domain.BatchJob, error) {
	out := make([]domain.BatchJob, 0, len(m.jobs))
	for _, job := range m.jobs {
		out = append(out, *job)
	}
	return out, nil
}

func (m *mockBatchStore) Delete(_ context.Context, name string) error {
	if _, ok := m.jobs[name]; !ok {
		return fmt.Errorf("batch job %q: %w", name, domain.ErrNotFound)
	}
	delete(m.jobs, name)
	return nil
}

// mockLLMService answers every prompt with a fixed completion.
type mockLLMService struct {
	content string
	err     error
}

func (m *mockLLMService) Chat(_ context.Context, _ []domain.Message, opts driven.ChatOptions) (*driven.ChatResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &driven.ChatResult{Content: m.content, Model: opts.Model}, nil
}

func (m *mockLLMService) Generate(ctx context.Context, _ string, opts driven.ChatOptions) (*driven.ChatResult, error) {
	return m.Chat(ctx, nil, opts)
}

func (m *mockLLMService) ModelName() string            { return "mock-model" }
func (m *mockLLMService) Ping(_ context.Context) error { return nil }
func (m *mockLLMService) Close() error                 { return nil }

// mockImageBackend returns a fixed generation record.
type mockImageBackend struct {
	requests []domain.ImageRequest
	err      error
}

func (m *mockImageBackend) Generate(_ context.Context, req domain.ImageRequest) (*domain.ImageRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.requests = append(m.requests, req)
	return &domain.ImageRecord{
		ID:     "img-1",
		Prompt: req.Prompt,
		Model:  "dall-e-3",
		Size:   req.Size,
		Path:   "/tmp/images/img-1.png",
	}, nil
}

func (m *mockImageBackend) ModelName() string { return "dall-e-3" }
func (m *mockImageBackend) Close() error      { return nil }

// mockPromptLibrary is an in-memory prompt library.
type mockPromptLibrary struct {
	prompts map[string]*domain.SavedPrompt
	images  []domain.ImageRecord
}

func newMockPromptLibrary() *mockPromptLibrary {
	return &mockPromptLibrary{prompts: make(map[string]*domain.SavedPrompt)}
}

func (m *mockPromptLibrary) SavePrompt(_ context.Context, p *domain.SavedPrompt) error {
	saved := *p
	m.prompts[p.Name] = &saved
	return nil
}

func (m *mockPromptLibrary) GetPrompt(_ context.Context, name string) (*domain.SavedPrompt, error) {
	p, ok := m.prompts[name]
	if !ok {
		return nil, fmt.Errorf("prompt %q: %w", name, domain.ErrNotFound)
	}
	copied := *p
	return &copied, nil
}

func (m *mockPromptLibrary) ListPrompts(_ context.Context) ([]domain.SavedPrompt, error) {
	out := make([]domain.SavedPrompt, 0, len(m.prompts))
	for _, p := range m.prompts {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockPromptLibrary) RecordImage(_ context.Context, rec *domain.ImageRecord) error {
	m.images = append([]domain.ImageRecord{*rec}, m.images...)
	return nil
}

func (m *mockPromptLibrary) ListImages(_ context.Context) ([]domain.ImageRecord, error) {
	return m.images, nil
}

// mockUsageStore serves a canned usage summary.
type mockUsageStore struct {
	summary *domain.UsageSummary
	recent  []domain.RequestRecord
	err     error
}

func (m *mockUsageStore) Record(_ context.Context, _ *domain.RequestRecord) error { return nil }

func (m *mockUsageStore) Summary(_ context.Context, _ int) (*domain.UsageSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.summary == nil {
		return &domain.UsageSummary{}, nil
	}
	return m.summary, nil
}

func (m *mockUsageStore) Recent(_ context.Context, limit int) ([]domain.RequestRecord, error) {
	if limit > len(m.recent) {
		limit = len(m.recent)
	}
	return m.recent[:limit], nil
}

func (m *mockUsageStore) Close() error { return nil }

// mockConfigStore is an in-memory config store.
type mockConfigStore struct {
	values map[string]any
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{values: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	if v, ok := m.values[key].(string); ok {
		return v
	}
	return ""
}

func (m *mockConfigStore) GetInt(key string) int {
	switch v := m.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

func (m *mockConfigStore) GetFloat(key string) float64 {
	switch v := m.values[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func (m *mockConfigStore) GetBool(key string) bool {
	if v, ok := m.values[key].(bool); ok {
		return v
	}
	return false
}

func (m *mockConfigStore) Set(key string, value any) error {
	m.values[key] = value
	return nil
}

func (m *mockConfigStore) Save() error { return nil }
func (m *mockConfigStore) Load() error { return nil }

// errRetrieval is a retrieval service that always fails.
var errRetrieval = &mockRetrievalService{err: errors.New("embedding backend down")}

// setupTestServices installs mock-backed services and returns a
// cleanup function restoring the previous state.
func setupTestServices() func() {
	oldChat := chatService
	oldRetrieval := retrievalService
	oldIndex := indexService
	oldKnowledge := knowledgeService
	oldConversation := conversationService
	oldProfile := profileService
	oldFeedback := feedbackService
	oldTemplate := templateService
	oldBatch := batchService
	oldImage := imageService
	oldUsage := usageStore
	oldConfig := configStore

	chatService = &mockChatService{reply: "mock reply", model: "mock-model"}
	retrievalService = &mockRetrievalService{
		results: []domain.RankedEntry{
			{
				Entry: domain.Entry{
					ID:        "conv-1_pair_0",
					Kind:      domain.SourceConversation,
					SourceRef: "conv-1",
					Text:      "how do goroutines work",
					CreatedAt: time.Now(),
				},
				Score: 0.92,
			},
		},
	}
	indexService = &mockIndexService{report: domain.IndexReport{Inserted: 1}}
	knowledgeService = &mockKnowledgeService{}
	conversationService = services.NewConversationService(newMockConversationStore(), nil)
	profileService = services.NewProfileService(newMockProfileStore())
	feedbackService = services.NewFeedbackService(&mockFeedbackStore{})
	templateService = services.NewTemplateService(newMockTemplateStore())
	batchService = services.NewBatchService(newMockBatchStore(), &mockLLMService{content: "batch reply"})
	imageService = services.NewImageGenService(&mockImageBackend{}, nil, newMockPromptLibrary())
	usageStore = &mockUsageStore{}
	configStore = newMockConfigStore()

	return func() {
		chatService = oldChat
		retrievalService = oldRetrieval
		indexService = oldIndex
		knowledgeService = oldKnowledge
		conversationService = oldConversation
		profileService = oldProfile
		feedbackService = oldFeedback
		templateService = oldTemplate
		batchService = oldBatch
		imageService = oldImage
		usageStore = oldUsage
		configStore = oldConfig
	}
}
