package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confab-labs/confab-cli/internal/core/domain"
)

func testConversation() *domain.Conversation {
	return &domain.Conversation{
		Name:  "project-notes",
		Model: "gpt-4o-mini",
		Messages: []domain.Message{
			{Role: domain.RoleUser, Content: "first question"},
			{Role: domain.RoleAssistant, Content: "first answer"},
			{Role: domain.RoleUser, Content: "second question"},
			{Role: domain.RoleAssistant, Content: "second answer"},
		},
	}
}

func TestIndexConversation(t *testing.T) {
	store := &mockEntryStore{}
	embedder := &mockEmbeddingService{defaultVec: []float32{1, 0}}
	svc := NewIndexService(store, embedder)
	svc.now = func() time.Time { return testTime }

	report, err := svc.IndexConversation(context.Background(), testConversation())

	require.NoError(t, err)
	assert.Equal(t, 2, report.Inserted)
	assert.Zero(t, report.Updated)
	assert.Zero(t, report.Failed)
	assert.Equal(t, 1, store.saveCalls)

	require.Len(t, store.entries, 2)
	assert.Equal(t, "project-notes_pair_0", store.entries[0].ID)
	assert.Equal(t, "project-notes_pair_1", store.entries[1].ID)
	assert.Equal(t, domain.SourceConversation, store.entries[0].Kind)
	assert.Equal(t, "project-notes", store.entries[0].SourceRef)
	assert.Equal(t, "first question", store.entries[0].Text)
	assert.Equal(t, "first answer", store.entries[0].SecondaryText)
	assert.Equal(t, "gpt-4o-mini", store.entries[0].ModelTag)
	assert.Equal(t, []float32{1, 0}, store.entries[0].Vector)
}

func TestIndexConversation_ReindexUpdatesInPlace(t *testing.T) {
	store := &mockEntryStore{}
	embedder := &mockEmbeddingService{defaultVec: []float32{1, 0}}
	svc := NewIndexService(store, embedder)

	conv := testConversation()
	first, err := svc.IndexConversation(context.Background(), conv)
	require.NoError(t, err)
	require.Equal(t, 2, first.Inserted)

	second, err := svc.IndexConversation(context.Background(), conv)
	require.NoError(t, err)
	assert.Zero(t, second.Inserted)
	assert.Equal(t, 2, second.Updated)
	// Re-indexing replaces entries, never duplicates them.
	assert.Len(t, store.entries, 2)
}

func TestIndexConversation_TrailingUserMessageDropped(t *testing.T) {
	store := &mockEntryStore{}
	svc := NewIndexService(store, &mockEmbeddingService{defaultVec: []float32{1, 0}})

	conv := testConversation()
	conv.Messages = append(conv.Messages, domain.Message{Role: domain.RoleUser, Content: "unanswered"})

	report, err := svc.IndexConversation(context.Background(), conv)

	require.NoError(t, err)
	assert.Equal(t, 2, report.Inserted)
	assert.Len(t, store.entries, 2)
}

func TestIndexConversation_NoPairs(t *testing.T) {
	store := &mockEntryStore{}
	svc := NewIndexService(store, &mockEmbeddingService{defaultVec: []float32{1, 0}})

	report, err := svc.IndexConversation(context.Background(), &domain.Conversation{Name: "empty"})

	require.NoError(t, err)
	assert.Zero(t, report.Total())
	assert.Empty(t, store.entries)
	assert.Zero(t, store.saveCalls)
}

func TestIndexConversation_NoEmbeddingService(t *testing.T) {
	svc := NewIndexService(&mockEntryStore{}, nil)

	_, err := svc.IndexConversation(context.Background(), testConversation())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestIndexConversation_FailedItemSkippedNotFatal(t *testing.T) {
	store := &mockEntryStore{}
	embedder := &mockEmbeddingService{
		defaultVec: []float32{1, 0},
		failTexts:  map[string]bool{"User: second question\n\nAssistant: second answer": true},
	}
	svc := NewIndexService(store, embedder)

	report, err := svc.IndexConversation(context.Background(), testConversation())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Inserted)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, store.entries, 1)
	assert.Equal(t, "project-notes_pair_0", store.entries[0].ID)
}

func TestIndexDocument(t *testing.T) {
	store := &mockEntryStore{}
	svc := NewIndexService(store, &mockEmbeddingService{defaultVec: []float32{0, 1}})

	doc := &domain.Document{
		ID:     "doc-abc",
		Title:  "Guide",
		Chunks: []string{"chunk one", "chunk two", "chunk three"},
	}

	report, err := svc.IndexDocument(context.Background(), doc)

	require.NoError(t, err)
	assert.Equal(t, 3, report.Inserted)
	assert.True(t, doc.Indexed)
	assert.Equal(t, 1, store.saveCalls)

	require.Len(t, store.entries, 3)
	assert.Equal(t, "doc-abc_chunk_0", store.entries[0].ID)
	assert.Equal(t, domain.SourceKnowledgeBase, store.entries[0].Kind)
	assert.Equal(t, "doc-abc", store.entries[0].SourceRef)
	assert.Equal(t, "Guide", store.entries[0].Title)
	assert.Equal(t, "chunk one", store.entries[0].Text)
}

func TestIndexDocument_NoChunks(t *testing.T) {
	store := &mockEntryStore{}
	svc := NewIndexService(store, &mockEmbeddingService{defaultVec: []float32{0, 1}})

	doc := &domain.Document{ID: "doc-empty", Title: "Empty"}
	report, err := svc.IndexDocument(context.Background(), doc)

	require.NoError(t, err)
	assert.Zero(t, report.Total())
	assert.False(t, doc.Indexed)
}

func TestIndexDocument_UpsertErrorPropagates(t *testing.T) {
	store := &mockEntryStore{upsertErr: errors.New("disk full")}
	svc := NewIndexService(store, &mockEmbeddingService{defaultVec: []float32{0, 1}})

	doc := &domain.Document{ID: "doc-abc", Title: "Guide", Chunks: []string{"chunk"}}
	_, err := svc.IndexDocument(context.Background(), doc)

	require.Error(t, err)
	assert.False(t, doc.Indexed)
}

func TestIndexStats(t *testing.T) {
	store := &mockEntryStore{entries: []domain.Entry{
		{ID: "a_pair_0", Kind: domain.SourceConversation, SourceRef: "a", ModelTag: "gpt-4o-mini"},
		{ID: "a_pair_1", Kind: domain.SourceConversation, SourceRef: "a", ModelTag: "gpt-4o-mini"},
		{ID: "d_chunk_0", Kind: domain.SourceKnowledgeBase, SourceRef: "d"},
	}}
	svc := NewIndexService(store, &mockEmbeddingService{defaultVec: []float32{1}})

	stats, err := svc.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalEntries)
	assert.Equal(t, 2, stats.ByKind[domain.SourceConversation])
	assert.Equal(t, 1, stats.ByKind[domain.SourceKnowledgeBase])
	assert.Equal(t, 2, stats.DistinctSources)
	assert.Equal(t, 2, stats.ByModel["gpt-4o-mini"])
}
