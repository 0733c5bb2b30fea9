package services

import (
	"context"
	"fmt"
	"time"

	"github.com/confab-labs/confab-cli/internal/core/domain"
	"github.com/confab-labs/confab-cli/internal/core/ports/driven"
	"github.com/confab-labs/confab-cli/internal/core/ports/driving"
	"github.com/confab-labs/confab-cli/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// IndexService embeds conversation pairs and document chunks and
// upserts them into the entry store.
type IndexService struct {
	entryStore       driven.EntryStore
	embeddingService driven.EmbeddingService
	now              func() time.Time
}

// NewIndexService creates a new index service.
func NewIndexService(
	entryStore driven.EntryStore,
	embeddingService driven.EmbeddingService,
) *IndexService {
	return &IndexService{
		entryStore:       entryStore,
		embeddingService: embeddingService,
		now:              time.Now,
	}
}

// IndexConversation embeds the conversation's user/assistant pairs and
// upserts one entry per pair. Entry IDs are derived from the
// conversation name and pair index, so re-indexing the same
// conversation replaces entries instead of duplicating them.
func (s *IndexService) IndexConversation(
	ctx context.Context, conv *domain.Conversation,
) (*domain.IndexReport, error) {
	logger.Section("Index Conversation")
	logger.Debug("Conversation: %q", conv.Name)

	if s.embeddingService == nil {
		return nil, fmt.Errorf("index conversation: %w", domain.ErrEmbeddingUnavailable)
	}

	pairs := conv.Pairs()
	if len(pairs) == 0 {
		logger.Debug("No complete message pairs, nothing to index")
		return &domain.IndexReport{}, nil
	}
	logger.Debug("Message pairs: %d", len(pairs))

	entries := make([]domain.Entry, 0, len(pairs))
	for _, pair := range pairs {
		entries = append(entries, domain.Entry{
			ID:            fmt.Sprintf("%s_pair_%d", conv.Name, pair.Index),
			Kind:          domain.SourceConversation,
			SourceRef:     conv.Name,
			Text:          pair.User,
			SecondaryText: pair.Assistant,
			ModelTag:      conv.Model,
			CreatedAt:     s.now(),
		})
	}

	return s.embedAndUpsert(ctx, entries)
}

// IndexDocument embeds the document's chunks and upserts one entry per
// chunk, then marks the document indexed. Entry IDs are derived from
// the document ID and chunk index.
func (s *IndexService) IndexDocument(
	ctx context.Context, doc *domain.Document,
) (*domain.IndexReport, error) {
	logger.Section("Index Document")
	logger.Debug("Document: %q (%s)", doc.Title, doc.ID)

	if s.embeddingService == nil {
		return nil, fmt.Errorf("index document: %w", domain.ErrEmbeddingUnavailable)
	}

	if len(doc.Chunks) == 0 {
		logger.Debug("Document has no chunks, nothing to index")
		return &domain.IndexReport{}, nil
	}
	logger.Debug("Chunks: %d", len(doc.Chunks))

	entries := make([]domain.Entry, 0, len(doc.Chunks))
	for i, chunk := range doc.Chunks {
		entries = append(entries, domain.Entry{
			ID:        fmt.Sprintf("%s_chunk_%d", doc.ID, i),
			Kind:      domain.SourceKnowledgeBase,
			SourceRef: doc.ID,
			Text:      chunk,
			Title:     doc.Title,
			CreatedAt: s.now(),
		})
	}

	report, err := s.embedAndUpsert(ctx, entries)
	if err != nil {
		return nil, err
	}

	doc.Indexed = true
	return report, nil
}

// Stats summarises the underlying entry store.
func (s *IndexService) Stats(ctx context.Context) (*domain.StoreStats, error) {
	stats, err := s.entryStore.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("store stats: %w", err)
	}
	return stats, nil
}

// embedAndUpsert fills in vectors for the given entries, drops the ones
// that could not be embedded, and writes the rest in one batch followed
// by a save. A single failed item never aborts the batch.
func (s *IndexService) embedAndUpsert(
	ctx context.Context, entries []domain.Entry,
) (*domain.IndexReport, error) {
	embedded, failed := s.embedEntries(ctx, entries)

	report := &domain.IndexReport{Failed: failed}
	if len(embedded) == 0 {
		if failed > 0 {
			logger.Warn("All %d items failed to embed, nothing written", failed)
		}
		return report, nil
	}

	inserted, updated, err := s.entryStore.Upsert(ctx, embedded)
	if err != nil {
		return nil, fmt.Errorf("upsert entries: %w", err)
	}
	report.Inserted = inserted
	report.Updated = updated

	if err := s.entryStore.Save(ctx); err != nil {
		return nil, fmt.Errorf("save entry store: %w", err)
	}

	logger.Info("Indexed: %d inserted, %d updated, %d failed",
		report.Inserted, report.Updated, report.Failed)
	return report, nil
}

// embedEntries generates vectors for the entries, preferring one batch
// call. If the batch call fails it retries items one at a time so a
// single bad item only costs itself.
func (s *IndexService) embedEntries(
	ctx context.Context, entries []domain.Entry,
) (embedded []domain.Entry, failed int) {
	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.CombinedText()
	}

	vectors, err := s.embeddingService.EmbedBatch(ctx, texts)
	if err == nil && len(vectors) == len(entries) {
		for i := range entries {
			entries[i].Vector = vectors[i]
		}
		return entries, 0
	}
	if err != nil {
		logger.Warn("Batch embedding failed, retrying per item: %v", err)
	} else {
		logger.Warn("Batch embedding returned %d vectors for %d items, retrying per item",
			len(vectors), len(entries))
	}

	embedded = make([]domain.Entry, 0, len(entries))
	for i, entry := range entries {
		vector, embedErr := s.embeddingService.Embed(ctx, texts[i])
		if embedErr != nil {
			logger.Warn("Embedding failed for %s: %v", entry.ID, embedErr)
			failed++
			continue
		}
		entry.Vector = vector
		embedded = append(embedded, entry)
	}

	return embedded, failed
}
