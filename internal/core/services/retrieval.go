package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/confab-labs/confab-cli/internal/core/domain"
	"github.com/confab-labs/confab-cli/internal/core/ports/driven"
	"github.com/confab-labs/confab-cli/internal/core/ports/driving"
	"github.com/confab-labs/confab-cli/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// charsPerToken is the heuristic used to convert the token budget into
// a character budget when assembling context.
const charsPerToken = 4

// RetrievalService ranks stored entries against a query embedding and
// assembles context blocks for chat augmentation.
type RetrievalService struct {
	entryStore       driven.EntryStore
	embeddingService driven.EmbeddingService
	settings         domain.RAGSettings
}

// NewRetrievalService creates a new retrieval service.
// The embeddingService parameter is optional (can be nil); without it
// Search returns an error and AssembleContext returns an empty block.
func NewRetrievalService(
	entryStore driven.EntryStore,
	embeddingService driven.EmbeddingService,
	settings domain.RAGSettings,
) *RetrievalService {
	return &RetrievalService{
		entryStore:       entryStore,
		embeddingService: embeddingService,
		settings:         settings,
	}
}

// Search embeds the query and ranks the store pool by cosine similarity.
func (s *RetrievalService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.RankedEntry, error) {
	logger.Section("Semantic Search")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.RankedEntry{}, nil
	}

	if s.embeddingService == nil {
		return nil, fmt.Errorf("semantic search: %w", domain.ErrEmbeddingUnavailable)
	}

	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = s.settings.Threshold
	}
	topK := opts.TopK
	if topK <= 0 {
		topK = s.settings.ContextCount
	}
	logger.Debug("Threshold: %.2f, TopK: %d", threshold, topK)

	candidates, err := s.candidatePool(ctx, opts)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		logger.Debug("Empty candidate pool, returning no results")
		return []domain.RankedEntry{}, nil
	}
	logger.Debug("Candidate pool: %d entries", len(candidates))

	queryVector, err := s.embeddingService.Embed(ctx, query)
	if err != nil {
		logger.Warn("Query embedding failed: %v", err)
		return nil, fmt.Errorf("embed query: %w", err)
	}
	logger.Debug("Query embedding: %d dimensions", len(queryVector))

	ranked := rankEntries(queryVector, candidates, threshold, topK)
	logger.Info("Search results: %d above threshold", len(ranked))

	return ranked, nil
}

// AssembleContext builds the retrieval-augmentation block for a chat
// turn. It never returns an error: if the store is empty, the embedding
// provider fails, or nothing clears the threshold, the block is empty
// and the chat turn proceeds without augmentation.
func (s *RetrievalService) AssembleContext(
	ctx context.Context, query string, opts domain.SearchOptions,
) domain.ContextBlock {
	ranked, err := s.Search(ctx, query, opts)
	if err != nil {
		logger.Warn("Context retrieval failed, continuing without context: %v", err)
		return domain.ContextBlock{}
	}
	if len(ranked) == 0 {
		return domain.ContextBlock{}
	}

	budget := s.settings.MaxContextTokens * charsPerToken
	block := assembleBlock(ranked, budget)

	if block.Empty() {
		logger.Debug("Context assembly: nothing fit the budget")
	} else {
		logger.Info("Context assembled: %d snippets, %d skipped, %d chars",
			len(block.Used), block.Skipped, len(block.Text))
	}

	return block
}

// candidatePool loads the store and applies the kind and source
// filters before any scoring happens.
func (s *RetrievalService) candidatePool(
	ctx context.Context, opts domain.SearchOptions,
) ([]domain.Entry, error) {
	entries, err := s.entryStore.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}

	if opts.Kind == "" && opts.SourceRef == "" {
		return entries, nil
	}

	filtered := make([]domain.Entry, 0, len(entries))
	for _, entry := range entries {
		if opts.Kind != "" && entry.Kind != opts.Kind {
			continue
		}
		if opts.SourceRef != "" && entry.SourceRef != opts.SourceRef {
			continue
		}
		filtered = append(filtered, entry)
	}

	return filtered, nil
}

// assembleBlock formats ranked entries into a labelled context block,
// including whole snippets in rank order until the character budget is
// exhausted. A snippet is never truncated: if it does not fit, it is
// skipped and counted, and lower-ranked snippets still get a chance.
func assembleBlock(ranked []domain.RankedEntry, budget int) domain.ContextBlock {
	const header = "Relevant context from previous conversations and documents:\n\n"

	var b strings.Builder
	var used []domain.RankedEntry
	skipped := 0
	remaining := budget - len(header)

	for _, r := range ranked {
		snippet := formatSnippet(r)
		if len(snippet) > remaining {
			skipped++
			continue
		}
		b.WriteString(snippet)
		remaining -= len(snippet)
		used = append(used, r)
	}

	if len(used) == 0 {
		return domain.ContextBlock{Skipped: skipped}
	}

	return domain.ContextBlock{
		Text:    header + b.String(),
		Used:    used,
		Skipped: skipped,
	}
}

// formatSnippet renders one ranked entry with its provenance label.
func formatSnippet(r domain.RankedEntry) string {
	var b strings.Builder

	switch r.Entry.Kind {
	case domain.SourceKnowledgeBase:
		title := r.Entry.Title
		if title == "" {
			title = r.Entry.SourceRef
		}
		fmt.Fprintf(&b, "[From document %q, relevance %.2f]\n%s\n\n", title, r.Score, r.Entry.Text)
	default:
		fmt.Fprintf(&b, "[From conversation %q, relevance %.2f]\n%s\n\n",
			r.Entry.SourceRef, r.Score, r.Entry.CombinedText())
	}

	return b.String()
}
