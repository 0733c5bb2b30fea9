package driving

import (
	"context"

	"github.com/confab-labs/confab-cli/internal/core/domain"
)

// RetrievalService performs semantic search and context assembly over
// the vector entry store.
type RetrievalService interface {
	// Search embeds the query and ranks the store pool by cosine
	// similarity. Empty store or empty query returns empty results.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.RankedEntry, error)

	// AssembleContext builds the retrieval-augmentation block for a
	// chat turn. Fails closed: on embedding provider error the block
	// is empty and no error is returned, so the chat turn proceeds
	// without augmentation.
	AssembleContext(ctx context.Context, query string, opts domain.SearchOptions) domain.ContextBlock
}

// IndexService writes conversation pairs and KB document chunks into
// the vector entry store.
type IndexService interface {
	// IndexConversation embeds user/assistant pairs and upserts them.
	// Entry IDs are stable across re-indexing of the same conversation.
	IndexConversation(ctx context.Context, conv *domain.Conversation) (*domain.IndexReport, error)

	// IndexDocument embeds document chunks and upserts them, one entry
	// per chunk, then marks the document indexed.
	IndexDocument(ctx context.Context, doc *domain.Document) (*domain.IndexReport, error)

	// Stats summarises the underlying entry store.
	Stats(ctx context.Context) (*domain.StoreStats, error)
}
