package driven

import (
	"context"

	"github.com/confab-labs/confab-cli/internal/core/domain"
)

// KnowledgeStore persists knowledge base collections and documents.
// Deleting a document does not cascade to its store entries; stale
// entries are replaced on the next re-index of the same source.
type KnowledgeStore interface {
	// SaveCollection stores or updates a collection.
	SaveCollection(ctx context.Context, c *domain.Collection) error

	// GetCollection retrieves a collection by name.
	GetCollection(ctx context.Context, name string) (*domain.Collection, error)

	// ListCollections returns all collections sorted by name.
	ListCollections(ctx context.Context) ([]domain.Collection, error)

	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns documents, filtered to a collection when
	// collection is non-empty.
	ListDocuments(ctx context.Context, collection string) ([]domain.Document, error)

	// DeleteDocument removes a document and its collection back-reference.
	DeleteDocument(ctx context.Context, id string) error
}

// ConversationStore persists saved conversations.
type ConversationStore interface {
	// Save stores or updates a conversation under its name.
	Save(ctx context.Context, conv *domain.Conversation) error

	// Get retrieves a conversation by name.
	Get(ctx context.Context, name string) (*domain.Conversation, error)

	// List returns summaries of all saved conversations, newest first.
	List(ctx context.Context) ([]domain.ConversationSummary, error)

	// Delete removes a saved conversation.
	Delete(ctx context.Context, name string) error
}
