package driving

import (
	"context"

	"github.com/confab-labs/confab-cli/internal/chunker"
	"github.com/confab-labs/confab-cli/internal/core/domain"
)

// KnowledgeService manages knowledge base collections and documents.
type KnowledgeService interface {
	// CreateCollection creates a named collection.
	CreateCollection(ctx context.Context, name, description string) (*domain.Collection, error)

	// ListCollections returns all collections.
	ListCollections(ctx context.Context) ([]domain.Collection, error)

	// AddDocument parses, chunks and stores a file in a collection.
	// An empty title defaults to the file stem.
	AddDocument(ctx context.Context, path, collection, title string, strategy chunker.Strategy) (*domain.Document, error)

	// ListDocuments returns documents, optionally filtered by collection.
	ListDocuments(ctx context.Context, collection string) ([]domain.Document, error)

	// CollectionStats summarises one collection.
	CollectionStats(ctx context.Context, name string) (*domain.CollectionStats, error)

	// Stats summarises the whole knowledge base.
	Stats(ctx context.Context) (*domain.KnowledgeBaseStats, error)

	// Watch monitors a directory and adds supported files to the
	// collection as they are created or modified. Blocks until the
	// context is cancelled.
	Watch(ctx context.Context, dir, collection string, strategy chunker.Strategy) error
}

// BatchService creates and runs batch prompt jobs.
type BatchService interface {
	// Create builds a pending job from a prompt list.
	Create(ctx context.Context, name, model, systemPrompt string, prompts []string) (*domain.BatchJob, error)

	// CreateFromFile builds a job from a file with one prompt per line.
	CreateFromFile(ctx context.Context, name, model, systemPrompt, path string) (*domain.BatchJob, error)

	// Run processes every pending prompt sequentially. Per-prompt
	// failures are recorded and the job continues.
	Run(ctx context.Context, name string) (*domain.BatchJob, error)

	// Get retrieves a job by name.
	Get(ctx context.Context, name string) (*domain.BatchJob, error)

	// List returns all jobs, newest first.
	List(ctx context.Context) ([]domain.BatchJob, error)
}
