package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/confab-labs/confab-cli/internal/chunker"
	"github.com/confab-labs/confab-cli/internal/core/domain"
	"github.com/confab-labs/confab-cli/internal/core/ports/driven"
	"github.com/confab-labs/confab-cli/internal/core/ports/driving"
	"github.com/confab-labs/confab-cli/internal/logger"
)

// Ensure KnowledgeService implements the interface.
var _ driving.KnowledgeService = (*KnowledgeService)(nil)

// DefaultCollection receives documents added without an explicit
// collection.
const DefaultCollection = "default"

// KnowledgeService manages knowledge base collections and documents.
type KnowledgeService struct {
	kbStore  driven.KnowledgeStore
	registry ParserRegistry
	chunker  *chunker.Chunker
	indexer  driving.IndexService
	now      func() time.Time
	newID    func() string
}

// ParserRegistry resolves a parser from a file path.
type ParserRegistry interface {
	ForPath(path string) (driven.Parser, error)
}

// NewKnowledgeService creates a knowledge service.
// The indexer parameter is optional (can be nil); without it documents
// are stored but not embedded, and can be indexed later.
func NewKnowledgeService(
	kbStore driven.KnowledgeStore,
	registry ParserRegistry,
	ch *chunker.Chunker,
	indexer driving.IndexService,
) *KnowledgeService {
	return &KnowledgeService{
		kbStore:  kbStore,
		registry: registry,
		chunker:  ch,
		indexer:  indexer,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// CreateCollection creates a named collection.
func (s *KnowledgeService) CreateCollection(ctx context.Context, name, description string) (*domain.Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty collection name", domain.ErrInvalidInput)
	}

	if existing, err := s.kbStore.GetCollection(ctx, name); err == nil && existing != nil {
		return nil, fmt.Errorf("collection %q: %w", name, domain.ErrAlreadyExists)
	}

	c := &domain.Collection{
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   s.now(),
	}
	if err := s.kbStore.SaveCollection(ctx, c); err != nil {
		return nil, fmt.Errorf("save collection: %w", err)
	}

	logger.Info("Created collection %q", name)
	return c, nil
}

// ListCollections returns all collections.
func (s *KnowledgeService) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	return s.kbStore.ListCollections(ctx)
}

// AddDocument parses, chunks and stores a file in a collection. The
// collection is created on first use; an empty title defaults to the
// file stem. When an indexer is configured the chunks are embedded
// immediately.
func (s *KnowledgeService) AddDocument(
	ctx context.Context, path, collection, title string, strategy chunker.Strategy,
) (*domain.Document, error) {
	logger.Section("Add Document")
	logger.Debug("Path: %s, collection: %s, strategy: %s", path, collection, strategy)

	parser, err := s.registry.ForPath(path)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	text, err := parser.Parse(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	chunks := s.chunker.Chunk(text, strategy)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: document has no extractable text", domain.ErrInvalidInput)
	}
	logger.Debug("Parsed %d chars into %d chunks", len(text), len(chunks))

	if collection == "" {
		collection = DefaultCollection
	}
	if title == "" {
		title = fileStem(path)
	}

	doc := &domain.Document{
		ID:         s.newID(),
		Title:      title,
		Collection: collection,
		Path:       path,
		Chunks:     chunks,
		WordCount:  chunker.WordCount(text),
		CreatedAt:  s.now(),
	}

	if s.indexer != nil {
		report, err := s.indexer.IndexDocument(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("index document: %w", err)
		}
		logger.Debug("Indexed document: %d entries, %d failed", report.Inserted+report.Updated, report.Failed)
	}

	if err := s.kbStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	if err := s.attachToCollection(ctx, doc); err != nil {
		return nil, err
	}

	logger.Info("Added document %q to collection %q (%d chunks)", doc.Title, collection, len(chunks))
	return doc, nil
}

// attachToCollection records the document in its collection, creating
// the collection if needed.
func (s *KnowledgeService) attachToCollection(ctx context.Context, doc *domain.Document) error {
	c, err := s.kbStore.GetCollection(ctx, doc.Collection)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("get collection: %w", err)
		}
		c = &domain.Collection{Name: doc.Collection, CreatedAt: s.now()}
	}

	for _, id := range c.DocumentIDs {
		if id == doc.ID {
			return nil
		}
	}
	c.DocumentIDs = append(c.DocumentIDs, doc.ID)

	if err := s.kbStore.SaveCollection(ctx, c); err != nil {
		return fmt.Errorf("save collection: %w", err)
	}
	return nil
}

// ListDocuments returns documents, optionally filtered by collection.
func (s *KnowledgeService) ListDocuments(ctx context.Context, collection string) ([]domain.Document, error) {
	return s.kbStore.ListDocuments(ctx, collection)
}

// CollectionStats summarises one collection.
func (s *KnowledgeService) CollectionStats(ctx context.Context, name string) (*domain.CollectionStats, error) {
	c, err := s.kbStore.GetCollection(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get collection: %w", err)
	}

	docs, err := s.kbStore.ListDocuments(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	stats := &domain.CollectionStats{
		Name:        c.Name,
		Description: c.Description,
		Documents:   len(docs),
		CreatedAt:   c.CreatedAt,
	}
	for _, doc := range docs {
		stats.TotalChunks += doc.ChunkCount()
		stats.TotalWords += doc.WordCount
		if doc.Indexed {
			stats.IndexedDocuments++
		}
	}
	return stats, nil
}

// Stats summarises the whole knowledge base.
func (s *KnowledgeService) Stats(ctx context.Context) (*domain.KnowledgeBaseStats, error) {
	collections, err := s.kbStore.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	docs, err := s.kbStore.ListDocuments(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	stats := &domain.KnowledgeBaseStats{
		Collections: len(collections),
		Documents:   len(docs),
	}
	for _, doc := range docs {
		stats.TotalChunks += doc.ChunkCount()
		stats.TotalWords += doc.WordCount
		if doc.Indexed {
			stats.IndexedDocuments++
		}
		if doc.CreatedAt.After(stats.LastUpdated) {
			stats.LastUpdated = doc.CreatedAt
		}
	}
	return stats, nil
}

// Watch monitors a directory and adds supported files to the
// collection as they are created or modified. Blocks until the context
// is cancelled.
func (s *KnowledgeService) Watch(ctx context.Context, dir, collection string, strategy chunker.Strategy) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	logger.Info("Watching %s for new documents", dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if path := s.eventPath(event); path != "" {
				if _, err := s.AddDocument(ctx, path, collection, "", strategy); err != nil {
					logger.Warn("Watch: failed to add %s: %v", filepath.Base(path), err)
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)
		}
	}
}

// eventPath returns the file to ingest for an event, or empty when the
// event should be ignored (non-write ops, directories, hidden files,
// unsupported formats).
func (s *KnowledgeService) eventPath(event fsnotify.Event) string {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return ""
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return ""
	}

	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return ""
	}

	if _, err := s.registry.ForPath(event.Name); err != nil {
		logger.Debug("Watch: skipping %s (%v)", filepath.Base(event.Name), err)
		return ""
	}
	return event.Name
}

// fileStem returns the file name without its extension, with
// underscores and dashes turned into spaces.
func fileStem(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return name
}
