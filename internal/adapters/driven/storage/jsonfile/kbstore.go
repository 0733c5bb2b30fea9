package jsonfile

import (
	"context"
	"os"
	"sort"
	"sync"

	"github.com/confab-labs/confab-cli/internal/core/domain"
	"github.com/confab-labs/confab-cli/internal/core/ports/driven"
	"github.com/confab-labs/confab-cli/internal/logger"
)

// Ensure KnowledgeStore implements the interface.
var _ driven.KnowledgeStore = (*KnowledgeStore)(nil)

// kbFile is the on-disk layout of the knowledge base.
type kbFile struct {
	Collections map[string]domain.Collection `json:"collections"`
	Documents   map[string]domain.Document   `json:"documents"`
}

// KnowledgeStore is a JSON file-backed implementation of
// driven.KnowledgeStore. Every mutation persists immediately.
type KnowledgeStore struct {
	mu          sync.RWMutex
	path        string
	collections map[string]domain.Collection
	documents   map[string]domain.Document
}

// NewKnowledgeStore creates a knowledge store backed by the given file
// and loads any previously persisted state. A missing or corrupt file
// yields an empty store.
func NewKnowledgeStore(path string) *KnowledgeStore {
	s := &KnowledgeStore{
		path:        path,
		collections: make(map[string]domain.Collection),
		documents:   make(map[string]domain.Document),
	}

	var file kbFile
	if err := readJSON(path, &file); err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("knowledge base at %s unreadable, starting empty: %v", path, err)
		}
		return s
	}

	if file.Collections != nil {
		s.collections = file.Collections
	}
	if file.Documents != nil {
		s.documents = file.Documents
	}
	return s
}

// SaveCollection stores or updates a collection.
func (s *KnowledgeStore) SaveCollection(_ context.Context, c *domain.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.collections[c.Name] = *c
	return s.save()
}

// GetCollection retrieves a collection by name.
func (s *KnowledgeStore) GetCollection(_ context.Context, name string) (*domain.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

// ListCollections returns all collections sorted by name.
func (s *KnowledgeStore) ListCollections(_ context.Context) ([]domain.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Collection, 0, len(s.collections))
	for _, c := range s.collections {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// SaveDocument stores or updates a document.
func (s *KnowledgeStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.documents[doc.ID] = *doc
	return s.save()
}

// GetDocument retrieves a document by ID.
func (s *KnowledgeStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListDocuments returns documents sorted by creation time, newest
// first, filtered to a collection when collection is non-empty.
func (s *KnowledgeStore) ListDocuments(_ context.Context, collection string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Document, 0, len(s.documents))
	for _, doc := range s.documents {
		if collection != "" && doc.Collection != collection {
			continue
		}
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// DeleteDocument removes a document and its collection back-reference.
func (s *KnowledgeStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(s.documents, id)

	if c, ok := s.collections[doc.Collection]; ok {
		kept := c.DocumentIDs[:0]
		for _, docID := range c.DocumentIDs {
			if docID != id {
				kept = append(kept, docID)
			}
		}
		c.DocumentIDs = kept
		s.collections[doc.Collection] = c
	}

	return s.save()
}

// save writes the store to disk (caller must hold lock).
func (s *KnowledgeStore) save() error {
	return writeJSON(s.path, kbFile{
		Collections: s.collections,
		Documents:   s.documents,
	})
}
