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

// Ensure TemplateStore implements the interface.
var _ driven.TemplateStore = (*TemplateStore)(nil)

// TemplateStore is a JSON file-backed implementation of
// driven.TemplateStore. All custom templates share one file.
type TemplateStore struct {
	mu        sync.RWMutex
	path      string
	templates map[string]domain.Template
}

// NewTemplateStore creates a template store backed by the given file
// and loads any previously persisted templates.
func NewTemplateStore(path string) *TemplateStore {
	s := &TemplateStore{
		path:      path,
		templates: make(map[string]domain.Template),
	}

	var loaded map[string]domain.Template
	if err := readJSON(path, &loaded); err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("template store at %s unreadable, starting empty: %v", path, err)
		}
		return s
	}
	if loaded != nil {
		s.templates = loaded
	}
	return s
}

// Save stores or updates a custom template.
func (s *TemplateStore) Save(_ context.Context, t *domain.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.templates[t.ID] = *t
	return writeJSON(s.path, s.templates)
}

// Get retrieves a custom template by ID.
func (s *TemplateStore) Get(_ context.Context, id string) (*domain.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.templates[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

// List returns all custom templates sorted by ID.
func (s *TemplateStore) List(_ context.Context) ([]domain.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Template, 0, len(s.templates))
	for _, t := range s.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Delete removes a custom template.
func (s *TemplateStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.templates[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.templates, id)
	return writeJSON(s.path, s.templates)
}
