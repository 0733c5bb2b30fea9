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

// Ensure PromptLibrary implements the interface.
var _ driven.PromptLibrary = (*PromptLibrary)(nil)

// libraryFile is the on-disk layout of the image prompt library.
type libraryFile struct {
	Prompts map[string]domain.SavedPrompt `json:"prompts"`
	Images  []domain.ImageRecord          `json:"images"`
}

// PromptLibrary is a JSON file-backed implementation of
// driven.PromptLibrary. Saved prompts and generation records share one
// file.
type PromptLibrary struct {
	mu      sync.RWMutex
	path    string
	prompts map[string]domain.SavedPrompt
	images  []domain.ImageRecord
}

// NewPromptLibrary creates a prompt library backed by the given file
// and loads any previously persisted state.
func NewPromptLibrary(path string) *PromptLibrary {
	s := &PromptLibrary{
		path:    path,
		prompts: make(map[string]domain.SavedPrompt),
	}

	var file libraryFile
	if err := readJSON(path, &file); err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("prompt library at %s unreadable, starting empty: %v", path, err)
		}
		return s
	}
	if file.Prompts != nil {
		s.prompts = file.Prompts
	}
	s.images = file.Images
	return s
}

// SavePrompt stores or updates a named prompt.
func (s *PromptLibrary) SavePrompt(_ context.Context, p *domain.SavedPrompt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prompts[p.Name] = *p
	return s.save()
}

// GetPrompt retrieves a named prompt.
func (s *PromptLibrary) GetPrompt(_ context.Context, name string) (*domain.SavedPrompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.prompts[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

// ListPrompts returns all saved prompts sorted by name.
func (s *PromptLibrary) ListPrompts(_ context.Context) ([]domain.SavedPrompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.SavedPrompt, 0, len(s.prompts))
	for _, p := range s.prompts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// RecordImage appends a generation record.
func (s *PromptLibrary) RecordImage(_ context.Context, rec *domain.ImageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.images = append([]domain.ImageRecord{*rec}, s.images...)
	return s.save()
}

// ListImages returns all generation records, newest first.
func (s *PromptLibrary) ListImages(_ context.Context) ([]domain.ImageRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ImageRecord, len(s.images))
	copy(out, s.images)
	return out, nil
}

// save writes the library to disk (caller must hold lock).
func (s *PromptLibrary) save() error {
	return writeJSON(s.path, libraryFile{
		Prompts: s.prompts,
		Images:  s.images,
	})
}
