package jsonfile

import (
	"context"
	"os"
	"sync"

	"github.com/confab-labs/confab-cli/internal/core/domain"
	"github.com/confab-labs/confab-cli/internal/core/ports/driven"
	"github.com/confab-labs/confab-cli/internal/logger"
)

// Ensure FeedbackStore implements the interface.
var _ driven.FeedbackStore = (*FeedbackStore)(nil)

// FeedbackStore is a JSON file-backed implementation of
// driven.FeedbackStore. Records are kept newest first.
type FeedbackStore struct {
	mu      sync.RWMutex
	path    string
	records []domain.Feedback
}

// NewFeedbackStore creates a feedback store backed by the given file
// and loads any previously persisted records.
func NewFeedbackStore(path string) *FeedbackStore {
	s := &FeedbackStore{path: path}

	var loaded []domain.Feedback
	if err := readJSON(path, &loaded); err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("feedback store at %s unreadable, starting empty: %v", path, err)
		}
		return s
	}
	s.records = loaded
	return s
}

// Save stores a feedback record.
func (s *FeedbackStore) Save(_ context.Context, f *domain.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append([]domain.Feedback{*f}, s.records...)
	return writeJSON(s.path, s.records)
}

// List returns all feedback, newest first.
func (s *FeedbackStore) List(_ context.Context) ([]domain.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Feedback, len(s.records))
	copy(out, s.records)
	return out, nil
}
