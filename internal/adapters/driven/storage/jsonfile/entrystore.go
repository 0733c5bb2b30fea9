package jsonfile

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/confab-labs/confab-cli/internal/core/domain"
	"github.com/confab-labs/confab-cli/internal/core/ports/driven"
	"github.com/confab-labs/confab-cli/internal/logger"
)

// Ensure EntryStore implements the interface.
var _ driven.EntryStore = (*EntryStore)(nil)

// entryFile is the on-disk layout of the vector store.
type entryFile struct {
	Entries     []domain.Entry `json:"entries"`
	LastUpdated time.Time      `json:"last_updated"`
}

// EntryStore is a JSON file-backed implementation of driven.EntryStore.
// All entries are held in memory; Save rewrites the file atomically.
type EntryStore struct {
	mu          sync.RWMutex
	path        string
	entries     []domain.Entry
	index       map[string]int
	lastUpdated time.Time
	now         func() time.Time
}

// NewEntryStore creates an entry store backed by the given file.
// Call Load to restore previously persisted entries.
func NewEntryStore(path string) *EntryStore {
	return &EntryStore{
		path:  path,
		index: make(map[string]int),
		now:   time.Now,
	}
}

// Upsert inserts or replaces entries matched by ID, preserving
// insertion order for existing entries.
func (s *EntryStore) Upsert(_ context.Context, entries []domain.Entry) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var inserted, updated int
	for _, e := range entries {
		if pos, ok := s.index[e.ID]; ok {
			s.entries[pos] = e
			updated++
			continue
		}
		s.index[e.ID] = len(s.entries)
		s.entries = append(s.entries, e)
		inserted++
	}

	if inserted+updated > 0 {
		s.lastUpdated = s.now()
	}
	return inserted, updated, nil
}

// All returns every entry in insertion order.
func (s *EntryStore) All(_ context.Context) ([]domain.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Entry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

// Stats summarises the store contents.
func (s *EntryStore) Stats(_ context.Context) (*domain.StoreStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &domain.StoreStats{
		TotalEntries: len(s.entries),
		ByKind:       make(map[domain.SourceKind]int),
		ByModel:      make(map[string]int),
		LastUpdated:  s.lastUpdated,
	}

	sources := make(map[string]struct{})
	for _, e := range s.entries {
		stats.ByKind[e.Kind]++
		if e.ModelTag != "" {
			stats.ByModel[e.ModelTag]++
		}
		sources[e.SourceRef] = struct{}{}
	}
	stats.DistinctSources = len(sources)

	return stats, nil
}

// Save persists the store to its backing file.
func (s *EntryStore) Save(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return writeJSON(s.path, entryFile{
		Entries:     s.entries,
		LastUpdated: s.lastUpdated,
	})
}

// Load restores the store from its backing file. A missing or corrupt
// file yields an empty store; the condition is logged, not fatal.
func (s *EntryStore) Load(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var file entryFile
	err := readJSON(s.path, &file)
	switch {
	case os.IsNotExist(err):
		s.reset(nil, time.Time{})
		return nil
	case err != nil:
		logger.Warn("entry store at %s unreadable, starting empty: %v", s.path, err)
		s.reset(nil, time.Time{})
		return nil
	}

	s.reset(file.Entries, file.LastUpdated)
	return nil
}

// reset replaces the in-memory state (caller must hold lock).
func (s *EntryStore) reset(entries []domain.Entry, lastUpdated time.Time) {
	s.entries = entries
	s.index = make(map[string]int, len(entries))
	for i, e := range entries {
		s.index[e.ID] = i
	}
	s.lastUpdated = lastUpdated
}
