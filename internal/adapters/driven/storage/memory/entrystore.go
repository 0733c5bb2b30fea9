package memory

import (
	"context"
	"sync"
	"time"

	"github.com/confab-labs/confab-cli/internal/core/domain"
	"github.com/confab-labs/confab-cli/internal/core/ports/driven"
)

// Ensure EntryStore implements the interface.
var _ driven.EntryStore = (*EntryStore)(nil)

// EntryStore is an in-memory implementation of driven.EntryStore.
// Save and Load are no-ops; nothing survives the process.
type EntryStore struct {
	mu          sync.RWMutex
	entries     []domain.Entry
	index       map[string]int
	lastUpdated time.Time
}

// NewEntryStore creates a new in-memory entry store.
func NewEntryStore() *EntryStore {
	return &EntryStore{
		index: make(map[string]int),
	}
}

// Upsert inserts or replaces entries matched by ID.
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
		s.lastUpdated = time.Now()
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

// Save is a no-op.
func (s *EntryStore) Save(_ context.Context) error { return nil }

// Load is a no-op.
func (s *EntryStore) Load(_ context.Context) error { return nil }
