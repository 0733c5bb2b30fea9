package driven

import (
	"context"

	"github.com/confab-labs/confab-cli/internal/core/domain"
)

// EntryStore is the durable, queryable collection of embedded entries.
// The full store is held in memory and persisted after every mutation
// batch; a failed save must never corrupt the previous persisted state.
type EntryStore interface {
	// Upsert inserts or replaces entries matched by ID. Unrelated
	// entries are never removed. Returns counts of inserted and
	// updated entries.
	Upsert(ctx context.Context, entries []domain.Entry) (inserted, updated int, err error)

	// All returns every entry in insertion order. An empty store
	// returns an empty slice, not an error.
	All(ctx context.Context) ([]domain.Entry, error)

	// Stats summarises the store contents.
	Stats(ctx context.Context) (*domain.StoreStats, error)

	// Save persists the store to durable storage.
	Save(ctx context.Context) error

	// Load restores the store from durable storage. A missing or
	// corrupt resource yields an empty store and a nil error; the
	// condition is logged, never fatal.
	Load(ctx context.Context) error
}
