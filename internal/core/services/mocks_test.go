package services

import (
	"context"
	"errors"
	"time"

	"github.com/confab-labs/confab-cli/internal/core/domain"
	"github.com/confab-labs/confab-cli/internal/core/ports/driven"
)

// mockEmbeddingService returns canned vectors keyed by input text.
type mockEmbeddingService struct {
	vectors    map[string][]float32
	defaultVec []float32
	embedErr   error
	batchErr   error
	failTexts  map[string]bool
	embedCalls int
	batchCalls int
}

var _ driven.EmbeddingService = (*mockEmbeddingService)(nil)

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.embedCalls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if m.failTexts[text] {
		return nil, errors.New("embedding failed")
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return m.defaultVec, nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.batchCalls++
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		if m.failTexts[text] {
			return nil, errors.New("embedding failed")
		}
		v, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		m.embedCalls--
		out = append(out, v)
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int              { return len(m.defaultVec) }
func (m *mockEmbeddingService) ModelName() string            { return "mock-embed" }
func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error                 { return nil }

// mockEntryStore is an in-memory entry store with call tracking.
type mockEntryStore struct {
	entries   []domain.Entry
	allErr    error
	upsertErr error
	saveErr   error
	saveCalls int
}

var _ driven.EntryStore = (*mockEntryStore)(nil)

func (m *mockEntryStore) Upsert(_ context.Context, entries []domain.Entry) (int, int, error) {
	if m.upsertErr != nil {
		return 0, 0, m.upsertErr
	}
	inserted, updated := 0, 0
	for _, entry := range entries {
		replaced := false
		for i := range m.entries {
			if m.entries[i].ID == entry.ID {
				m.entries[i] = entry
				replaced = true
				break
			}
		}
		if replaced {
			updated++
		} else {
			m.entries = append(m.entries, entry)
			inserted++
		}
	}
	return inserted, updated, nil
}

func (m *mockEntryStore) All(_ context.Context) ([]domain.Entry, error) {
	if m.allErr != nil {
		return nil, m.allErr
	}
	return m.entries, nil
}

func (m *mockEntryStore) Stats(_ context.Context) (*domain.StoreStats, error) {
	stats := &domain.StoreStats{
		TotalEntries: len(m.entries),
		ByKind:       make(map[domain.SourceKind]int),
		ByModel:      make(map[string]int),
	}
	sources := make(map[string]bool)
	for _, e := range m.entries {
		stats.ByKind[e.Kind]++
		if e.ModelTag != "" {
			stats.ByModel[e.ModelTag]++
		}
		sources[e.SourceRef] = true
		if e.CreatedAt.After(stats.LastUpdated) {
			stats.LastUpdated = e.CreatedAt
		}
	}
	stats.DistinctSources = len(sources)
	return stats, nil
}

func (m *mockEntryStore) Save(_ context.Context) error {
	m.saveCalls++
	return m.saveErr
}

func (m *mockEntryStore) Load(_ context.Context) error { return nil }

// testTime is a fixed timestamp for deterministic entries.
var testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
