package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confab-labs/confab-cli/internal/core/domain"
)

func newTestUsageStore(t *testing.T) *UsageStore {
	t.Helper()
	store, err := NewUsageStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func record(model string, prompt, completion int, cost float64, at time.Time) *domain.RequestRecord {
	return &domain.RequestRecord{
		Model:            model,
		PromptTokens:     prompt,
		CompletionTokens: completion,
		Cost:             cost,
		CreatedAt:        at,
	}
}

func TestUsageStoreRecordAndSummary(t *testing.T) {
	store := newTestUsageStore(t)
	now := time.Now().UTC()

	require.NoError(t, store.Record(context.Background(), record("gpt-4o-mini", 100, 50, 0.001, now)))
	require.NoError(t, store.Record(context.Background(), record("gpt-4o-mini", 200, 100, 0.002, now)))
	require.NoError(t, store.Record(context.Background(), record("gpt-4o", 300, 150, 0.01, now)))

	summary, err := store.Summary(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalRequests)
	assert.Equal(t, 900, summary.TotalTokens)
	assert.InDelta(t, 0.013, summary.TotalCost, 1e-9)
	assert.Equal(t, 300, summary.AvgTokensPerCall)

	// Highest cost model first.
	require.Len(t, summary.ByModel, 2)
	assert.Equal(t, "gpt-4o", summary.ByModel[0].Model)
	assert.Equal(t, 1, summary.ByModel[0].Requests)
	assert.Equal(t, "gpt-4o-mini", summary.ByModel[1].Model)
	assert.Equal(t, 2, summary.ByModel[1].Requests)
	assert.Equal(t, 450, summary.ByModel[1].Tokens)
}

func TestUsageStoreSummaryEmpty(t *testing.T) {
	store := newTestUsageStore(t)

	summary, err := store.Summary(context.Background(), 0)

	require.NoError(t, err)
	assert.Zero(t, summary.TotalRequests)
	assert.Zero(t, summary.AvgTokensPerCall)
	assert.Empty(t, summary.ByModel)
	assert.Empty(t, summary.ByDay)
}

func TestUsageStoreSummaryByDay(t *testing.T) {
	store := newTestUsageStore(t)
	now := time.Now().UTC()
	yesterday := now.AddDate(0, 0, -1)

	require.NoError(t, store.Record(context.Background(), record("m", 10, 10, 0.001, yesterday)))
	require.NoError(t, store.Record(context.Background(), record("m", 10, 10, 0.001, now)))
	require.NoError(t, store.Record(context.Background(), record("m", 10, 10, 0.001, now)))

	summary, err := store.Summary(context.Background(), 0)

	require.NoError(t, err)
	require.Len(t, summary.ByDay, 2)
	// Newest day first.
	assert.Equal(t, now.Format("2006-01-02"), summary.ByDay[0].Date)
	assert.Equal(t, 2, summary.ByDay[0].Requests)
	assert.Equal(t, 1, summary.ByDay[1].Requests)
}

func TestUsageStoreSummaryRecentDaysBoundsBreakdown(t *testing.T) {
	store := newTestUsageStore(t)
	now := time.Now().UTC()
	old := now.AddDate(0, 0, -30)

	require.NoError(t, store.Record(context.Background(), record("m", 10, 10, 0.001, old)))
	require.NoError(t, store.Record(context.Background(), record("m", 10, 10, 0.001, now)))

	summary, err := store.Summary(context.Background(), 7)

	require.NoError(t, err)
	// Totals still cover everything.
	assert.Equal(t, 2, summary.TotalRequests)
	// The per-day breakdown only covers the window.
	require.Len(t, summary.ByDay, 1)
	assert.Equal(t, now.Format("2006-01-02"), summary.ByDay[0].Date)
}

func TestUsageStoreRecent(t *testing.T) {
	store := newTestUsageStore(t)
	now := time.Now().UTC()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(context.Background(),
			record("m", 10*(i+1), 5, 0.001, now.Add(time.Duration(i)*time.Minute))))
	}

	recent, err := store.Recent(context.Background(), 3)

	require.NoError(t, err)
	require.Len(t, recent, 3)
	// Newest first.
	assert.Equal(t, 50, recent[0].PromptTokens)
	assert.Equal(t, 40, recent[1].PromptTokens)
	assert.Equal(t, 30, recent[2].PromptTokens)
}

func TestUsageStorePersistsAcrossOpens(t *testing.T) {
	dir := t.TempDir()

	store, err := NewUsageStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Record(context.Background(), record("m", 10, 5, 0.001, time.Now().UTC())))
	require.NoError(t, store.Close())

	reopened, err := NewUsageStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	summary, err := reopened.Summary(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalRequests)
}
