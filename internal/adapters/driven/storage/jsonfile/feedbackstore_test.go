package jsonfile

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confab-labs/confab-cli/internal/core/domain"
)

func TestFeedbackStoreSaveAndList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedback.json")
	store := NewFeedbackStore(path)

	require.NoError(t, store.Save(context.Background(), &domain.Feedback{ID: "f1", Rating: 4}))
	require.NoError(t, store.Save(context.Background(), &domain.Feedback{ID: "f2", Rating: 2, Flag: domain.FlagAccuracy}))

	list, err := store.List(context.Background())

	require.NoError(t, err)
	require.Len(t, list, 2)
	// Newest first.
	assert.Equal(t, "f2", list[0].ID)
	assert.Equal(t, "f1", list[1].ID)
}

func TestFeedbackStorePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedback.json")

	store := NewFeedbackStore(path)
	require.NoError(t, store.Save(context.Background(), &domain.Feedback{ID: "f1", Rating: 5, Notes: "great"}))

	reopened := NewFeedbackStore(path)
	list, err := reopened.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "great", list[0].Notes)
}

func TestFeedbackStoreEmpty(t *testing.T) {
	store := NewFeedbackStore(filepath.Join(t.TempDir(), "feedback.json"))

	list, err := store.List(context.Background())

	require.NoError(t, err)
	assert.Empty(t, list)
}
