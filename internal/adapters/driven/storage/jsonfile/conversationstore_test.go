package jsonfile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confab-labs/confab-cli/internal/core/domain"
)

func testConversation(name string, updatedAt time.Time) *domain.Conversation {
	return &domain.Conversation{
		Name:  name,
		Model: "gpt-4o-mini",
		Messages: []domain.Message{
			{Role: domain.RoleUser, Content: "hello"},
			{Role: domain.RoleAssistant, Content: "hi there"},
		},
		UpdatedAt: updatedAt,
	}
}

func TestConversationStoreSaveAndGet(t *testing.T) {
	store := NewConversationStore(t.TempDir())

	require.NoError(t, store.Save(context.Background(), testConversation("notes", time.Now())))

	got, err := store.Get(context.Background(), "notes")
	require.NoError(t, err)
	assert.Equal(t, "notes", got.Name)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "hi there", got.Messages[1].Content)
}

func TestConversationStoreGetMissing(t *testing.T) {
	store := NewConversationStore(t.TempDir())

	_, err := store.Get(context.Background(), "nope")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConversationStoreListNewestFirst(t *testing.T) {
	store := NewConversationStore(t.TempDir())
	now := time.Now()

	require.NoError(t, store.Save(context.Background(), testConversation("older", now.Add(-time.Hour))))
	require.NoError(t, store.Save(context.Background(), testConversation("newer", now)))

	list, err := store.List(context.Background())

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "newer", list[0].Name)
	assert.Equal(t, 2, list[0].MessageCount)
	assert.Equal(t, "older", list[1].Name)
}

func TestConversationStoreDelete(t *testing.T) {
	store := NewConversationStore(t.TempDir())

	require.NoError(t, store.Save(context.Background(), testConversation("notes", time.Now())))
	require.NoError(t, store.Delete(context.Background(), "notes"))

	_, err := store.Get(context.Background(), "notes")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = store.Delete(context.Background(), "notes")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConversationStoreSanitizesNames(t *testing.T) {
	store := NewConversationStore(t.TempDir())

	require.NoError(t, store.Save(context.Background(), testConversation("work/project: alpha", time.Now())))

	got, err := store.Get(context.Background(), "work/project: alpha")
	require.NoError(t, err)
	assert.Equal(t, "work/project: alpha", got.Name)
}
