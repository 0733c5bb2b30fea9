package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/confab-labs/confab-cli/internal/core/domain"
	"github.com/confab-labs/confab-cli/internal/core/ports/driven"
	"github.com/confab-labs/confab-cli/internal/logger"
)

// Ensure ConversationStore implements the interface.
var _ driven.ConversationStore = (*ConversationStore)(nil)

// ConversationStore is a JSON file-backed implementation of
// driven.ConversationStore. Each conversation lives in its own file
// under the store directory.
type ConversationStore struct {
	dir string
}

// NewConversationStore creates a conversation store rooted at dir.
func NewConversationStore(dir string) *ConversationStore {
	return &ConversationStore{dir: dir}
}

// Save stores or updates a conversation under its name.
func (s *ConversationStore) Save(_ context.Context, conv *domain.Conversation) error {
	return writeJSON(s.filePath(conv.Name), conv)
}

// Get retrieves a conversation by name.
func (s *ConversationStore) Get(_ context.Context, name string) (*domain.Conversation, error) {
	var conv domain.Conversation
	if err := readJSON(s.filePath(name), &conv); err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &conv, nil
}

// List returns summaries of all saved conversations, newest first.
// Unreadable files are skipped with a warning.
func (s *ConversationStore) List(_ context.Context) ([]domain.ConversationSummary, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, err
	}

	out := make([]domain.ConversationSummary, 0, len(paths))
	for _, path := range paths {
		var conv domain.Conversation
		if err := readJSON(path, &conv); err != nil {
			logger.Warn("skipping unreadable conversation file %s: %v", path, err)
			continue
		}
		out = append(out, domain.ConversationSummary{
			Name:         conv.Name,
			Model:        conv.Model,
			MessageCount: len(conv.Messages),
			UpdatedAt:    conv.UpdatedAt,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].Name < out[j].Name
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// Delete removes a saved conversation.
func (s *ConversationStore) Delete(_ context.Context, name string) error {
	err := os.Remove(s.filePath(name))
	if os.IsNotExist(err) {
		return domain.ErrNotFound
	}
	return err
}

// filePath maps a conversation name to its backing file.
func (s *ConversationStore) filePath(name string) string {
	return filepath.Join(s.dir, sanitizeFileName(name)+".json")
}

// sanitizeFileName replaces characters that cannot appear in file
// names. The mapping must be stable so Get finds what Save wrote.
func sanitizeFileName(name string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")
	return replacer.Replace(name)
}
