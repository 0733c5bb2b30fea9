package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/confab-labs/confab-cli/internal/core/domain"
	"github.com/confab-labs/confab-cli/internal/core/ports/driven"
	"github.com/confab-labs/confab-cli/internal/logger"
)

// Ensure ProfileStore implements the interface.
var _ driven.ProfileStore = (*ProfileStore)(nil)

// ProfileStore is a JSON file-backed implementation of
// driven.ProfileStore. Each profile lives in its own file under the
// store directory.
type ProfileStore struct {
	dir string
}

// NewProfileStore creates a profile store rooted at dir.
func NewProfileStore(dir string) *ProfileStore {
	return &ProfileStore{dir: dir}
}

// Save stores or updates a profile under its name.
func (s *ProfileStore) Save(_ context.Context, p *domain.Profile) error {
	return writeJSON(s.filePath(p.Name), p)
}

// Get retrieves a profile by name.
func (s *ProfileStore) Get(_ context.Context, name string) (*domain.Profile, error) {
	var p domain.Profile
	if err := readJSON(s.filePath(name), &p); err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns all profiles sorted by name.
func (s *ProfileStore) List(_ context.Context) ([]domain.Profile, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, err
	}

	out := make([]domain.Profile, 0, len(paths))
	for _, path := range paths {
		var p domain.Profile
		if err := readJSON(path, &p); err != nil {
			logger.Warn("skipping unreadable profile file %s: %v", path, err)
			continue
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete removes a profile.
func (s *ProfileStore) Delete(_ context.Context, name string) error {
	err := os.Remove(s.filePath(name))
	if os.IsNotExist(err) {
		return domain.ErrNotFound
	}
	return err
}

func (s *ProfileStore) filePath(name string) string {
	return filepath.Join(s.dir, sanitizeFileName(name)+".json")
}
