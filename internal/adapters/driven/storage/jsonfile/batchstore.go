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

// Ensure BatchStore implements the interface.
var _ driven.BatchStore = (*BatchStore)(nil)

// BatchStore is a JSON file-backed implementation of driven.BatchStore.
// Each job lives in its own file so a long run can checkpoint after
// every prompt without rewriting unrelated jobs.
type BatchStore struct {
	dir string
}

// NewBatchStore creates a batch job store rooted at dir.
func NewBatchStore(dir string) *BatchStore {
	return &BatchStore{dir: dir}
}

// Save stores or updates a job under its name.
func (s *BatchStore) Save(_ context.Context, job *domain.BatchJob) error {
	return writeJSON(s.filePath(job.Name), job)
}

// Get retrieves a job by name.
func (s *BatchStore) Get(_ context.Context, name string) (*domain.BatchJob, error) {
	var job domain.BatchJob
	if err := readJSON(s.filePath(name), &job); err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

// List returns all jobs, newest first.
func (s *BatchStore) List(_ context.Context) ([]domain.BatchJob, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, err
	}

	out := make([]domain.BatchJob, 0, len(paths))
	for _, path := range paths {
		var job domain.BatchJob
		if err := readJSON(path, &job); err != nil {
			logger.Warn("skipping unreadable batch job file %s: %v", path, err)
			continue
		}
		out = append(out, job)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Name < out[j].Name
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Delete removes a job.
func (s *BatchStore) Delete(_ context.Context, name string) error {
	err := os.Remove(s.filePath(name))
	if os.IsNotExist(err) {
		return domain.ErrNotFound
	}
	return err
}

func (s *BatchStore) filePath(name string) string {
	return filepath.Join(s.dir, sanitizeFileName(name)+".json")
}
