package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confab-labs/confab-cli/internal/core/domain"
	"github.com/confab-labs/confab-cli/internal/core/ports/driven"
)

// mockBatchStore is an in-memory batch job store.
type mockBatchStore struct {
	jobs map[string]domain.BatchJob
}

var _ driven.BatchStore = (*mockBatchStore)(nil)

func newMockBatchStore() *mockBatchStore {
	return &mockBatchStore{jobs: make(map[string]domain.BatchJob)}
}

func (m *mockBatchStore) Save(_ context.Context, job *domain.BatchJob) error {
	m.jobs[job.Name] = *job
	return nil
}

func (m *mockBatchStore) Get(_ context.Context, name string) (*domain.BatchJob, error) {
	job, ok := m.jobs[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &job, nil
}

func (m *mockBatchStore) List(_ context.Context) ([]domain.BatchJob, error) {
	out := make([]domain.BatchJob, 0, len(m.jobs))
	for _, job := range m.jobs {
		out = append(out, job)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockBatchStore) Delete(_ context.Context, name string) error {
	if _, ok := m.jobs[name]; !ok {
		return domain.ErrNotFound
	}
	delete(m.jobs, name)
	return nil
}

// flakyLLM fails Generate for prompts containing a marker.
type flakyLLM struct {
	mockLLMService
	failOn string
	calls  []string
}

func (f *flakyLLM) Generate(_ context.Context, prompt string, _ driven.ChatOptions) (*driven.ChatResult, error) {
	f.calls = append(f.calls, prompt)
	if f.failOn != "" && strings.Contains(prompt, f.failOn) {
		return nil, errors.New("provider error")
	}
	return &driven.ChatResult{Content: "reply to: " + prompt, Model: "gpt-4o-mini"}, nil
}

func TestBatchCreate(t *testing.T) {
	store := newMockBatchStore()
	svc := NewBatchService(store, &mockLLMService{})

	job, err := svc.Create(context.Background(), "greetings", "gpt-4o-mini", "Be brief.",
		[]string{"say hi", "  ", "say bye"})

	require.NoError(t, err)
	assert.Equal(t, "greetings", job.Name)
	require.Len(t, job.Prompts, 2)
	assert.Equal(t, "greetings_0", job.Prompts[0].ID)
	assert.Equal(t, domain.BatchPending, job.Prompts[0].Status)
	assert.Contains(t, store.jobs, "greetings")
}

func TestBatchCreate_Duplicate(t *testing.T) {
	svc := NewBatchService(newMockBatchStore(), &mockLLMService{})

	_, err := svc.Create(context.Background(), "job", "m", "", []string{"p"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "job", "m", "", []string{"p"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestBatchCreate_NoPrompts(t *testing.T) {
	svc := NewBatchService(newMockBatchStore(), &mockLLMService{})

	_, err := svc.Create(context.Background(), "job", "m", "", []string{"  ", ""})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBatchCreateFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.txt")
	content := "# comment line\nfirst prompt\n\nsecond prompt\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	svc := NewBatchService(newMockBatchStore(), &mockLLMService{})
	job, err := svc.CreateFromFile(context.Background(), "from-file", "gpt-4o-mini", "", path)

	require.NoError(t, err)
	require.Len(t, job.Prompts, 2)
	assert.Equal(t, "first prompt", job.Prompts[0].Text)
	assert.Equal(t, "second prompt", job.Prompts[1].Text)
}

func TestBatchRun(t *testing.T) {
	store := newMockBatchStore()
	llm := &flakyLLM{}
	svc := NewBatchService(store, llm)

	_, err := svc.Create(context.Background(), "job", "gpt-4o-mini", "Be brief.", []string{"one", "two"})
	require.NoError(t, err)

	job, err := svc.Run(context.Background(), "job")

	require.NoError(t, err)
	assert.True(t, job.Done())
	assert.False(t, job.CompletedAt.IsZero())
	for _, p := range job.Prompts {
		assert.Equal(t, domain.BatchCompleted, p.Status)
		assert.NotEmpty(t, p.Response)
	}
	// The system prompt is prepended to every provider call.
	require.Len(t, llm.calls, 2)
	assert.Contains(t, llm.calls[0], "Be brief.")
	assert.Contains(t, llm.calls[0], "one")
}

func TestBatchRun_PerPromptFailureContinues(t *testing.T) {
	store := newMockBatchStore()
	llm := &flakyLLM{failOn: "bad"}
	svc := NewBatchService(store, llm)

	_, err := svc.Create(context.Background(), "job", "m", "", []string{"good one", "bad one", "another good"})
	require.NoError(t, err)

	job, err := svc.Run(context.Background(), "job")

	require.NoError(t, err)
	stats := job.Stats()
	assert.Equal(t, 2, stats.Completed)
	assert.Equal(t, 1, stats.Failed)
	assert.Zero(t, stats.Pending)
	assert.Equal(t, "provider error", job.Prompts[1].Error)
	// A failed prompt still completes the job.
	assert.False(t, job.CompletedAt.IsZero())
}

func TestBatchRun_ResumesSkippingProcessed(t *testing.T) {
	store := newMockBatchStore()
	llm := &flakyLLM{failOn: "bad"}
	svc := NewBatchService(store, llm)

	_, err := svc.Create(context.Background(), "job", "m", "", []string{"fine", "bad one"})
	require.NoError(t, err)

	_, err = svc.Run(context.Background(), "job")
	require.NoError(t, err)
	require.Len(t, llm.calls, 2)

	// A second run finds nothing pending and calls the provider for
	// nothing new.
	_, err = svc.Run(context.Background(), "job")
	require.NoError(t, err)
	assert.Len(t, llm.calls, 2)
}

func TestBatchRun_MissingJob(t *testing.T) {
	svc := NewBatchService(newMockBatchStore(), &mockLLMService{})

	_, err := svc.Run(context.Background(), "nope")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBatchRun_NoLLM(t *testing.T) {
	svc := NewBatchService(newMockBatchStore(), nil)

	_, err := svc.Run(context.Background(), "job")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}
