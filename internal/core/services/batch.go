package services

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/confab-labs/confab-cli/internal/core/domain"
	"github.com/confab-labs/confab-cli/internal/core/ports/driven"
	"github.com/confab-labs/confab-cli/internal/core/ports/driving"
	"github.com/confab-labs/confab-cli/internal/logger"
)

// Ensure BatchService implements the interface.
var _ driving.BatchService = (*BatchService)(nil)

// BatchService creates and runs batch prompt jobs.
type BatchService struct {
	batchStore driven.BatchStore
	llmService driven.LLMService
	parameters domain.ModelParameters
	now        func() time.Time
}

// NewBatchService creates a batch service.
func NewBatchService(batchStore driven.BatchStore, llmService driven.LLMService) *BatchService {
	return &BatchService{
		batchStore: batchStore,
		llmService: llmService,
		parameters: domain.DefaultModelParameters(),
		now:        time.Now,
	}
}

// Create builds a pending job from a prompt list.
func (s *BatchService) Create(ctx context.Context, name, model, systemPrompt string, prompts []string) (*domain.BatchJob, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty job name", domain.ErrInvalidInput)
	}

	cleaned := make([]domain.BatchPrompt, 0, len(prompts))
	for _, p := range prompts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		cleaned = append(cleaned, domain.BatchPrompt{
			ID:     fmt.Sprintf("%s_%d", name, len(cleaned)),
			Text:   p,
			Status: domain.BatchPending,
		})
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("%w: no prompts", domain.ErrInvalidInput)
	}

	if existing, err := s.batchStore.Get(ctx, name); err == nil && existing != nil {
		return nil, fmt.Errorf("batch job %q: %w", name, domain.ErrAlreadyExists)
	}

	job := &domain.BatchJob{
		Name:         name,
		Model:        model,
		SystemPrompt: systemPrompt,
		Prompts:      cleaned,
		CreatedAt:    s.now(),
	}
	if err := s.batchStore.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("save batch job: %w", err)
	}

	logger.Info("Created batch job %q with %d prompts", name, len(cleaned))
	return job, nil
}

// CreateFromFile builds a job from a file with one prompt per line.
// Blank lines and lines starting with # are skipped.
func (s *BatchService) CreateFromFile(ctx context.Context, name, model, systemPrompt, path string) (*domain.BatchJob, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open prompt file: %w", err)
	}
	defer f.Close()

	var prompts []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		prompts = append(prompts, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read prompt file: %w", err)
	}

	return s.Create(ctx, name, model, systemPrompt, prompts)
}

// Run processes every pending prompt sequentially. Per-prompt failures
// are recorded on the prompt and the job continues; the job is saved
// after every prompt so progress survives interruption.
func (s *BatchService) Run(ctx context.Context, name string) (*domain.BatchJob, error) {
	if s.llmService == nil {
		return nil, fmt.Errorf("run batch: %w", domain.ErrLLMUnavailable)
	}

	job, err := s.batchStore.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get batch job %q: %w", name, err)
	}

	logger.Section("Batch Run")
	logger.Info("Job %q: %d prompts", name, len(job.Prompts))

	for i := range job.Prompts {
		if job.Prompts[i].Status != domain.BatchPending {
			continue
		}
		if err := ctx.Err(); err != nil {
			return job, err
		}

		prompt := s.buildPrompt(job, job.Prompts[i].Text)
		result, err := s.llmService.Generate(ctx, prompt, driven.ChatOptions{
			Model:      job.Model,
			Parameters: s.parameters,
		})
		if err != nil {
			logger.Warn("Batch prompt %s failed: %v", job.Prompts[i].ID, err)
			job.Prompts[i].Error = err.Error()
			job.Prompts[i].Status = domain.BatchFailed
		} else {
			job.Prompts[i].Response = result.Content
			job.Prompts[i].Status = domain.BatchCompleted
		}

		if err := s.batchStore.Save(ctx, job); err != nil {
			return nil, fmt.Errorf("save batch progress: %w", err)
		}
	}

	if job.Done() {
		job.CompletedAt = s.now()
		if err := s.batchStore.Save(ctx, job); err != nil {
			return nil, fmt.Errorf("save batch job: %w", err)
		}
	}

	stats := job.Stats()
	logger.Info("Batch %q done: %d completed, %d failed", name, stats.Completed, stats.Failed)
	return job, nil
}

// buildPrompt prepends the job's system prompt when the provider call
// is single-shot.
func (s *BatchService) buildPrompt(job *domain.BatchJob, text string) string {
	if job.SystemPrompt == "" {
		return text
	}
	return job.SystemPrompt + "\n\n" + text
}

// Get retrieves a job by name.
func (s *BatchService) Get(ctx context.Context, name string) (*domain.BatchJob, error) {
	job, err := s.batchStore.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get batch job %q: %w", name, err)
	}
	return job, nil
}

// List returns all jobs, newest first.
func (s *BatchService) List(ctx context.Context) ([]domain.BatchJob, error) {
	return s.batchStore.List(ctx)
}
