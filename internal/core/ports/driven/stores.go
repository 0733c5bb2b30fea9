package driven

import (
	"context"

	"github.com/confab-labs/confab-cli/internal/core/domain"
)

// ProfileStore persists user profiles.
type ProfileStore interface {
	// Save stores or updates a profile under its name.
	Save(ctx context.Context, p *domain.Profile) error

	// Get retrieves a profile by name.
	Get(ctx context.Context, name string) (*domain.Profile, error)

	// List returns all profiles sorted by name.
	List(ctx context.Context) ([]domain.Profile, error)

	// Delete removes a profile. The default profile is protected.
	Delete(ctx context.Context, name string) error
}

// TemplateStore persists custom prompt templates.
// Built-in templates live in the domain package and are merged in by
// the template service.
type TemplateStore interface {
	// Save stores or updates a custom template.
	Save(ctx context.Context, t *domain.Template) error

	// Get retrieves a custom template by ID.
	Get(ctx context.Context, id string) (*domain.Template, error)

	// List returns all custom templates sorted by ID.
	List(ctx context.Context) ([]domain.Template, error)

	// Delete removes a custom template.
	Delete(ctx context.Context, id string) error
}

// FeedbackStore persists response feedback.
type FeedbackStore interface {
	// Save stores a feedback record.
	Save(ctx context.Context, f *domain.Feedback) error

	// List returns all feedback, newest first.
	List(ctx context.Context) ([]domain.Feedback, error)
}

// BatchStore persists batch jobs.
type BatchStore interface {
	// Save stores or updates a job under its name.
	Save(ctx context.Context, job *domain.BatchJob) error

	// Get retrieves a job by name.
	Get(ctx context.Context, name string) (*domain.BatchJob, error)

	// List returns all job names sorted newest first.
	List(ctx context.Context) ([]domain.BatchJob, error)

	// Delete removes a job.
	Delete(ctx context.Context, name string) error
}

// UsageStore records chat API usage for statistics.
type UsageStore interface {
	// Record appends one request record.
	Record(ctx context.Context, rec *domain.RequestRecord) error

	// Summary aggregates all recorded usage. recentDays bounds the
	// per-day breakdown (0 means all days).
	Summary(ctx context.Context, recentDays int) (*domain.UsageSummary, error)

	// Recent returns the most recent records, newest first.
	Recent(ctx context.Context, limit int) ([]domain.RequestRecord, error)

	// Close releases resources.
	Close() error
}

// PromptLibrary persists named image prompts and generation metadata.
type PromptLibrary interface {
	// SavePrompt stores or updates a named prompt.
	SavePrompt(ctx context.Context, p *domain.SavedPrompt) error

	// GetPrompt retrieves a named prompt.
	GetPrompt(ctx context.Context, name string) (*domain.SavedPrompt, error)

	// ListPrompts returns all saved prompts sorted by name.
	ListPrompts(ctx context.Context) ([]domain.SavedPrompt, error)

	// RecordImage appends a generation record.
	RecordImage(ctx context.Context, rec *domain.ImageRecord) error

	// ListImages returns all generation records, newest first.
	ListImages(ctx context.Context) ([]domain.ImageRecord, error)
}
