package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/confab-labs/confab-cli/internal/core/domain"
	"github.com/confab-labs/confab-cli/internal/core/ports/driven"
	"github.com/confab-labs/confab-cli/internal/logger"
)

// FeedbackService records and aggregates response ratings.
type FeedbackService struct {
	feedbackStore driven.FeedbackStore
	now           func() time.Time
	newID         func() string
}

// NewFeedbackService creates a feedback service.
func NewFeedbackService(feedbackStore driven.FeedbackStore) *FeedbackService {
	return &FeedbackService{
		feedbackStore: feedbackStore,
		now:           time.Now,
		newID:         func() string { return uuid.New().String() },
	}
}

// Record stores a rating for a response. Rating must be 1 to 5 and any
// flag must be a known category.
func (s *FeedbackService) Record(ctx context.Context, prompt, response string, rating int, flag domain.FeedbackFlag, notes string) (*domain.Feedback, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating %d outside [1, 5]", domain.ErrInvalidInput, rating)
	}
	if flag != "" && !flag.IsValid() {
		return nil, fmt.Errorf("%w: unknown flag %q", domain.ErrInvalidInput, flag)
	}

	f := &domain.Feedback{
		ID:        s.newID(),
		Prompt:    prompt,
		Response:  response,
		Rating:    rating,
		Flag:      flag,
		Notes:     notes,
		CreatedAt: s.now(),
	}
	if err := s.feedbackStore.Save(ctx, f); err != nil {
		return nil, fmt.Errorf("save feedback: %w", err)
	}

	logger.Info("Recorded feedback: rating=%d flag=%s", rating, flag)
	return f, nil
}

// Summary aggregates all recorded feedback.
func (s *FeedbackService) Summary(ctx context.Context) (*domain.FeedbackSummary, error) {
	all, err := s.feedbackStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}

	summary := &domain.FeedbackSummary{
		Total:    len(all),
		ByRating: make(map[int]int),
		ByFlag:   make(map[domain.FeedbackFlag]int),
	}

	total := 0
	for _, f := range all {
		summary.ByRating[f.Rating]++
		if f.Flag != "" {
			summary.ByFlag[f.Flag]++
		}
		total += f.Rating
	}
	if summary.Total > 0 {
		summary.AverageRating = float64(total) / float64(summary.Total)
	}

	return summary, nil
}

// ListFlagged returns feedback carrying a problem flag, newest first.
func (s *FeedbackService) ListFlagged(ctx context.Context) ([]domain.Feedback, error) {
	all, err := s.feedbackStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}

	flagged := make([]domain.Feedback, 0)
	for _, f := range all {
		if f.Flag != "" {
			flagged = append(flagged, f)
		}
	}
	return flagged, nil
}
