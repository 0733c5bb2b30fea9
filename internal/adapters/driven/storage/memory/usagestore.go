package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/confab-labs/confab-cli/internal/core/domain"
	"github.com/confab-labs/confab-cli/internal/core/ports/driven"
)

// Ensure UsageStore implements the interface.
var _ driven.UsageStore = (*UsageStore)(nil)

// UsageStore is an in-memory implementation of driven.UsageStore, used
// when the usage database cannot be opened.
type UsageStore struct {
	mu      sync.RWMutex
	records []domain.RequestRecord
}

// NewUsageStore creates a new in-memory usage store.
func NewUsageStore() *UsageStore {
	return &UsageStore{}
}

// Record appends one request record.
func (s *UsageStore) Record(_ context.Context, rec *domain.RequestRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := *rec
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	s.records = append(s.records, r)
	return nil
}

// Summary aggregates all recorded usage.
func (s *UsageStore) Summary(_ context.Context, recentDays int) (*domain.UsageSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := &domain.UsageSummary{}
	byModel := make(map[string]*domain.ModelUsage)
	byDay := make(map[string]*domain.DailyUsage)

	var cutoff string
	if recentDays > 0 {
		cutoff = time.Now().UTC().AddDate(0, 0, -recentDays).Format("2006-01-02")
	}

	for _, r := range s.records {
		summary.TotalRequests++
		summary.TotalTokens += r.TotalTokens()
		summary.TotalCost += r.Cost

		m := byModel[r.Model]
		if m == nil {
			m = &domain.ModelUsage{Model: r.Model}
			byModel[r.Model] = m
		}
		m.Requests++
		m.Tokens += r.TotalTokens()
		m.Cost += r.Cost

		day := r.CreatedAt.UTC().Format("2006-01-02")
		if cutoff != "" && day < cutoff {
			continue
		}
		d := byDay[day]
		if d == nil {
			d = &domain.DailyUsage{Date: day}
			byDay[day] = d
		}
		d.Requests++
		d.Tokens += r.TotalTokens()
		d.Cost += r.Cost
	}

	if summary.TotalRequests > 0 {
		summary.AvgTokensPerCall = summary.TotalTokens / summary.TotalRequests
	}

	for _, m := range byModel {
		summary.ByModel = append(summary.ByModel, *m)
	}
	sort.Slice(summary.ByModel, func(i, j int) bool {
		if summary.ByModel[i].Cost == summary.ByModel[j].Cost {
			return summary.ByModel[i].Model < summary.ByModel[j].Model
		}
		return summary.ByModel[i].Cost > summary.ByModel[j].Cost
	})

	for _, d := range byDay {
		summary.ByDay = append(summary.ByDay, *d)
	}
	sort.Slice(summary.ByDay, func(i, j int) bool {
		return summary.ByDay[i].Date > summary.ByDay[j].Date
	})

	return summary, nil
}

// Recent returns the most recent records, newest first.
func (s *UsageStore) Recent(_ context.Context, limit int) ([]domain.RequestRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	out := make([]domain.RequestRecord, len(s.records))
	copy(out, s.records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close is a no-op.
func (s *UsageStore) Close() error { return nil }
