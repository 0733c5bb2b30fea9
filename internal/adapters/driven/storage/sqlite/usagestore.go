package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/confab-labs/confab-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/confab-labs/confab-cli/internal/core/domain"
	"github.com/confab-labs/confab-cli/internal/core/ports/driven"
)

// Ensure UsageStore implements the interface.
var _ driven.UsageStore = (*UsageStore)(nil)

// UsageStore is a SQLite-backed implementation of driven.UsageStore.
type UsageStore struct {
	db   *sql.DB
	path string
}

// NewUsageStore opens the usage database in the given data directory.
// If dataDir is empty, defaults to ~/.confab/data/usage.db.
func NewUsageStore(dataDir string) (*UsageStore, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".confab", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "usage.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &UsageStore{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *UsageStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *UsageStore) Path() string {
	return s.path
}

// Record appends one request record.
func (s *UsageStore) Record(ctx context.Context, rec *domain.RequestRecord) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	createdAt = createdAt.UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO requests (model, prompt_tokens, completion_tokens, cost, day, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.Model, rec.PromptTokens, rec.CompletionTokens, rec.Cost,
		createdAt.Format("2006-01-02"), createdAt)

	if err != nil {
		return fmt.Errorf("recording usage: %w", err)
	}
	return nil
}

// Summary aggregates all recorded usage. recentDays bounds the per-day
// breakdown; 0 means all days.
func (s *UsageStore) Summary(ctx context.Context, recentDays int) (*domain.UsageSummary, error) {
	summary := &domain.UsageSummary{}

	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(prompt_tokens + completion_tokens), 0),
		       COALESCE(SUM(cost), 0)
		FROM requests
	`)
	if err := row.Scan(&summary.TotalRequests, &summary.TotalTokens, &summary.TotalCost); err != nil {
		return nil, fmt.Errorf("summarising usage: %w", err)
	}
	if summary.TotalRequests > 0 {
		summary.AvgTokensPerCall = summary.TotalTokens / summary.TotalRequests
	}

	byModel, err := s.usageByModel(ctx)
	if err != nil {
		return nil, err
	}
	summary.ByModel = byModel

	byDay, err := s.usageByDay(ctx, recentDays)
	if err != nil {
		return nil, err
	}
	summary.ByDay = byDay

	return summary, nil
}

// usageByModel aggregates usage per model, highest cost first.
func (s *UsageStore) usageByModel(ctx context.Context) ([]domain.ModelUsage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT model, COUNT(*), SUM(prompt_tokens + completion_tokens), SUM(cost)
		FROM requests
		GROUP BY model
		ORDER BY SUM(cost) DESC, model
	`)
	if err != nil {
		return nil, fmt.Errorf("querying usage by model: %w", err)
	}
	defer rows.Close()

	var usage []domain.ModelUsage //nolint:prealloc // size unknown from query
	for rows.Next() {
		var u domain.ModelUsage
		if err := rows.Scan(&u.Model, &u.Requests, &u.Tokens, &u.Cost); err != nil {
			return nil, fmt.Errorf("scanning model usage: %w", err)
		}
		usage = append(usage, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating model usage: %w", err)
	}
	return usage, nil
}

// usageByDay aggregates usage per calendar day, newest first.
func (s *UsageStore) usageByDay(ctx context.Context, recentDays int) ([]domain.DailyUsage, error) {
	query := `
		SELECT day, COUNT(*), SUM(prompt_tokens + completion_tokens), SUM(cost)
		FROM requests
	`
	var args []any
	if recentDays > 0 {
		cutoff := time.Now().UTC().AddDate(0, 0, -recentDays).Format("2006-01-02")
		query += " WHERE day >= ?"
		args = append(args, cutoff)
	}
	query += " GROUP BY day ORDER BY day DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying usage by day: %w", err)
	}
	defer rows.Close()

	var usage []domain.DailyUsage //nolint:prealloc // size unknown from query
	for rows.Next() {
		var u domain.DailyUsage
		if err := rows.Scan(&u.Date, &u.Requests, &u.Tokens, &u.Cost); err != nil {
			return nil, fmt.Errorf("scanning daily usage: %w", err)
		}
		usage = append(usage, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating daily usage: %w", err)
	}
	return usage, nil
}

// Recent returns the most recent records, newest first.
func (s *UsageStore) Recent(ctx context.Context, limit int) ([]domain.RequestRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT model, prompt_tokens, completion_tokens, cost, created_at
		FROM requests
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent usage: %w", err)
	}
	defer rows.Close()

	var records []domain.RequestRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var rec domain.RequestRecord
		var createdAt sql.NullTime
		if err := rows.Scan(&rec.Model, &rec.PromptTokens, &rec.CompletionTokens,
			&rec.Cost, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning request record: %w", err)
		}
		if createdAt.Valid {
			rec.CreatedAt = createdAt.Time
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating request records: %w", err)
	}
	return records, nil
}

// migrate runs all pending migrations.
func (s *UsageStore) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("marking migration %s applied: %w", name, err)
		}
	}

	return nil
}
