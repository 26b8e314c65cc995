package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/ericfisherdev/promptenhancer/internal/domain/model"
	"github.com/ericfisherdev/promptenhancer/internal/domain/port/driven"
)

// timeLayout is fixed-width so that created_at sorts lexicographically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Compile-time interface satisfaction check.
var _ driven.RunStore = (*RunRepo)(nil)

// RunRepo is the SQLite implementation of the RunStore port interface.
type RunRepo struct {
	db *DB
}

// NewRunRepo creates a new RunRepo backed by the given DB.
func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

// Record inserts a run. CreatedAt defaults to now when zero.
func (r *RunRepo) Record(ctx context.Context, run model.Run) error {
	const query = `INSERT INTO runs
		(id, provider, model, role_chars, context_chars, task_chars, failed, error_kind, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.Writer.ExecContext(ctx, query,
		run.ID,
		string(run.Provider),
		run.Model,
		run.RoleChars,
		run.ContextChars,
		run.TaskChars,
		run.Failed,
		string(run.ErrorKind),
		run.Duration.Milliseconds(),
		createdAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", run.ID, err)
	}
	return nil
}

// ListRecent returns up to limit runs, newest first. A non-positive limit
// returns an empty slice.
func (r *RunRepo) ListRecent(ctx context.Context, limit int) ([]model.Run, error) {
	if limit <= 0 {
		return []model.Run{}, nil
	}

	const query = `SELECT id, provider, model, role_chars, context_chars, task_chars, failed, error_kind, duration_ms, created_at
		FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`

	rows, err := r.db.Reader.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []model.Run{}
	for rows.Next() {
		var (
			run        model.Run
			provider   string
			errorKind  string
			durationMS int64
			createdAt  string
		)
		if err := rows.Scan(
			&run.ID, &provider, &run.Model,
			&run.RoleChars, &run.ContextChars, &run.TaskChars,
			&run.Failed, &errorKind, &durationMS, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}

		run.Provider = model.Provider(provider)
		run.ErrorKind = model.ErrorKind(errorKind)
		run.Duration = time.Duration(durationMS) * time.Millisecond
		run.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at for run %s: %w", run.ID, err)
		}

		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

// parseTime accepts the stored layout plus the common SQLite text formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		timeLayout,
		time.RFC3339Nano,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
