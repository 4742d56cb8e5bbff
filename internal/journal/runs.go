package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusComplete  = "complete"
	StatusCancelled = "cancelled"
	StatusFailed    = "failed"
)

var (
	// ErrRunNotFound is returned when no run matches an id or prefix.
	ErrRunNotFound = errors.New("run not found")
	// ErrAmbiguousRun is returned when a prefix matches several runs.
	ErrAmbiguousRun = errors.New("run id prefix is ambiguous")
)

// RunInfo describes a run at start.
type RunInfo struct {
	ID        string
	StartedAt time.Time
	Seed      int64
	Customers int
	Cooks     int
	Capacity  int
}

// RunResult is the final accounting recorded by FinishRun.
type RunResult struct {
	Status      string
	EndedAt     time.Time
	Enqueued    int
	Completed   int
	Lost        int
	Abandoned   int
	FailedTasks int
}

// Run is one row of run history.
type Run struct {
	RunInfo
	RunResult
}

// Elapsed is zero while the run has no end time.
func (r Run) Elapsed() time.Duration {
	if r.EndedAt.IsZero() || r.EndedAt.Before(r.StartedAt) {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// BeginRun inserts the run row. Events for a run can only be published after
// it has begun.
func (s *Store) BeginRun(ctx context.Context, info RunInfo) error {
	_, err := s.execWithRetry(ctx,
		`INSERT INTO runs (id, started_at, seed, customers, cooks, capacity, status)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		info.ID, formatTime(info.StartedAt), info.Seed, info.Customers, info.Cooks, info.Capacity, StatusRunning,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun records the final status and counts.
func (s *Store) FinishRun(ctx context.Context, id string, result RunResult) error {
	res, err := s.execWithRetry(ctx,
		`UPDATE runs SET status = ?, ended_at = ?, enqueued = ?, completed = ?, lost = ?, abandoned = ?, failed_tasks = ?
         WHERE id = ?`,
		result.Status, formatTime(result.EndedAt), result.Enqueued, result.Completed,
		result.Lost, result.Abandoned, result.FailedTasks, id,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

const runColumns = `id, started_at, COALESCE(ended_at, ''), seed, customers, cooks, capacity,
    status, enqueued, completed, lost, abandoned, failed_tasks`

func scanRun(row interface{ Scan(...any) error }) (Run, error) {
	var (
		r              Run
		started, ended string
	)
	err := row.Scan(&r.ID, &started, &ended, &r.Seed, &r.Customers, &r.Cooks, &r.Capacity,
		&r.Status, &r.Enqueued, &r.Completed, &r.Lost, &r.Abandoned, &r.FailedTasks)
	if err != nil {
		return Run{}, err
	}
	r.StartedAt = parseTime(started)
	if ended != "" {
		r.EndedAt = parseTime(ended)
	}
	return r, nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC, id"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// FindRun resolves a full id or a unique prefix.
func (s *Store) FindRun(ctx context.Context, idOrPrefix string) (Run, error) {
	ctx = ensureContext(ctx)
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return Run{}, ErrRunNotFound
	}
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(idOrPrefix)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+runColumns+` FROM runs WHERE id LIKE ? ESCAPE '\' ORDER BY started_at DESC LIMIT 2`,
		escaped+"%",
	)
	if err != nil {
		return Run{}, fmt.Errorf("find run: %w", err)
	}
	defer rows.Close()

	var found []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return Run{}, fmt.Errorf("scan run: %w", err)
		}
		if r.ID == idOrPrefix {
			return r, nil
		}
		found = append(found, r)
	}
	if err := rows.Err(); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Run{}, err
	}
	switch len(found) {
	case 0:
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, idOrPrefix)
	case 1:
		return found[0], nil
	default:
		return Run{}, fmt.Errorf("%w: %s", ErrAmbiguousRun, idOrPrefix)
	}
}
