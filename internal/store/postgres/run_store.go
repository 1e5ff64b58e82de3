// Package postgres provides Postgres-backed persistence implementations.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tamilansjob/apicheck/internal/store"
)

// RunStoreConfig controls the Postgres connection pool used for run rows.
type RunStoreConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type dbPool interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
	Close()
}

// RunStore persists conformance runs and their results in Postgres.
type RunStore struct {
	pool dbPool
}

// NewRunStore creates a Postgres-backed RunStore using the provided config.
func NewRunStore(ctx context.Context, cfg RunStoreConfig) (*RunStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("store.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &RunStore{pool: pool}, nil
}

// NewRunStoreWithPool constructs a store from an existing pool (primarily for testing).
func NewRunStoreWithPool(pool dbPool) (*RunStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &RunStore{pool: pool}, nil
}

// Close releases the underlying pool resources.
func (s *RunStore) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// CreateRun inserts the run row in the running state.
func (s *RunStore) CreateRun(ctx context.Context, run store.Run) error {
	query := `
INSERT INTO runs (id, base_url, started_at, status)
VALUES ($1, $2, $3, $4)`

	if _, err := s.pool.Exec(ctx, query, run.ID, run.BaseURL, run.StartedAt, string(store.RunRunning)); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// CompleteRun marks the run finished with its final status and tallies.
func (s *RunStore) CompleteRun(ctx context.Context, id uuid.UUID, finishedAt time.Time, status store.RunStatus, total, passed, failed, skipped int) error {
	query := `
UPDATE runs
SET finished_at = $1,
	status = $2,
	total = $3,
	passed = $4,
	failed = $5,
	skipped = $6
WHERE id = $7`

	tag, err := s.pool.Exec(ctx, query, finishedAt, string(status), total, passed, failed, skipped, id)
	if err != nil {
		return fmt.Errorf("complete run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// InsertResult appends one check outcome to the run.
func (s *RunStore) InsertResult(ctx context.Context, res store.CheckResult) error {
	query := `
INSERT INTO run_results (
	run_id,
	seq,
	check_name,
	passed,
	skipped,
	message,
	status_code,
	started_at,
	duration_ms
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9
)`

	args := []any{
		res.RunID,
		res.Seq,
		res.Check,
		res.Passed,
		res.Skipped,
		res.Message,
		res.StatusCode,
		res.StartedAt,
		res.DurationMs,
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert run result: %w", err)
	}
	return nil
}

// GetRun loads a single run or returns store.ErrNotFound.
func (s *RunStore) GetRun(ctx context.Context, id uuid.UUID) (store.Run, error) {
	query := `
SELECT id, base_url, started_at, finished_at, status, total, passed, failed, skipped
FROM runs
WHERE id = $1`

	var run store.Run
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&run.ID,
		&run.BaseURL,
		&run.StartedAt,
		&run.FinishedAt,
		&run.Status,
		&run.Total,
		&run.Passed,
		&run.Failed,
		&run.Skipped,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Run{}, store.ErrNotFound
		}
		return store.Run{}, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// ListRuns returns runs newest first, optionally filtered by status.
func (s *RunStore) ListRuns(ctx context.Context, status *store.RunStatus, limit, offset int) ([]store.Run, error) {
	query := `
SELECT id, base_url, started_at, finished_at, status, total, passed, failed, skipped
FROM runs
WHERE ($1::text IS NULL OR status = $1)
ORDER BY started_at DESC
LIMIT $2 OFFSET $3`

	var statusArg *string
	if status != nil {
		v := string(*status)
		statusArg = &v
	}
	rows, err := s.pool.Query(ctx, query, statusArg, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []store.Run
	for rows.Next() {
		var run store.Run
		if err := rows.Scan(
			&run.ID,
			&run.BaseURL,
			&run.StartedAt,
			&run.FinishedAt,
			&run.Status,
			&run.Total,
			&run.Passed,
			&run.Failed,
			&run.Skipped,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ListResults returns the ordered check outcomes for one run.
func (s *RunStore) ListResults(ctx context.Context, runID uuid.UUID) ([]store.CheckResult, error) {
	query := `
SELECT run_id, seq, check_name, passed, skipped, message, status_code, started_at, duration_ms
FROM run_results
WHERE run_id = $1
ORDER BY seq`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("list run results: %w", err)
	}
	defer rows.Close()

	var results []store.CheckResult
	for rows.Next() {
		var res store.CheckResult
		if err := rows.Scan(
			&res.RunID,
			&res.Seq,
			&res.Check,
			&res.Passed,
			&res.Skipped,
			&res.Message,
			&res.StatusCode,
			&res.StartedAt,
			&res.DurationMs,
		); err != nil {
			return nil, fmt.Errorf("scan run result: %w", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run results: %w", err)
	}
	return results, nil
}
