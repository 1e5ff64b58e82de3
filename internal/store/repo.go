package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound signals that the requested record does not exist.
var ErrNotFound = errors.New("run record not found")

// RunStatus mirrors the runs status column.
type RunStatus string

// Run statuses persisted in runs.status.
const (
	RunRunning RunStatus = "running"
	RunPassed  RunStatus = "passed"
	RunFailed  RunStatus = "failed"
)

// Run models the runs table for API responses.
type Run struct {
	// ID is the run identifier shared with the JSON report.
	ID uuid.UUID
	// BaseURL is the API root the run exercised.
	BaseURL string
	// StartedAt captures when the run began.
	StartedAt time.Time
	// FinishedAt is nil until the run completes.
	FinishedAt *time.Time
	// Status is running/passed/failed.
	Status RunStatus
	// Total through Skipped tally the recorded results.
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// CheckResult models one persisted check outcome within a run.
type CheckResult struct {
	RunID      uuid.UUID
	Seq        int
	Check      string
	Passed     bool
	Skipped    bool
	Message    string
	StatusCode int
	StartedAt  time.Time
	DurationMs int64
}

// RunRepository persists conformance runs and their per-check results.
type RunRepository interface {
	// CreateRun inserts the run in the running state.
	CreateRun(ctx context.Context, run Run) error
	// CompleteRun marks the run finished with its final status and tallies.
	CompleteRun(ctx context.Context, id uuid.UUID, finishedAt time.Time, status RunStatus, total, passed, failed, skipped int) error
	// InsertResult appends one check outcome to the run.
	InsertResult(ctx context.Context, res CheckResult) error

	// GetRun loads a single run or returns ErrNotFound.
	GetRun(ctx context.Context, id uuid.UUID) (Run, error)
	// ListRuns returns runs filtered by optional status plus limit/offset.
	ListRuns(ctx context.Context, status *RunStatus, limit, offset int) ([]Run, error)
	// ListResults returns the ordered check outcomes for one run.
	ListResults(ctx context.Context, runID uuid.UUID) ([]CheckResult, error)
}
