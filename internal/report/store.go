package report

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tamilansjob/apicheck/internal/check"
	"github.com/tamilansjob/apicheck/internal/store"
)

// StoreSink persists each result via a store.RunRepository, preserving run
// order with a sequence number. Run lifecycle rows (create/complete) are
// written by the caller that owns the run.
type StoreSink struct {
	repo   store.RunRepository
	runID  uuid.UUID
	seq    int
	logger *zap.Logger
}

// NewStoreSink constructs a StoreSink bound to one run.
func NewStoreSink(repo store.RunRepository, runID uuid.UUID, logger *zap.Logger) *StoreSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoreSink{repo: repo, runID: runID, logger: logger}
}

// Consume writes each result to the repository. It respects ctx deadlines and
// returns any repository errors verbatim.
func (s *StoreSink) Consume(ctx context.Context, batch []check.Result) error {
	if s == nil || s.repo == nil {
		return nil
	}
	for _, res := range batch {
		s.seq++
		rec := store.CheckResult{
			RunID:      s.runID,
			Seq:        s.seq,
			Check:      res.Check,
			Passed:     res.Passed,
			Skipped:    res.Skipped,
			Message:    res.Message,
			StatusCode: res.StatusCode,
			StartedAt:  res.Timestamp,
			DurationMs: res.Duration.Milliseconds(),
		}
		if err := s.repo.InsertResult(ctx, rec); err != nil {
			return fmt.Errorf("insert check result: %w", err)
		}
	}
	return nil
}

// Close implements the Sink interface; it performs no action.
func (s *StoreSink) Close(context.Context) error {
	return nil
}
