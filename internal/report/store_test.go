package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tamilansjob/apicheck/internal/check"
	"github.com/tamilansjob/apicheck/internal/store"
)

type fakeRunRepo struct {
	inserted []store.CheckResult
	err      error
}

func (f *fakeRunRepo) CreateRun(context.Context, store.Run) error {
	return f.err
}

func (f *fakeRunRepo) CompleteRun(context.Context, uuid.UUID, time.Time, store.RunStatus, int, int, int, int) error {
	return f.err
}

func (f *fakeRunRepo) InsertResult(_ context.Context, res store.CheckResult) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, res)
	return nil
}

func (f *fakeRunRepo) GetRun(context.Context, uuid.UUID) (store.Run, error) {
	return store.Run{}, f.err
}

func (f *fakeRunRepo) ListRuns(context.Context, *store.RunStatus, int, int) ([]store.Run, error) {
	return nil, f.err
}

func (f *fakeRunRepo) ListResults(context.Context, uuid.UUID) ([]store.CheckResult, error) {
	return nil, f.err
}

func TestStoreSinkAssignsSequence(t *testing.T) {
	t.Parallel()

	repo := &fakeRunRepo{}
	runID := uuid.New()
	sink := NewStoreSink(repo, runID, zap.NewNop())

	now := time.Unix(1700000000, 0).UTC()
	err := sink.Consume(context.Background(), []check.Result{
		{Check: "health", Passed: true, Timestamp: now, Duration: 42 * time.Millisecond, StatusCode: 200},
	})
	require.NoError(t, err)

	err = sink.Consume(context.Background(), []check.Result{
		{Check: "seed", Message: "counts mismatch", Timestamp: now, StatusCode: 200},
	})
	require.NoError(t, err)

	require.Len(t, repo.inserted, 2)
	require.Equal(t, 1, repo.inserted[0].Seq)
	require.Equal(t, 2, repo.inserted[1].Seq)
	require.Equal(t, runID, repo.inserted[0].RunID)
	require.Equal(t, "health", repo.inserted[0].Check)
	require.Equal(t, int64(42), repo.inserted[0].DurationMs)
	require.False(t, repo.inserted[1].Passed)
}

func TestStoreSinkPropagatesRepoErrors(t *testing.T) {
	t.Parallel()

	repo := &fakeRunRepo{err: errors.New("connection lost")}
	sink := NewStoreSink(repo, uuid.New(), zap.NewNop())

	err := sink.Consume(context.Background(), []check.Result{{Check: "health"}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "insert check result")
}

func TestStoreSinkNilRepoIsNoOp(t *testing.T) {
	t.Parallel()

	sink := NewStoreSink(nil, uuid.New(), zap.NewNop())
	require.NoError(t, sink.Consume(context.Background(), []check.Result{{Check: "health"}}))
	require.NoError(t, sink.Close(context.Background()))
}
