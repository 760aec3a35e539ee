package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	json "github.com/goccy/go-json"
)

func newRecorder(t *testing.T) *AttemptRecorder {
	t.Helper()
	repos := setupRepos(t)
	return NewAttemptRecorder(repos.Attempts, quietLogger())
}

func TestAttemptRecorder_Start(t *testing.T) {
	ctx := context.Background()
	rec := newRecorder(t)

	started := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	rec.now = func() time.Time { return started }

	a, err := rec.Start(ctx, "p1")
	require.NoError(t, err)

	_, err = uuid.Parse(a.ID)
	assert.NoError(t, err)
	assert.Equal(t, "p1", a.PuzzleID)
	assert.True(t, a.StartedAt.Equal(started))
	assert.False(t, a.Completed)

	current, err := rec.repo.CurrentAttempt(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, a.ID, current.ID)
	assert.False(t, current.Synced)
}

func TestAttemptRecorder_StartAssignsDistinctIDs(t *testing.T) {
	ctx := context.Background()
	rec := newRecorder(t)

	a1, err := rec.Start(ctx, "p1")
	require.NoError(t, err)
	a2, err := rec.Start(ctx, "p1")
	require.NoError(t, err)

	assert.NotEqual(t, a1.ID, a2.ID)

	pending, err := rec.repo.PendingUpload(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestAttemptRecorder_Complete(t *testing.T) {
	ctx := context.Background()
	rec := newRecorder(t)

	a, err := rec.Start(ctx, "p1")
	require.NoError(t, err)

	finished := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	rec.now = func() time.Time { return finished }

	err = rec.Complete(ctx, a.ID, 840, json.RawMessage(`{"moves":42}`))
	require.NoError(t, err)

	current, err := rec.repo.CurrentAttempt(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, current.Completed)
	assert.Equal(t, int64(840), current.Score)
	assert.True(t, current.CompletedAt.Equal(finished))
	assert.JSONEq(t, `{"moves":42}`, string(current.Metadata))
	assert.False(t, current.Synced)
}

func TestAttemptRecorder_CompleteUnknownAttempt(t *testing.T) {
	ctx := context.Background()
	rec := newRecorder(t)

	err := rec.Complete(ctx, "no-such-attempt", 1, nil)
	assert.Error(t, err)
}

func TestAttemptRecorder_ResumeReturnsOpenAttempt(t *testing.T) {
	ctx := context.Background()
	rec := newRecorder(t)

	a, err := rec.Start(ctx, "p1")
	require.NoError(t, err)

	resumed, err := rec.Resume(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, a.ID, resumed.ID)

	pending, err := rec.repo.PendingUpload(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestAttemptRecorder_ResumeStartsFreshWhenNeverPlayed(t *testing.T) {
	ctx := context.Background()
	rec := newRecorder(t)

	a, err := rec.Resume(ctx, "p1")
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.False(t, a.Completed)
}

func TestAttemptRecorder_ResumeStartsFreshAfterCompletion(t *testing.T) {
	ctx := context.Background()
	rec := newRecorder(t)

	a, err := rec.Start(ctx, "p1")
	require.NoError(t, err)
	require.NoError(t, rec.Complete(ctx, a.ID, 100, nil))

	resumed, err := rec.Resume(ctx, "p1")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, resumed.ID)
	assert.False(t, resumed.Completed)

	// The earlier completion keeps the puzzle permanently completed.
	done, err := rec.repo.HasCompleted(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, done)
}
