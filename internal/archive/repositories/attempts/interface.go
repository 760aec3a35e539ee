// Package attempts declares the repository contract for local attempt
// records and its SQLite implementation. Attempt rows are append-and-update
// only; nothing ever deletes them.
package attempts

import (
	"context"
	"time"

	json "github.com/goccy/go-json"

	"puzzlearchive/internal/archive/models"
)

// Repository stores the user's attempt history.
type Repository interface {
	// Insert records a freshly started attempt with synced cleared.
	Insert(ctx context.Context, a *models.Attempt) error

	// Complete marks the attempt finished and clears synced so the change is
	// uploaded again. Exactly one row must match.
	Complete(ctx context.Context, id string, score int64, completedAt time.Time, metadata json.RawMessage) error

	// HasCompleted reports whether ANY completed attempt exists for the
	// puzzle. One completion keeps an item unlocked forever, regardless of
	// later restarts.
	HasCompleted(ctx context.Context, puzzleID string) (bool, error)

	// CompletedIn answers HasCompleted for a batch of puzzle ids. Ids with
	// no completed attempt are absent from the result map.
	CompletedIn(ctx context.Context, puzzleIDs []string) (map[string]bool, error)

	// CurrentAttempt returns the logically current attempt: the most
	// recently started, ties broken by higher id. common.ErrNotFound when
	// the puzzle has no attempts.
	CurrentAttempt(ctx context.Context, puzzleID string) (*models.Attempt, error)

	// PendingUpload returns attempts not yet uploaded, oldest first.
	PendingUpload(ctx context.Context) ([]models.Attempt, error)

	// MarkUploaded sets synced on the given attempt ids.
	MarkUploaded(ctx context.Context, ids []string) error
}
