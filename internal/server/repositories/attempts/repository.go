// Package attempts provides the PostgreSQL-backed repository for uploaded
// client attempts.
package attempts

import (
	"context"

	"puzzlearchive/internal/server/models"
)

type Repository interface {
	// Upsert stores an attempt keyed by (user_id, id); re-pushing the same
	// attempt replaces the row.
	Upsert(ctx context.Context, attempt *models.Attempt) error

	// HasCompleted reports whether the user has any completed attempt on the
	// puzzle. Feeds the completed rule of the server-side lock check.
	HasCompleted(ctx context.Context, userID, puzzleID string) (bool, error)
}
