// Package grants provides the PostgreSQL-backed repository for permanent
// per-item unlock grants.
package grants

import (
	"context"

	"puzzlearchive/internal/server/models"
)

type Repository interface {
	// Create records a grant; recording an existing (user, puzzle) pair is a
	// no-op.
	Create(ctx context.Context, userID, puzzleID string) error

	// ListByUser returns all grants held by the user.
	ListByUser(ctx context.Context, userID string) ([]*models.UnlockGrant, error)

	// Has reports whether the user holds a grant for the puzzle.
	Has(ctx context.Context, userID, puzzleID string) (bool, error)
}
