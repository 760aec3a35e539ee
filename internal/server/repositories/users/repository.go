package users

import (
	"context"
	"time"

	"puzzlearchive/internal/server/models"
)

type Repository interface {
	// Create inserts a new account; common.ErrUsernameTaken when the username
	// already exists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	GetByUsername(ctx context.Context, username string) (*models.User, error)

	GetByID(ctx context.Context, id string) (*models.User, error)

	// SetPremiumUntil moves the subscription expiry; common.ErrNotFound when
	// no such user exists.
	SetPremiumUntil(ctx context.Context, username string, until time.Time) error
}
