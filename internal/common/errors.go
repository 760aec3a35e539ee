// Package common defines sentinel errors and wire constants shared between
// the archive client core and catalogd. Callers match sentinels with
// errors.Is; call sites wrap them with fmt.Errorf("...: %w", err).
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors.
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRemoteFetch marks a failed remote snapshot fetch. The local replica
	// is left untouched when this is returned.
	ErrRemoteFetch = errors.New("remote fetch failed")

	// Auth errors.
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrUsernameTaken       = errors.New("username already taken")

	// ErrContentLocked means the access rules resolved to "locked" for the
	// requested item's content.
	ErrContentLocked = errors.New("content locked")
)
