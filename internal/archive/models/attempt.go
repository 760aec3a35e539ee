package models

import (
	"time"

	json "github.com/goccy/go-json"
)

// Attempt records a user's progress on one catalog entry. Attempts are never
// deleted: a completed attempt keeps its item viewable forever, even after
// the entry itself leaves the remote catalog.
type Attempt struct {
	// ID is a UUID assigned when the attempt starts.
	ID string

	// PuzzleID references CatalogEntry.ID. Declarative only; attempts
	// survive the deletion of their catalog entry.
	PuzzleID string

	// Completed marks a finished attempt.
	Completed bool

	// Score is the game-specific result value.
	Score int64

	StartedAt time.Time

	// CompletedAt is zero while the attempt is in progress.
	CompletedAt time.Time

	// Metadata is an opaque JSON blob owned by the game layer.
	Metadata json.RawMessage

	// Synced is cleared on every local write and set once the attempt has
	// been uploaded to catalogd.
	Synced bool
}

// AdUnlockGrant is a permanent unlock of one catalog entry, produced by an
// out-of-band action such as watching an ad. Grants have no expiry.
type AdUnlockGrant struct {
	PuzzleID  string
	GrantedAt time.Time
}
