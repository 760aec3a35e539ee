package models

import "time"

// UnlockGrant is a permanent per-item unlock earned through the ad flow.
// Grants never expire and recording one twice is a no-op.
type UnlockGrant struct {
	UserID    string
	PuzzleID  string
	GrantedAt time.Time
}
