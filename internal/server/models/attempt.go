package models

import (
	"database/sql"
	"time"
)

// Attempt is one uploaded client attempt. The client's attempt ID is the
// upsert key within a user, so re-pushing the same attempt is idempotent.
type Attempt struct {
	ID          string
	UserID      string
	PuzzleID    string
	Completed   bool
	Score       int64
	StartedAt   time.Time
	CompletedAt sql.NullTime
	Metadata    []byte
	ReceivedAt  time.Time
}
