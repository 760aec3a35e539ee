package session

import (
	"puzzlearchive/internal/archive/access"
	"puzzlearchive/internal/archive/models"
)

// SessionContext carries the mutable state of one archive session. The
// controller guards it with its mutex and replaces it wholesale when a new
// session starts, so nothing leaks from one session into the next.
type SessionContext struct {
	// SyncedThisSession is set after the first successful catalog sync and
	// keeps later focus triggers from syncing again. A failed sync leaves it
	// clear so the next focus retries.
	SyncedThisSession bool

	// Epoch advances whenever the result set changes meaning (session start,
	// resync, filter change). A load that started under an older epoch
	// discards its result instead of installing stale rows.
	Epoch uint64

	// LoadsInFlight counts loads currently running outside the lock.
	LoadsInFlight int

	// PendingRecompute is set when an entitlement or grant update arrives
	// while a load is in flight. The relock then runs exactly once, after the
	// last in-flight load lands.
	PendingRecompute bool

	// LastSync reports the most recent sync run of this session.
	LastSync models.SyncResult

	Filter models.Filter
	Total  int
	Items  []models.ArchiveItem

	Entitled bool
	Grants   access.GrantSet
}

func newSessionContext() SessionContext {
	return SessionContext{Grants: access.NewGrantSet()}
}
