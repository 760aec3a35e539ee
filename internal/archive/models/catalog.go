// Package models defines the archive-side data model: catalog entries
// replicated from catalogd, local attempt records, unlock grants and the
// decorated items served to the presentation layer.
package models

import (
	"time"

	"puzzlearchive/internal/archive/access"
)

// CatalogEntry is one addressable content item in the archive, as replicated
// into the local store. Entries are written only by the sync engine; the read
// path never mutates them.
type CatalogEntry struct {
	// ID is the opaque stable identifier, unique in the local store. It is
	// also the join key into the attempts table.
	ID string

	// Category tags the game mode the item belongs to.
	Category string

	// ItemDate is the item's calendar date in "2006-01-02" form. Empty for
	// backlog items that carry no date.
	ItemDate string

	// Difficulty is an optional tag.
	Difficulty string

	// IsSpecial marks featured items.
	IsSpecial bool

	// SyncedAt is the time of the last local write by the sync engine.
	SyncedAt time.Time
}

// Filter narrows catalog reads. The zero value matches everything.
type Filter struct {
	// Category restricts to one category when non-empty.
	Category string

	// IncompleteOnly keeps only dated, released items whose current attempt
	// is missing or not completed.
	IncompleteOnly bool
}

// ArchiveItem is a catalog entry decorated with the user's completion state
// and the lock verdict. Locked is false exactly when Unlock is a real rule.
type ArchiveItem struct {
	CatalogEntry

	Completed bool
	Locked    bool
	// Unlock names the rule that unlocked the item; access.PriorityNone when
	// the item is locked.
	Unlock access.Priority
}
