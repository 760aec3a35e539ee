package models

import "time"

// CatalogEntry is the canonical record for one puzzle. ItemDate is
// "2006-01-02" for dated dailies and empty for backlog items; the payload
// itself lives in object storage under ContentKey.
type CatalogEntry struct {
	ID         string
	Category   string
	ItemDate   string
	Difficulty string
	IsSpecial  bool
	ContentKey string
	UpdatedAt  time.Time
}
