// Package remote defines the narrow collaborator interfaces the archive core
// depends on, plus the HTTP client implementing all of them against catalogd.
package remote

import (
	"context"
	"time"

	json "github.com/goccy/go-json"

	"puzzlearchive/internal/archive/models"
)

// CatalogRecord is the wire shape of one catalog entry.
type CatalogRecord struct {
	ID         string `json:"id"`
	Category   string `json:"category"`
	ItemDate   string `json:"item_date,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	IsSpecial  bool   `json:"is_special,omitempty"`
}

// GrantRecord is the wire shape of one ad-unlock grant.
type GrantRecord struct {
	PuzzleID  string    `json:"puzzle_id"`
	GrantedAt time.Time `json:"granted_at"`
}

// AttemptRecord is the wire shape of one uploaded attempt.
type AttemptRecord struct {
	ID          string          `json:"id"`
	PuzzleID    string          `json:"puzzle_id"`
	Completed   bool            `json:"completed"`
	Score       int64           `json:"score"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}

// Catalog fetches the complete remote catalog snapshot. The call needs no
// authorization: catalog metadata is globally readable, so locked
// placeholders can always be rendered.
type Catalog interface {
	FetchCatalog(ctx context.Context) ([]CatalogRecord, error)
}

// Grants lists the user's permanent ad-unlock grants.
type Grants interface {
	ListActiveGrants(ctx context.Context) ([]models.AdUnlockGrant, error)
}

// Entitlement reports the subscription flag. The core reads it per
// evaluation and never persists or derives it.
type Entitlement interface {
	Entitled(ctx context.Context) (bool, error)
}

// AttemptSink receives locally recorded attempts.
type AttemptSink interface {
	PushAttempts(ctx context.Context, attempts []models.Attempt) error
}

// Content resolves a short-lived download URL for an unlocked item's payload.
type Content interface {
	ContentURL(ctx context.Context, puzzleID string) (string, error)
}
