// Package catalog declares the local catalog replica's repository contract
// and its SQLite implementation.
package catalog

import (
	"context"
	"time"

	"puzzlearchive/internal/archive/models"
	"puzzlearchive/internal/datex"
)

// Repository is the local store for replicated catalog entries. Writes come
// only from the sync engine; reads serve the paginated archive screens.
type Repository interface {
	// UpsertBatch inserts or replaces entries by id, stamping each row with
	// syncedAt. Callers group it with DeleteByIDs in one transaction.
	UpsertBatch(ctx context.Context, entries []models.CatalogEntry, syncedAt time.Time) error

	// DeleteByIDs removes entries by id. Missing ids are not an error, so a
	// retried reconciliation can finish a previously failed one.
	DeleteByIDs(ctx context.Context, ids []string) error

	// AllIDs returns every entry id in the local store.
	AllIDs(ctx context.Context) ([]string, error)

	// GetByID returns one entry, or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.CatalogEntry, error)

	// ListPage returns one page ordered by item date descending, dateless
	// entries last, ties broken by id. The order is stable across calls, so
	// offsets stay valid within a sync epoch.
	ListPage(ctx context.Context, offset, limit int, category string) ([]models.CatalogEntry, error)

	// CountMatching counts entries, optionally narrowed to one category.
	CountMatching(ctx context.Context, category string) (int, error)

	// ListIncomplete returns dated entries released on or before today whose
	// current attempt is missing or not completed. The current attempt is the
	// most recently started one, ties broken by higher id.
	ListIncomplete(ctx context.Context, offset, limit int, today datex.Date) ([]models.CatalogEntry, error)

	// CountIncomplete counts distinct entries that ListIncomplete would
	// return across all pages.
	CountIncomplete(ctx context.Context, today datex.Date) (int, error)
}
