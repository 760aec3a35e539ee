// Package catalog provides the PostgreSQL-backed repository for the canonical
// catalog table that sync snapshots are served from.
package catalog

import (
	"context"

	"puzzlearchive/internal/server/models"
)

type Repository interface {
	// All returns every catalog entry, dated ones newest first, dateless
	// backlog items last.
	All(ctx context.Context) ([]*models.CatalogEntry, error)

	// Get returns one entry by ID; common.ErrNotFound when absent.
	Get(ctx context.Context, id string) (*models.CatalogEntry, error)

	// Upsert creates or replaces an entry by ID.
	Upsert(ctx context.Context, entry *models.CatalogEntry) error

	// Delete removes an entry by ID. Deleting a non-existent entry is not an
	// error.
	Delete(ctx context.Context, id string) error
}
