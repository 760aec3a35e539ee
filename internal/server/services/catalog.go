package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/coocood/freecache"
	json "github.com/goccy/go-json"

	"puzzlearchive/internal/metrics"
	"puzzlearchive/internal/server/config"
	"puzzlearchive/internal/server/models"
	"puzzlearchive/internal/server/repositories/repomanager"
)

// snapshotTTL bounds staleness if an invalidation is ever missed; admin
// writes invalidate eagerly, so in practice the cache tracks the table.
const snapshotTTL = 60

var snapshotKey = []byte("catalog_snapshot")

// snapshotEntry is the wire shape of one catalog entry in the public
// snapshot. Field names are part of the client contract.
type snapshotEntry struct {
	ID         string `json:"id"`
	Category   string `json:"category"`
	ItemDate   string `json:"item_date,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	IsSpecial  bool   `json:"is_special,omitempty"`
}

type snapshotResponse struct {
	Entries []snapshotEntry `json:"entries"`
}

// CatalogService serves the public catalog snapshot and the admin write
// operations. The serialized snapshot is cached in-memory; every write
// invalidates it.
type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       *freecache.Cache
	recorder    metrics.HTTPRecorder
}

func NewCatalogService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, recorder metrics.HTTPRecorder) *CatalogService {
	return &CatalogService{
		db:          db,
		repomanager: m,
		cache:       freecache.NewCache(cfg.SnapshotCacheMB * 1024 * 1024),
		recorder:    recorder,
	}
}

// Snapshot returns the serialized {"entries": [...]} document for the whole
// catalog.
func (s *CatalogService) Snapshot(ctx context.Context) ([]byte, error) {

	if cached, err := s.cache.Get(snapshotKey); err == nil {
		s.recorder.IncCacheHits()
		return cached, nil
	}
	s.recorder.IncCacheMisses()

	repo := s.repomanager.Catalog(s.db)
	entries, err := repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading catalog: %w", err)
	}

	resp := snapshotResponse{Entries: make([]snapshotEntry, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, snapshotEntry{
			ID:         e.ID,
			Category:   e.Category,
			ItemDate:   e.ItemDate,
			Difficulty: e.Difficulty,
			IsSpecial:  e.IsSpecial,
		})
	}

	body, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("error serializing catalog: %w", err)
	}

	// a snapshot larger than the cache limit is served uncached
	_ = s.cache.Set(snapshotKey, body, snapshotTTL)

	return body, nil
}

// Upsert creates or replaces a catalog entry and invalidates the snapshot.
func (s *CatalogService) Upsert(ctx context.Context, entry *models.CatalogEntry) error {
	repo := s.repomanager.Catalog(s.db)
	if err := repo.Upsert(ctx, entry); err != nil {
		return err
	}
	s.cache.Del(snapshotKey)
	return nil
}

// Delete removes a catalog entry and invalidates the snapshot.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	repo := s.repomanager.Catalog(s.db)
	if err := repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Del(snapshotKey)
	return nil
}
