// Package services holds the archive-side application services: the catalog
// sync engine that replicates the remote catalog into the local store, the
// attempt uploader and the content fetcher.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"puzzlearchive/internal/archive/db"
	"puzzlearchive/internal/archive/models"
	"puzzlearchive/internal/archive/remote"
	"puzzlearchive/internal/archive/repositories/attempts"
	"puzzlearchive/internal/archive/repositories/catalog"
	"puzzlearchive/internal/common"
	"puzzlearchive/internal/dbx"
	"puzzlearchive/internal/logging"
	"puzzlearchive/internal/metrics"
)

// SyncEngine pulls the full remote catalog into the local replica and pushes
// locally recorded attempts back. One engine serves one open database.
type SyncEngine struct {
	repos    *db.Repositories
	remote   remote.Catalog
	sink     remote.AttemptSink
	logger   logging.Logger
	recorder metrics.SyncRecorder

	mu             sync.Mutex
	lastFullSyncAt time.Time
}

func NewSyncEngine(repos *db.Repositories, rc remote.Catalog, sink remote.AttemptSink, logger logging.Logger, recorder metrics.SyncRecorder) *SyncEngine {
	return &SyncEngine{
		repos:    repos,
		remote:   rc,
		sink:     sink,
		logger:   logger,
		recorder: recorder,
	}
}

// Sync replicates the remote catalog into the local store. The server
// snapshot is the source of truth: entries it carries are upserted, local
// entries it no longer carries are removed. Attempt rows are never touched.
//
// Every mode runs as a full pull. The incremental mode is accepted for
// compatibility with older callers and logged, then treated as full: partial
// pulls cannot observe remote deletions, so orphans would accumulate.
func (s *SyncEngine) Sync(ctx context.Context, mode models.SyncMode) models.SyncResult {
	start := time.Now()

	if mode == models.SyncModeIncremental {
		s.logger.Warn(ctx, "incremental sync is retired, running a full pull", "mode", mode.String())
	}

	records, err := s.remote.FetchCatalog(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %v", common.ErrRemoteFetch, err)
		s.logger.Error(ctx, "catalog fetch failed, local store untouched", "error", err)
		s.failure(start)
		return models.SyncResult{Success: false, Err: err}
	}

	entries := make([]models.CatalogEntry, 0, len(records))
	serverIDs := make(map[string]struct{}, len(records))
	for _, r := range records {
		entries = append(entries, models.CatalogEntry{
			ID:         r.ID,
			Category:   r.Category,
			ItemDate:   r.ItemDate,
			Difficulty: r.Difficulty,
			IsSpecial:  r.IsSpecial,
		})
		serverIDs[r.ID] = struct{}{}
	}

	syncedAt := time.Now()
	var orphans []string

	// Orphan removal and upsert commit together or not at all, so a failed
	// run leaves the previous replica intact.
	err = dbx.WithTx(ctx, s.repos.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := catalog.NewSQLiteRepository(tx)

		localIDs, err := repo.AllIDs(ctx)
		if err != nil {
			return fmt.Errorf("error listing local entries: %w", err)
		}

		orphans = orphans[:0]
		for _, id := range localIDs {
			if _, ok := serverIDs[id]; !ok {
				orphans = append(orphans, id)
			}
		}

		if len(orphans) > 0 {
			if err := repo.DeleteByIDs(ctx, orphans); err != nil {
				return fmt.Errorf("error removing orphaned entries: %w", err)
			}
		}

		if err := repo.UpsertBatch(ctx, entries, syncedAt); err != nil {
			return fmt.Errorf("error upserting entries: %w", err)
		}

		return nil
	})
	if err != nil {
		s.logger.Error(ctx, "catalog sync rolled back", "error", err)
		s.failure(start)
		return models.SyncResult{Success: false, Err: err}
	}

	s.mu.Lock()
	s.lastFullSyncAt = syncedAt
	s.mu.Unlock()

	s.recorder.IncSyncRuns(metrics.OutcomeSuccess)
	s.recorder.ObserveSyncDuration(time.Since(start))
	s.recorder.AddEntriesUpserted(len(entries))
	s.recorder.AddOrphansRemoved(len(orphans))

	s.logger.Info(ctx, "catalog sync complete",
		"entries", len(entries), "orphans_removed", len(orphans))

	return models.SyncResult{
		Success:        true,
		SyncedCount:    len(entries),
		OrphansRemoved: len(orphans),
	}
}

func (s *SyncEngine) failure(start time.Time) {
	s.recorder.IncSyncRuns(metrics.OutcomeFailure)
	s.recorder.ObserveSyncDuration(time.Since(start))
}

// LastFullSyncAt returns when this engine last completed a full pull, zero
// if it has not completed one yet.
func (s *SyncEngine) LastFullSyncAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFullSyncAt
}

// PushAttempts uploads attempts not yet seen by the server and marks them
// uploaded. A failed upload leaves the pending flags untouched, so the next
// trigger retries the same rows. Push never gates the catalog pull.
func (s *SyncEngine) PushAttempts(ctx context.Context) error {
	pending, err := s.repos.Attempts.PendingUpload(ctx)
	if err != nil {
		return fmt.Errorf("error loading pending attempts: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	if err := s.sink.PushAttempts(ctx, pending); err != nil {
		s.recorder.IncAttemptPushes(metrics.OutcomeFailure)
		return fmt.Errorf("error pushing attempts: %w", err)
	}

	ids := make([]string, 0, len(pending))
	for _, a := range pending {
		ids = append(ids, a.ID)
	}

	err = dbx.WithTx(ctx, s.repos.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return attempts.NewSQLiteRepository(tx).MarkUploaded(ctx, ids)
	})
	if err != nil {
		s.recorder.IncAttemptPushes(metrics.OutcomeFailure)
		return fmt.Errorf("error marking attempts uploaded: %w", err)
	}

	s.recorder.IncAttemptPushes(metrics.OutcomeSuccess)
	s.logger.Info(ctx, "attempts uploaded", "count", len(ids))
	return nil
}
