package services

import (
	"context"
	"database/sql"
	"fmt"

	"puzzlearchive/internal/dbx"
	"puzzlearchive/internal/server/models"
	"puzzlearchive/internal/server/repositories/repomanager"
)

// AttemptService ingests attempt batches pushed by clients.
type AttemptService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewAttemptService(db *sql.DB, m repomanager.RepositoryManager) *AttemptService {
	return &AttemptService{db: db, repomanager: m}
}

// Ingest upserts the batch for userID in one transaction. Re-pushing a batch
// lands on the same rows, so the client can retry safely.
func (s *AttemptService) Ingest(ctx context.Context, userID string, attempts []*models.Attempt) error {

	if len(attempts) == 0 {
		return nil
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Attempts(tx)

		for _, a := range attempts {
			a.UserID = userID
			if err := repo.Upsert(ctx, a); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("error ingesting attempts: %v", err)
	}

	return nil
}
