package services

import (
	"context"
	"database/sql"

	"puzzlearchive/internal/server/models"
	"puzzlearchive/internal/server/repositories/repomanager"
)

// GrantService records and lists permanent per-item unlock grants.
type GrantService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewGrantService(db *sql.DB, m repomanager.RepositoryManager) *GrantService {
	return &GrantService{db: db, repomanager: m}
}

// Record stores a grant for an existing catalog item. Unknown puzzle IDs
// surface as common.ErrNotFound; repeating a grant is a no-op.
func (s *GrantService) Record(ctx context.Context, userID, puzzleID string) error {

	// ни одного гранта на несуществующий пазл
	catalogRepo := s.repomanager.Catalog(s.db)
	if _, err := catalogRepo.Get(ctx, puzzleID); err != nil {
		return err
	}

	repo := s.repomanager.Grants(s.db)
	return repo.Create(ctx, userID, puzzleID)
}

// List returns all grants held by the user.
func (s *GrantService) List(ctx context.Context, userID string) ([]*models.UnlockGrant, error) {
	repo := s.repomanager.Grants(s.db)
	return repo.ListByUser(ctx, userID)
}
