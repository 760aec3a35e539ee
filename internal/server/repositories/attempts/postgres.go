package attempts

import (
	"context"
	"fmt"

	"puzzlearchive/internal/dbx"
	"puzzlearchive/internal/server/models"
)

// PostgresRepository implements attempt storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, attempt *models.Attempt) error {
	query := `
		INSERT INTO attempts (id, user_id, puzzle_id, completed, score, started_at, completed_at, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, id)
		DO UPDATE SET
			completed = EXCLUDED.completed,
			score = EXCLUDED.score,
			started_at = EXCLUDED.started_at,
			completed_at = EXCLUDED.completed_at,
			metadata = EXCLUDED.metadata,
			received_at = now()
	`
	if _, err := r.db.ExecContext(ctx, query,
		attempt.ID, attempt.UserID, attempt.PuzzleID, attempt.Completed,
		attempt.Score, attempt.StartedAt, attempt.CompletedAt, attempt.Metadata); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) HasCompleted(ctx context.Context, userID, puzzleID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM attempts
			WHERE user_id = $1 AND puzzle_id = $2 AND completed
		)
	`
	var completed bool
	if err := r.db.QueryRowContext(ctx, query, userID, puzzleID).Scan(&completed); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return completed, nil
}
