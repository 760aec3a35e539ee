package grants

import (
	"context"
	"fmt"

	"puzzlearchive/internal/dbx"
	"puzzlearchive/internal/server/models"
)

// PostgresRepository implements grant storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID, puzzleID string) error {
	query := `
		INSERT INTO unlock_grants (user_id, puzzle_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, puzzle_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, userID, puzzleID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.UnlockGrant, error) {
	query := `
		SELECT user_id, puzzle_id, granted_at
		FROM unlock_grants
		WHERE user_id = $1
		ORDER BY granted_at, puzzle_id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.UnlockGrant
	for rows.Next() {
		var item models.UnlockGrant
		if err := rows.Scan(&item.UserID, &item.PuzzleID, &item.GrantedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Has(ctx context.Context, userID, puzzleID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM unlock_grants
			WHERE user_id = $1 AND puzzle_id = $2
		)
	`
	var found bool
	if err := r.db.QueryRowContext(ctx, query, userID, puzzleID).Scan(&found); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return found, nil
}
