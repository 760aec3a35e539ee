package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"puzzlearchive/internal/common"
	"puzzlearchive/internal/dbx"
	"puzzlearchive/internal/server/models"
)

// PostgresRepository implements catalog storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) All(ctx context.Context) ([]*models.CatalogEntry, error) {
	query := `
		SELECT id, category, item_date, difficulty, is_special, content_key, updated_at
		FROM catalog_entries
		ORDER BY item_date = '', item_date DESC, id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.CatalogEntry
	for rows.Next() {
		var item models.CatalogEntry
		if err := rows.Scan(
			&item.ID, &item.Category, &item.ItemDate, &item.Difficulty,
			&item.IsSpecial, &item.ContentKey, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.CatalogEntry, error) {
	query := `
		SELECT id, category, item_date, difficulty, is_special, content_key, updated_at
		FROM catalog_entries
		WHERE id = $1
	`
	entry := &models.CatalogEntry{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&entry.ID, &entry.Category, &entry.ItemDate, &entry.Difficulty,
		&entry.IsSpecial, &entry.ContentKey, &entry.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entry, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, entry *models.CatalogEntry) error {
	query := `
		INSERT INTO catalog_entries (id, category, item_date, difficulty, is_special, content_key, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (id)
		DO UPDATE SET
			category = EXCLUDED.category,
			item_date = EXCLUDED.item_date,
			difficulty = EXCLUDED.difficulty,
			is_special = EXCLUDED.is_special,
			content_key = EXCLUDED.content_key,
			updated_at = now()
	`
	if _, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.Category, entry.ItemDate, entry.Difficulty, entry.IsSpecial, entry.ContentKey); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM catalog_entries
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
