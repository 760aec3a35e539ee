package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"puzzlearchive/internal/archive/models"
	"puzzlearchive/internal/common"
	"puzzlearchive/internal/datex"
	"puzzlearchive/internal/dbx"
)

// SQLiteRepository implements Repository over a DBTX (either *sql.DB or
// *sql.Tx), so the sync engine can run it inside its transaction.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// currentAttemptJoin pins at most one attempt row per entry: the most
// recently started, ties broken by higher id. Without it SQLite would pick an
// arbitrary row whenever corrupt data holds several attempts for one puzzle.
const currentAttemptJoin = `
	LEFT JOIN attempts a ON a.puzzle_id = c.id
		AND a.id = (
			SELECT a2.id FROM attempts a2
			WHERE a2.puzzle_id = c.id
			ORDER BY a2.started_at DESC, a2.id DESC
			LIMIT 1
		)`

func (r *SQLiteRepository) UpsertBatch(ctx context.Context, entries []models.CatalogEntry, syncedAt time.Time) error {
	query := `INSERT INTO catalog_entries (id, category, item_date, difficulty, is_special, synced_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				category = excluded.category,
				item_date = excluded.item_date,
				difficulty = excluded.difficulty,
				is_special = excluded.is_special,
				synced_at = excluded.synced_at`

	for _, e := range entries {
		_, err := r.db.ExecContext(ctx, query,
			e.ID, e.Category, nullableDate(e.ItemDate), e.Difficulty, e.IsSpecial, syncedAt)
		if err != nil {
			return fmt.Errorf("failed to upsert catalog entry %s: %w", e.ID, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM catalog_entries WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete catalog entry %s: %w", id, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) AllIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM catalog_entries`)
	if err != nil {
		return nil, fmt.Errorf("failed to select catalog ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.CatalogEntry, error) {
	query := `SELECT id, category, item_date, difficulty, is_special, synced_at
			FROM catalog_entries WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	e, err := scanEntry(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get catalog entry: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) ListPage(ctx context.Context, offset, limit int, category string) ([]models.CatalogEntry, error) {
	query := `SELECT id, category, item_date, difficulty, is_special, synced_at
			FROM catalog_entries`
	args := []any{}
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY item_date DESC NULLS LAST, id LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	return r.queryEntries(ctx, query, args...)
}

func (r *SQLiteRepository) CountMatching(ctx context.Context, category string) (int, error) {
	query := `SELECT COUNT(*) FROM catalog_entries`
	args := []any{}
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count catalog entries: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) ListIncomplete(ctx context.Context, offset, limit int, today datex.Date) ([]models.CatalogEntry, error) {
	query := `SELECT c.id, c.category, c.item_date, c.difficulty, c.is_special, c.synced_at
			FROM catalog_entries c` + currentAttemptJoin + `
			WHERE c.item_date IS NOT NULL
			  AND c.item_date <= ?
			  AND (a.id IS NULL OR a.completed = 0)
			ORDER BY c.item_date DESC, c.id
			LIMIT ? OFFSET ?`

	return r.queryEntries(ctx, query, today.String(), limit, offset)
}

func (r *SQLiteRepository) CountIncomplete(ctx context.Context, today datex.Date) (int, error) {
	// Same join as ListIncomplete: it yields at most one row per entry, so a
	// plain count is a distinct-entry count.
	query := `SELECT COUNT(*)
			FROM catalog_entries c` + currentAttemptJoin + `
			WHERE c.item_date IS NOT NULL
			  AND c.item_date <= ?
			  AND (a.id IS NULL OR a.completed = 0)`

	var n int
	if err := r.db.QueryRowContext(ctx, query, today.String()).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count incomplete entries: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) queryEntries(ctx context.Context, query string, args ...any) ([]models.CatalogEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select catalog entries: %w", err)
	}
	defer rows.Close()

	var result []models.CatalogEntry
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanEntry(scan func(dest ...any) error) (*models.CatalogEntry, error) {
	var e models.CatalogEntry
	var itemDate sql.NullString
	if err := scan(&e.ID, &e.Category, &itemDate, &e.Difficulty, &e.IsSpecial, &e.SyncedAt); err != nil {
		return nil, err
	}
	e.ItemDate = itemDate.String
	return &e, nil
}

// nullableDate maps the empty date of backlog items to NULL, keeping them out
// of item_date range comparisons.
func nullableDate(s string) any {
	if s == "" {
		return nil
	}
	return s
}
