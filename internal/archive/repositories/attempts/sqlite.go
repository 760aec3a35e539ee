package attempts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"puzzlearchive/internal/archive/models"
	"puzzlearchive/internal/common"
	"puzzlearchive/internal/dbx"
)

// SQLiteRepository implements Repository over a DBTX.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, a *models.Attempt) error {
	query := `INSERT INTO attempts (id, puzzle_id, completed, score, started_at, completed_at, metadata, synced)
			VALUES (?, ?, ?, ?, ?, ?, ?, 0)`

	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.PuzzleID, a.Completed, a.Score, a.StartedAt,
		nullableTime(a.CompletedAt), metadataOrEmpty(a.Metadata))
	if err != nil {
		return fmt.Errorf("failed to insert attempt: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Complete(ctx context.Context, id string, score int64, completedAt time.Time, metadata json.RawMessage) error {
	query := `UPDATE attempts
			SET completed = 1, score = ?, completed_at = ?, metadata = ?, synced = 0
			WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, score, completedAt, metadataOrEmpty(metadata), id)
	if err != nil {
		return fmt.Errorf("failed to complete attempt: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return fmt.Errorf("wrong rows affected count: %d", ra)
	}
	return nil
}

func (r *SQLiteRepository) HasCompleted(ctx context.Context, puzzleID string) (bool, error) {
	// hits the (puzzle_id, completed) index
	query := `SELECT EXISTS(SELECT 1 FROM attempts WHERE puzzle_id = ? AND completed = 1)`

	var ok bool
	if err := r.db.QueryRowContext(ctx, query, puzzleID).Scan(&ok); err != nil {
		return false, fmt.Errorf("failed to check completion: %w", err)
	}
	return ok, nil
}

func (r *SQLiteRepository) CompletedIn(ctx context.Context, puzzleIDs []string) (map[string]bool, error) {
	result := make(map[string]bool, len(puzzleIDs))
	if len(puzzleIDs) == 0 {
		return result, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(puzzleIDs)), ",")
	query := `SELECT DISTINCT puzzle_id FROM attempts
			WHERE completed = 1 AND puzzle_id IN (` + placeholders + `)`

	args := make([]any, len(puzzleIDs))
	for i, id := range puzzleIDs {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select completions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		result[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) CurrentAttempt(ctx context.Context, puzzleID string) (*models.Attempt, error) {
	query := `SELECT id, puzzle_id, completed, score, started_at, completed_at, metadata, synced
			FROM attempts
			WHERE puzzle_id = ?
			ORDER BY started_at DESC, id DESC
			LIMIT 1`

	a, err := scanAttempt(r.db.QueryRowContext(ctx, query, puzzleID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get current attempt: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepository) PendingUpload(ctx context.Context) ([]models.Attempt, error) {
	query := `SELECT id, puzzle_id, completed, score, started_at, completed_at, metadata, synced
			FROM attempts
			WHERE synced = 0
			ORDER BY started_at, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select pending attempts: %w", err)
	}
	defer rows.Close()

	var pending []models.Attempt
	for rows.Next() {
		a, err := scanAttempt(rows.Scan)
		if err != nil {
			return nil, err
		}
		pending = append(pending, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return pending, nil
}

func (r *SQLiteRepository) MarkUploaded(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if _, err := r.db.ExecContext(ctx, `UPDATE attempts SET synced = 1 WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to mark attempt %s uploaded: %w", id, err)
		}
	}
	return nil
}

func scanAttempt(scan func(dest ...any) error) (*models.Attempt, error) {
	var a models.Attempt
	var completedAt sql.NullTime
	var metadata []byte
	if err := scan(&a.ID, &a.PuzzleID, &a.Completed, &a.Score, &a.StartedAt,
		&completedAt, &metadata, &a.Synced); err != nil {
		return nil, err
	}
	a.CompletedAt = completedAt.Time
	a.Metadata = json.RawMessage(metadata)
	return &a, nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func metadataOrEmpty(m json.RawMessage) string {
	if len(m) == 0 {
		return "{}"
	}
	return string(m)
}
