// Package dbx holds the small database plumbing shared by every repository:
// the DBTX interface satisfied by both *sql.DB and *sql.Tx, and WithTx for
// running a function atomically.
package dbx

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is the intersection of *sql.DB and *sql.Tx that repositories use.
// Handing a repository a transaction instead of the pool makes its calls part
// of a larger atomic unit without the repository knowing.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx opens a transaction on db, runs fn against it and commits, or rolls
// back if fn returns an error or panics. Panics propagate after the rollback.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) error {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
