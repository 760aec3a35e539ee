// Package db opens the local SQLite replica, applies migrations and bundles
// the archive repositories.
package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"puzzlearchive/internal/archive/migrations"
	"puzzlearchive/internal/archive/repositories/attempts"
	"puzzlearchive/internal/archive/repositories/catalog"
)

// Repositories bundles the open database with its repositories. DB is
// exported so services can wrap repository calls in dbx.WithTx.
type Repositories struct {
	DB       *sql.DB
	Catalog  catalog.Repository
	Attempts attempts.Repository
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the replica at dsn, migrates it and returns the
// repository bundle. Foreign key enforcement stays at the SQLite default
// (off): attempts must outlive their catalog entries.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &Repositories{
		DB:       db,
		Catalog:  catalog.NewSQLiteRepository(db),
		Attempts: attempts.NewSQLiteRepository(db),
	}, nil
}
