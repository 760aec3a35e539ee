package repomanager

import (
	"context"
	"database/sql"

	"puzzlearchive/internal/dbx"
	"puzzlearchive/internal/server/repositories/attempts"
	"puzzlearchive/internal/server/repositories/catalog"
	"puzzlearchive/internal/server/repositories/grants"
	"puzzlearchive/internal/server/repositories/refreshtokens"
	"puzzlearchive/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Catalog(db dbx.DBTX) catalog.Repository
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Attempts(db dbx.DBTX) attempts.Repository
	Grants(db dbx.DBTX) grants.Repository
}
