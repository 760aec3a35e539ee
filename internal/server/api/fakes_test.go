package api

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"puzzlearchive/internal/common"
	"puzzlearchive/internal/dbx"
	"puzzlearchive/internal/server/models"
	attemptsrepo "puzzlearchive/internal/server/repositories/attempts"
	catalogrepo "puzzlearchive/internal/server/repositories/catalog"
	grantsrepo "puzzlearchive/internal/server/repositories/grants"
	refreshtokensrepo "puzzlearchive/internal/server/repositories/refreshtokens"
	usersrepo "puzzlearchive/internal/server/repositories/users"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error initializing sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

type fakeCatalogRepo struct {
	all     []*models.CatalogEntry
	entries map[string]*models.CatalogEntry

	upserted []*models.CatalogEntry
	deleted  []string
}

func (f *fakeCatalogRepo) All(ctx context.Context) ([]*models.CatalogEntry, error) {
	return f.all, nil
}

func (f *fakeCatalogRepo) Get(ctx context.Context, id string) (*models.CatalogEntry, error) {
	if e, ok := f.entries[id]; ok {
		return e, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeCatalogRepo) Upsert(ctx context.Context, entry *models.CatalogEntry) error {
	f.upserted = append(f.upserted, entry)
	return nil
}

func (f *fakeCatalogRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	byUsername map[string]*models.User
	byID       map[string]*models.User

	premiumSet map[string]time.Time
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if u, ok := f.byUsername[username]; ok {
		return u, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeUsersRepo) SetPremiumUntil(ctx context.Context, username string, until time.Time) error {
	if _, ok := f.byUsername[username]; !ok {
		return common.ErrNotFound
	}
	if f.premiumSet == nil {
		f.premiumSet = map[string]time.Time{}
	}
	f.premiumSet[username] = until
	return nil
}

type fakeRefreshRepo struct {
	findOut *models.RefreshToken
	findErr error

	created []string
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	f.created = append(f.created, token)
	return nil
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	return nil
}

type fakeAttemptsRepo struct {
	upserted  []*models.Attempt
	completed map[string]bool // "userID|puzzleID"
}

func (f *fakeAttemptsRepo) Upsert(ctx context.Context, a *models.Attempt) error {
	f.upserted = append(f.upserted, a)
	return nil
}

func (f *fakeAttemptsRepo) HasCompleted(ctx context.Context, userID, puzzleID string) (bool, error) {
	return f.completed[userID+"|"+puzzleID], nil
}

type fakeGrantsRepo struct {
	created []string // "userID|puzzleID"

	grants  map[string]bool // "userID|puzzleID"
	listOut []*models.UnlockGrant
}

func (f *fakeGrantsRepo) Create(ctx context.Context, userID, puzzleID string) error {
	f.created = append(f.created, userID+"|"+puzzleID)
	return nil
}

func (f *fakeGrantsRepo) ListByUser(ctx context.Context, userID string) ([]*models.UnlockGrant, error) {
	return f.listOut, nil
}

func (f *fakeGrantsRepo) Has(ctx context.Context, userID, puzzleID string) (bool, error) {
	return f.grants[userID+"|"+puzzleID], nil
}

type fakeRepoManager struct {
	c *fakeCatalogRepo
	u *fakeUsersRepo
	r *fakeRefreshRepo
	a *fakeAttemptsRepo
	g *fakeGrantsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Catalog(db dbx.DBTX) catalogrepo.Repository  { return m.c }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository      { return m.u }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository {
	return m.r
}
func (m *fakeRepoManager) Attempts(db dbx.DBTX) attemptsrepo.Repository { return m.a }
func (m *fakeRepoManager) Grants(db dbx.DBTX) grantsrepo.Repository     { return m.g }
