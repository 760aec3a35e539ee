package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"puzzlearchive/internal/common"
	"puzzlearchive/internal/dbx"
	attemptsrepo "puzzlearchive/internal/server/repositories/attempts"
	catalogrepo "puzzlearchive/internal/server/repositories/catalog"
	grantsrepo "puzzlearchive/internal/server/repositories/grants"
	refreshtokensrepo "puzzlearchive/internal/server/repositories/refreshtokens"
	usersrepo "puzzlearchive/internal/server/repositories/users"

	"puzzlearchive/internal/server/models"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

// --- fake repositories; every method ignores the DBTX it was vended for ---

type fakeCatalogRepo struct {
	all       []*models.CatalogEntry
	allErr    error
	allCalls  int
	entries   map[string]*models.CatalogEntry
	upserted  []*models.CatalogEntry
	upsertErr error
	deleted   []string
	deleteErr error
}

func (f *fakeCatalogRepo) All(ctx context.Context) ([]*models.CatalogEntry, error) {
	f.allCalls++
	if f.allErr != nil {
		return nil, f.allErr
	}
	return f.all, nil
}

func (f *fakeCatalogRepo) Get(ctx context.Context, id string) (*models.CatalogEntry, error) {
	if e, ok := f.entries[id]; ok {
		return e, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeCatalogRepo) Upsert(ctx context.Context, entry *models.CatalogEntry) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, entry)
	return nil
}

func (f *fakeCatalogRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	byUsername map[string]*models.User
	byID       map[string]*models.User
	getErr     error

	premiumSet map[string]time.Time
	premiumErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byUsername[username]; ok {
		return u, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeUsersRepo) SetPremiumUntil(ctx context.Context, username string, until time.Time) error {
	if f.premiumErr != nil {
		return f.premiumErr
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

	delErr error

	created   []string
	createErr error
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	if f.createErr != nil {
		return f.createErr
	}
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
	return f.delErr
}

type fakeAttemptsRepo struct {
	upserted  []*models.Attempt
	upsertErr error

	completed map[string]bool // "userID|puzzleID"
	hasErr    error
}

func (f *fakeAttemptsRepo) Upsert(ctx context.Context, a *models.Attempt) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, a)
	return nil
}

func (f *fakeAttemptsRepo) HasCompleted(ctx context.Context, userID, puzzleID string) (bool, error) {
	if f.hasErr != nil {
		return false, f.hasErr
	}
	return f.completed[userID+"|"+puzzleID], nil
}

type fakeGrantsRepo struct {
	created   []string // "userID|puzzleID"
	createErr error

	grants  map[string]bool // "userID|puzzleID"
	listOut []*models.UnlockGrant
	listErr error
}

func (f *fakeGrantsRepo) Create(ctx context.Context, userID, puzzleID string) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, userID+"|"+puzzleID)
	return nil
}

func (f *fakeGrantsRepo) ListByUser(ctx context.Context, userID string) ([]*models.UnlockGrant, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
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
