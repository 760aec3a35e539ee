package services

import (
	"context"
	"errors"
	"testing"

	json "github.com/goccy/go-json"

	"puzzlearchive/internal/metrics"
	"puzzlearchive/internal/server/config"
	"puzzlearchive/internal/server/models"
)

func newCatalogService(rm *fakeRepoManager) *CatalogService {
	cfg := &config.Config{SnapshotCacheMB: 1}
	return NewCatalogService(nil, rm, cfg, metrics.NoopHTTP())
}

func TestSnapshot_SerializesWireShape(t *testing.T) {
	rm := &fakeRepoManager{c: &fakeCatalogRepo{all: []*models.CatalogEntry{
		{ID: "p1", Category: "daily", ItemDate: "2025-06-15", Difficulty: "easy", IsSpecial: true},
		{ID: "b1", Category: "mini"},
	}}}
	s := newCatalogService(rm)

	body, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}

	var decoded struct {
		Entries []map[string]any `json:"entries"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}
	if len(decoded.Entries) != 2 {
		t.Fatalf("unexpected entries: %+v", decoded.Entries)
	}
	if decoded.Entries[0]["id"] != "p1" || decoded.Entries[0]["item_date"] != "2025-06-15" {
		t.Fatalf("unexpected first entry: %+v", decoded.Entries[0])
	}
	// dateless entries omit the date key entirely
	if _, ok := decoded.Entries[1]["item_date"]; ok {
		t.Fatalf("dateless entry should omit item_date: %+v", decoded.Entries[1])
	}
}

func TestSnapshot_SecondCallServedFromCache(t *testing.T) {
	rm := &fakeRepoManager{c: &fakeCatalogRepo{all: []*models.CatalogEntry{{ID: "p1"}}}}
	s := newCatalogService(rm)

	first, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}
	second, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}

	if rm.c.allCalls != 1 {
		t.Fatalf("expected one repository load, got %d", rm.c.allCalls)
	}
	if string(first) != string(second) {
		t.Fatalf("cache returned different bytes")
	}
}

func TestSnapshot_EmptyCatalog(t *testing.T) {
	rm := &fakeRepoManager{c: &fakeCatalogRepo{}}
	s := newCatalogService(rm)

	body, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}
	if string(body) != `{"entries":[]}` {
		t.Fatalf("unexpected empty snapshot: %s", body)
	}
}

func TestSnapshot_RepoError(t *testing.T) {
	rm := &fakeRepoManager{c: &fakeCatalogRepo{allErr: errBoom{}}}
	s := newCatalogService(rm)

	_, err := s.Snapshot(context.Background())
	if err == nil || !errors.Is(err, errBoom{}) {
		t.Fatalf("expected wrapped repository error, got %v", err)
	}
}

func TestUpsert_InvalidatesSnapshot(t *testing.T) {
	repo := &fakeCatalogRepo{all: []*models.CatalogEntry{{ID: "p1"}}}
	rm := &fakeRepoManager{c: repo}
	s := newCatalogService(rm)

	if _, err := s.Snapshot(context.Background()); err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}

	repo.all = append(repo.all, &models.CatalogEntry{ID: "p2"})
	if err := s.Upsert(context.Background(), &models.CatalogEntry{ID: "p2"}); err != nil {
		t.Fatalf("Upsert error: %v", err)
	}

	body, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}
	var decoded snapshotResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(decoded.Entries) != 2 {
		t.Fatalf("snapshot not rebuilt after upsert: %+v", decoded.Entries)
	}
	if repo.allCalls != 2 {
		t.Fatalf("expected reload after invalidation, got %d loads", repo.allCalls)
	}
}

func TestDelete_InvalidatesSnapshot(t *testing.T) {
	repo := &fakeCatalogRepo{all: []*models.CatalogEntry{{ID: "p1"}, {ID: "p2"}}}
	rm := &fakeRepoManager{c: repo}
	s := newCatalogService(rm)

	if _, err := s.Snapshot(context.Background()); err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}

	repo.all = repo.all[:1]
	if err := s.Delete(context.Background(), "p2"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "p2" {
		t.Fatalf("delete not delegated: %+v", repo.deleted)
	}

	body, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}
	var decoded snapshotResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(decoded.Entries) != 1 {
		t.Fatalf("snapshot not rebuilt after delete: %+v", decoded.Entries)
	}
}
