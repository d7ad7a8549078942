package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "things-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo
}

func parseRFC3339(t *testing.T, value string) time.Time {
	t.Helper()
	out, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	return out
}

func TestRecordPutGetUpsert(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	first := parseRFC3339(t, "2026-02-09T12:00:00Z")
	repo.now = func() time.Time { return first }

	if err := repo.Put(ctx, "database", "Database", []byte("v1")); err != nil {
		t.Fatalf("put: %v", err)
	}
	rec, err := repo.GetRecord(ctx, "database")
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if rec.Type != "Database" || string(rec.Data) != "v1" || !rec.ModifiedAt.Equal(first) {
		t.Fatalf("unexpected record: %#v", rec)
	}

	second := first.Add(time.Hour)
	repo.now = func() time.Time { return second }
	if err := repo.Put(ctx, "database", "Database", []byte("v2")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	data, err := repo.Get(ctx, "database")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(data) != "v2" {
		t.Fatalf("expected upserted data, got %q", data)
	}
	rec, err = repo.GetRecord(ctx, "database")
	if err != nil {
		t.Fatalf("get record after upsert: %v", err)
	}
	if !rec.ModifiedAt.Equal(second) {
		t.Fatalf("modified_at not bumped: %s", rec.ModifiedAt)
	}
}

func TestRecordNotFound(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from get, got %v", err)
	}
	if err := repo.Delete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from delete, got %v", err)
	}
	if err := repo.Put(ctx, " ", "Database", nil); err == nil {
		t.Fatalf("expected error for blank record name")
	}
}

func TestRecordListAndDelete(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	base := parseRFC3339(t, "2026-02-09T12:00:00Z")

	puts := []struct {
		name, kind string
		offset     time.Duration
	}{
		{"database", "Database", 0},
		{"settings", "Settings", time.Minute},
		{"archive", "Database", 2 * time.Minute},
	}
	for _, p := range puts {
		at := base.Add(p.offset)
		repo.now = func() time.Time { return at }
		if err := repo.Put(ctx, p.name, p.kind, []byte(p.name)); err != nil {
			t.Fatalf("put %s: %v", p.name, err)
		}
	}

	all, err := repo.List(ctx, RecordListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].Name != "archive" || all[2].Name != "database" {
		t.Fatalf("unexpected list order: %#v", all)
	}

	dbs, err := repo.List(ctx, RecordListFilter{Type: "Database", Limit: 1})
	if err != nil {
		t.Fatalf("list by type: %v", err)
	}
	if len(dbs) != 1 || dbs[0].Name != "archive" {
		t.Fatalf("unexpected filtered list: %#v", dbs)
	}

	paged, err := repo.List(ctx, RecordListFilter{Offset: 2})
	if err != nil {
		t.Fatalf("list with offset: %v", err)
	}
	if len(paged) != 1 || paged[0].Name != "database" {
		t.Fatalf("unexpected paged list: %#v", paged)
	}

	if err := repo.Delete(ctx, "settings"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	left, err := repo.List(ctx, RecordListFilter{})
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(left) != 2 {
		t.Fatalf("expected two records after delete, got %d", len(left))
	}
}

func TestOpenSQLiteMigrates(t *testing.T) {
	repo, err := OpenSQLite(filepath.Join(t.TempDir(), "remote.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer repo.Close()
	if err := repo.Put(context.Background(), "database", "Database", []byte("{}")); err != nil {
		t.Fatalf("put on fresh store: %v", err)
	}
	if _, err := OpenSQLite("  "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
