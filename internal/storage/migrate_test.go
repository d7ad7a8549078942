package storage

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func openRaw(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "remote.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func recordsTableCount(t *testing.T, db *sql.DB) int {
	t.Helper()
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'records'`).Scan(&count); err != nil {
		t.Fatalf("inspect schema: %v", err)
	}
	return count
}

func TestMigrateTracksSchemaVersion(t *testing.T) {
	db := openRaw(t)

	if v, err := SchemaVersion(db); err != nil || v != 0 {
		t.Fatalf("fresh version = %d, %v; want 0", v, err)
	}
	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Fatalf("repeated migrate up: %v", err)
	}
	if v, _ := SchemaVersion(db); v != 1 {
		t.Fatalf("version after up = %d, want 1", v)
	}
	if recordsTableCount(t, db) != 1 {
		t.Fatalf("records table missing after migrate up")
	}

	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	if v, _ := SchemaVersion(db); v != 0 {
		t.Fatalf("version after down = %d, want 0", v)
	}
	if recordsTableCount(t, db) != 0 {
		t.Fatalf("records table still present after migrate down")
	}
}

func TestRecordsSurviveMigrateRoundTrip(t *testing.T) {
	db := openRaw(t)
	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Fatalf("second migrate up: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	if err := repo.Put(t.Context(), "database", "Database", []byte(`{"tasks":[]}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := repo.Get(t.Context(), "database")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `{"tasks":[]}` {
		t.Fatalf("unexpected data: %q", got)
	}
}

func TestLoadMigrationsPairsScripts(t *testing.T) {
	all, err := loadMigrations()
	if err != nil {
		t.Fatalf("load migrations: %v", err)
	}
	if len(all) == 0 {
		t.Fatalf("no migrations embedded")
	}
	for i, m := range all {
		if m.version != i+1 {
			t.Fatalf("migration %d has version %d", i, m.version)
		}
		if m.up == "" || m.down == "" {
			t.Fatalf("migration %d is missing a script", m.version)
		}
	}
}
