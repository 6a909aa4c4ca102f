package migration

import (
	"database/sql"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"

	"github.com/iamhollywoodpro/strivetrack/migrations"
)

func setupTestDB(t *testing.T) (*sql.DB, func()) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	return db, func() { db.Close() }
}

func files(m map[string]string) fstest.MapFS {
	out := fstest.MapFS{}
	for name, content := range m {
		out[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return out
}

func TestGetCurrentVersion(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	runner := NewRunner(db, files(map[string]string{"001_test.sql": "CREATE TABLE test (id INTEGER);"}))

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}

	if err := runner.SetVersion(5); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	version, err = runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 5 {
		t.Errorf("expected version 5, got %d", version)
	}
}

func TestReadMigrationFiles(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	runner := NewRunner(db, files(map[string]string{
		"002_second.sql": "SELECT 2;",
		"001_first.sql":  "SELECT 1;",
		"README.md":      "not a migration",
	}))

	got, err := runner.ReadMigrationFiles()
	if err != nil {
		t.Fatalf("ReadMigrationFiles failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(got))
	}
	if got[0].Version != 1 || got[0].Name != "first" {
		t.Errorf("first migration = %+v, want version 1 named first", got[0])
	}
	if got[1].Version != 2 || got[1].Name != "second" {
		t.Errorf("second migration = %+v, want version 2 named second", got[1])
	}
}

func TestApplyMigrationsFromScratch(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	runner := NewRunner(db, files(map[string]string{
		"001_records.sql": "CREATE TABLE records (key TEXT PRIMARY KEY, value TEXT);",
		"002_extra.sql":   "ALTER TABLE records ADD COLUMN updated_at TEXT;",
	}))

	var logs []string
	applied, err := runner.ApplyMigrations(func(s string) { logs = append(logs, s) })
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if applied != 2 {
		t.Errorf("applied = %d, want 2", applied)
	}
	if version, _ := runner.GetCurrentVersion(); version != 2 {
		t.Errorf("version = %d, want 2", version)
	}
	if _, err := db.Exec("INSERT INTO records (key, value, updated_at) VALUES ('k', 'v', 'now')"); err != nil {
		t.Errorf("schema not applied: %v", err)
	}
	if len(logs) == 0 {
		t.Error("expected progress messages from ApplyMigrations")
	}
}

func TestApplyMigrationsIncremental(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	first := files(map[string]string{"001_records.sql": "CREATE TABLE records (key TEXT PRIMARY KEY);"})
	if _, err := NewRunner(db, first).ApplyMigrations(nil); err != nil {
		t.Fatalf("initial ApplyMigrations failed: %v", err)
	}

	both := files(map[string]string{
		"001_records.sql": "CREATE TABLE records (key TEXT PRIMARY KEY);",
		"002_index.sql":   "CREATE INDEX idx_key ON records (key);",
	})
	runner := NewRunner(db, both)

	pending, err := runner.Pending()
	if err != nil {
		t.Fatalf("Pending failed: %v", err)
	}
	if len(pending) != 1 || pending[0].Version != 2 {
		t.Fatalf("pending = %+v, want only version 2", pending)
	}

	applied, err := runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if applied != 1 {
		t.Errorf("applied = %d, want 1", applied)
	}
}

func TestApplyMigrationsNoOp(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	runner := NewRunner(db, files(map[string]string{"001_records.sql": "CREATE TABLE records (key TEXT);"}))
	if _, err := runner.ApplyMigrations(nil); err != nil {
		t.Fatalf("first ApplyMigrations failed: %v", err)
	}
	applied, err := runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("second ApplyMigrations failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("applied = %d, want 0", applied)
	}
}

func TestMigrationRollbackOnError(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	runner := NewRunner(db, files(map[string]string{
		"001_ok.sql":     "CREATE TABLE records (key TEXT);",
		"002_broken.sql": "CREATE TABLE broken (;",
	}))

	applied, err := runner.ApplyMigrations(nil)
	if err == nil {
		t.Fatal("expected error from broken migration")
	}
	if applied != 1 {
		t.Errorf("applied = %d, want 1", applied)
	}
	if version, _ := runner.GetCurrentVersion(); version != 1 {
		t.Errorf("version = %d, want 1 after rollback", version)
	}
}

func TestValidateVersionNewerDatabase(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	runner := NewRunner(db, files(map[string]string{"001_records.sql": "SELECT 1;"}))
	if err := runner.SetVersion(9); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}

	err := runner.ValidateVersion()
	if err == nil || !strings.Contains(err.Error(), "newer than supported") {
		t.Errorf("ValidateVersion() error = %v, want newer-than-supported error", err)
	}
	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Error("ApplyMigrations() should refuse a newer database")
	}
}

func TestMigrationFilenameValidation(t *testing.T) {
	tests := []struct {
		name     string
		filename string
	}{
		{name: "missing underscore", filename: "001.sql"},
		{name: "non numeric version", filename: "abc_init.sql"},
		{name: "zero version", filename: "000_init.sql"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, cleanup := setupTestDB(t)
			defer cleanup()

			runner := NewRunner(db, files(map[string]string{tt.filename: "SELECT 1;"}))
			if _, err := runner.ReadMigrationFiles(); err == nil {
				t.Errorf("ReadMigrationFiles() accepted %s", tt.filename)
			}
		})
	}
}

func TestDuplicateVersionDetection(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	runner := NewRunner(db, files(map[string]string{
		"001_a.sql": "SELECT 1;",
		"001_b.sql": "SELECT 1;",
	}))
	_, err := runner.ReadMigrationFiles()
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("ReadMigrationFiles() error = %v, want duplicate version error", err)
	}
}

func TestEmbeddedSQLiteMigrations(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		t.Fatalf("fs.Sub failed: %v", err)
	}
	runner := NewRunner(db, sub)
	if _, err := runner.ApplyMigrations(nil); err != nil {
		t.Fatalf("embedded migrations failed: %v", err)
	}
	latest, _ := runner.GetLatestVersion()
	current, _ := runner.GetCurrentVersion()
	if current != latest || latest < 1 {
		t.Errorf("current = %d, latest = %d", current, latest)
	}
}
