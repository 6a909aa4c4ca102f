package sqlite

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func setupTestStore(t *testing.T) (*Store, string, func()) {
	dbPath := filepath.Join(t.TempDir(), "nested", "strivetrack.db")
	store := NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	return store, dbPath, func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}
}

func TestInitCreatesDatabase(t *testing.T) {
	_, dbPath, cleanup := setupTestStore(t)
	defer cleanup()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file was not created at %s", dbPath)
	}
}

func TestInitIdempotent(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	if err := store.Init(); err != nil {
		t.Errorf("second Init() failed: %v", err)
	}
}

func TestLoadUninitialized(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Load() error = %v, want %v", err, ErrNotInitialized)
	}
	if _, _, err := store.Get("k"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Get() before Load error = %v, want %v", err, ErrNotInitialized)
	}
}

func TestGetSetDelete(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	if _, ok, err := store.Get("user_1_habits"); err != nil || ok {
		t.Fatalf("Get() on empty store = ok %v, err %v", ok, err)
	}

	if err := store.Set("user_1_habits", `[{"id":"h1"}]`); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := store.Set("user_1_habits", `[]`); err != nil {
		t.Fatalf("Set() overwrite failed: %v", err)
	}

	value, ok, err := store.Get("user_1_habits")
	if err != nil || !ok || value != "[]" {
		t.Errorf("Get() = %q, %v, %v; want \"[]\", true, nil", value, ok, err)
	}

	if err := store.Delete("user_1_habits"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, ok, _ := store.Get("user_1_habits"); ok {
		t.Error("key still present after Delete()")
	}
}

func TestKeysAndClear(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	for _, k := range []string{"user_1_habits", "user_1_goals", "user_10_habits", "strivetrack_users"} {
		if err := store.Set(k, "{}"); err != nil {
			t.Fatalf("Set(%s) failed: %v", k, err)
		}
	}

	keys, err := store.Keys("user_1_")
	if err != nil {
		t.Fatalf("Keys() failed: %v", err)
	}
	if len(keys) != 2 || keys[0] != "user_1_goals" || keys[1] != "user_1_habits" {
		t.Errorf("Keys(user_1_) = %v, want [user_1_goals user_1_habits]", keys)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	keys, _ = store.Keys("")
	if len(keys) != 0 {
		t.Errorf("Keys() after Clear() = %v, want none", keys)
	}
}

func TestReloadPersists(t *testing.T) {
	store, dbPath, _ := setupTestStore(t)
	if err := store.Set("user_1_points", "120"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	store.Close()

	reopened := NewStore(dbPath)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	defer reopened.Close()

	value, ok, err := reopened.Get("user_1_points")
	if err != nil || !ok || value != "120" {
		t.Errorf("Get() after reload = %q, %v, %v", value, ok, err)
	}
}

func TestInitCreatesUpdatedAtIndex(t *testing.T) {
	store, _, cleanup := setupTestStore(t)
	defer cleanup()

	var name string
	err := store.GetDB().QueryRow(
		"SELECT name FROM sqlite_master WHERE type = 'index' AND tbl_name = 'records' AND name = 'idx_records_updated_at'",
	).Scan(&name)
	if err != nil {
		t.Fatalf("updated_at index missing: %v", err)
	}
}
