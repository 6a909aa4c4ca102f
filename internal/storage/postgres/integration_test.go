package postgres

import (
	"os"
	"testing"
)

// Set POSTGRES_TEST_URL to run, for example
// POSTGRES_TEST_URL="postgres://tracker@localhost:5432/strivetrack_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	store := New(connStr)
	if err := store.Init(); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}

	t.Run("SetGet", func(t *testing.T) {
		if err := store.Set("user_it_habits", `[]`); err != nil {
			t.Fatalf("Set() failed: %v", err)
		}
		if err := store.Set("user_it_habits", `[{"id":"h"}]`); err != nil {
			t.Fatalf("Set() overwrite failed: %v", err)
		}
		v, ok, err := store.Get("user_it_habits")
		if err != nil || !ok || v != `[{"id":"h"}]` {
			t.Errorf("Get() = %q, %v, %v", v, ok, err)
		}
	})

	t.Run("Keys", func(t *testing.T) {
		_ = store.Set("user_it_goals", `[]`)
		keys, err := store.Keys("user_it_")
		if err != nil {
			t.Fatalf("Keys() failed: %v", err)
		}
		if len(keys) != 2 {
			t.Errorf("Keys() = %v, want 2 keys", keys)
		}
	})

	t.Run("Migrations", func(t *testing.T) {
		runner, err := store.Runner()
		if err != nil {
			t.Fatalf("Runner() failed: %v", err)
		}
		if err := runner.ValidateVersion(); err != nil {
			t.Errorf("ValidateVersion() failed: %v", err)
		}
	})
}
