package food

import (
	"context"
	"io"
	"testing"

	"github.com/iamhollywoodpro/strivetrack/internal/auth"
	"github.com/iamhollywoodpro/strivetrack/internal/cli"
	"github.com/iamhollywoodpro/strivetrack/internal/notifier"
	"github.com/iamhollywoodpro/strivetrack/internal/storage"
)

func setupSignedIn(t *testing.T) (*cli.Context, *storage.Repository) {
	t.Helper()
	ctx := &cli.Context{
		Store:    storage.NewMemoryStore(),
		Notifier: notifier.New(0, notifier.NewConsoleSink(io.Discard)),
		Secret:   []byte("food-test-secret"),
	}
	a, err := ctx.Authenticator()
	if err != nil {
		t.Fatalf("authenticator: %v", err)
	}
	sess, err := a.Register(context.Background(), auth.RegisterInput{
		Email: "lee@example.com", Password: "secret1", Confirm: "secret1",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return ctx, storage.NewRepository(ctx.Store, sess.UserID())
}

func TestFoodAddAndList(t *testing.T) {
	ctx, repo := setupSignedIn(t)

	add := &FoodAddCmd{Name: "Oatmeal", Meal: "breakfast", Calories: 300, Protein: 10, Carbs: 54, Fat: 5, Date: "2024-03-04"}
	if err := add.Run(ctx); err != nil {
		t.Fatalf("food add failed: %v", err)
	}
	entries, err := repo.FoodLog().Load()
	if err != nil {
		t.Fatalf("load food log: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "Oatmeal" || entries[0].Date != "2024-03-04" {
		t.Fatalf("unexpected food log: %+v", entries)
	}

	if err := (&FoodListCmd{Date: "2024-03-04"}).Run(ctx); err != nil {
		t.Errorf("food list failed: %v", err)
	}
}

func TestFoodAddCmd_Invalid(t *testing.T) {
	ctx, _ := setupSignedIn(t)

	if err := (&FoodAddCmd{Name: "Toast", Meal: "brunch"}).Run(ctx); err == nil {
		t.Error("expected an unknown meal type to be rejected")
	}
	if err := (&FoodAddCmd{Name: "Toast", Meal: "snack", Calories: -5}).Run(ctx); err == nil {
		t.Error("expected negative calories to be rejected")
	}
}

func TestFoodDeleteCmd(t *testing.T) {
	ctx, repo := setupSignedIn(t)
	if err := (&FoodAddCmd{Name: "Apple", Meal: "snack", Calories: 95}).Run(ctx); err != nil {
		t.Fatalf("food add failed: %v", err)
	}
	entries, _ := repo.FoodLog().Load()

	if err := (&FoodDeleteCmd{ID: entries[0].ID}).Run(ctx); err != nil {
		t.Fatalf("food delete failed: %v", err)
	}
	entries, _ = repo.FoodLog().Load()
	if len(entries) != 0 {
		t.Errorf("expected an empty log, got %d entries", len(entries))
	}
	if err := (&FoodDeleteCmd{ID: "missing"}).Run(ctx); err != nil {
		t.Errorf("deleting a missing entry should be a no-op: %v", err)
	}
}
