package habits

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
		Secret:   []byte("habits-test-secret"),
	}
	a, err := ctx.Authenticator()
	if err != nil {
		t.Fatalf("authenticator: %v", err)
	}
	sess, err := a.Register(context.Background(), auth.RegisterInput{
		Email: "kai@example.com", Password: "secret1", Confirm: "secret1",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return ctx, storage.NewRepository(ctx.Store, sess.UserID())
}

func TestHabitAddCmd(t *testing.T) {
	ctx, repo := setupSignedIn(t)

	if err := (&HabitAddCmd{Name: "Morning run", WeeklyTarget: 3}).Run(ctx); err != nil {
		t.Fatalf("habit add failed: %v", err)
	}
	habits, err := repo.Habits().Load()
	if err != nil {
		t.Fatalf("load habits: %v", err)
	}
	if len(habits) != 1 {
		t.Fatalf("expected 1 habit, got %d", len(habits))
	}
	if habits[0].Name != "Morning run" || habits[0].WeeklyTarget != 3 {
		t.Errorf("unexpected habit: %+v", habits[0])
	}
}

func TestHabitAddCmd_Invalid(t *testing.T) {
	ctx, repo := setupSignedIn(t)

	if err := (&HabitAddCmd{Name: "  ", WeeklyTarget: 7}).Run(ctx); err == nil {
		t.Error("expected blank name to be rejected")
	}
	if err := (&HabitAddCmd{Name: "Swim", WeeklyTarget: 9}).Run(ctx); err == nil {
		t.Error("expected weekly target above 7 to be rejected")
	}
	habits, _ := repo.Habits().Load()
	if len(habits) != 0 {
		t.Errorf("expected no habits to be stored, got %d", len(habits))
	}
}

func TestHabitToggleCmd(t *testing.T) {
	ctx, repo := setupSignedIn(t)
	if err := (&HabitAddCmd{Name: "Read", WeeklyTarget: 6}).Run(ctx); err != nil {
		t.Fatalf("habit add failed: %v", err)
	}
	habits, _ := repo.Habits().Load()
	id := habits[0].ID

	cmd := &HabitToggleCmd{ID: id, Date: "2024-03-04"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	c, _ := repo.Completions().Load()
	if !c[id]["2024-03-04"] {
		t.Error("expected day to be marked done")
	}

	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	c, _ = repo.Completions().Load()
	done, present := c[id]["2024-03-04"]
	if done || !present {
		t.Errorf("expected an explicit false after toggling off, got %v (present %v)", done, present)
	}
}

func TestHabitToggleCmd_UnknownHabit(t *testing.T) {
	ctx, _ := setupSignedIn(t)
	if err := (&HabitToggleCmd{ID: "missing"}).Run(ctx); err == nil {
		t.Error("expected an error for an unknown habit")
	}
}

func TestHabitToggleCmd_BadDate(t *testing.T) {
	ctx, repo := setupSignedIn(t)
	if err := (&HabitAddCmd{Name: "Read", WeeklyTarget: 6}).Run(ctx); err != nil {
		t.Fatalf("habit add failed: %v", err)
	}
	habits, _ := repo.Habits().Load()
	if err := (&HabitToggleCmd{ID: habits[0].ID, Date: "03/04/2024"}).Run(ctx); err == nil {
		t.Error("expected a malformed date to be rejected")
	}
}

func TestHabitDeleteCmd_RemovesHistory(t *testing.T) {
	ctx, repo := setupSignedIn(t)
	if err := (&HabitAddCmd{Name: "Read", WeeklyTarget: 6}).Run(ctx); err != nil {
		t.Fatalf("habit add failed: %v", err)
	}
	habits, _ := repo.Habits().Load()
	id := habits[0].ID
	if err := (&HabitToggleCmd{ID: id}).Run(ctx); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	if err := (&HabitDeleteCmd{ID: id}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	habits, _ = repo.Habits().Load()
	if len(habits) != 0 {
		t.Errorf("expected no habits, got %d", len(habits))
	}
	c, _ := repo.Completions().Load()
	if _, ok := c[id]; ok {
		t.Error("expected completion history to be removed")
	}

	if err := (&HabitDeleteCmd{ID: id}).Run(ctx); err != nil {
		t.Errorf("deleting a missing habit should be a no-op: %v", err)
	}
}

func TestHabitSamplesAndList(t *testing.T) {
	ctx, repo := setupSignedIn(t)

	if err := (&HabitListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list on empty account failed: %v", err)
	}
	if err := (&HabitSamplesCmd{}).Run(ctx); err != nil {
		t.Fatalf("samples failed: %v", err)
	}
	habits, _ := repo.Habits().Load()
	if len(habits) != 3 {
		t.Fatalf("expected 3 sample habits, got %d", len(habits))
	}
	if err := (&HabitListCmd{}).Run(ctx); err != nil {
		t.Errorf("list failed: %v", err)
	}
}

func TestHabitCmd_RequiresLogin(t *testing.T) {
	ctx := &cli.Context{Store: storage.NewMemoryStore(), Secret: []byte("x")}
	if err := (&HabitListCmd{}).Run(ctx); err == nil {
		t.Error("expected an error without a session")
	}
}
