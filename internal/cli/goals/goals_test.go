package goals

import (
	"context"
	"io"
	"testing"

	"github.com/iamhollywoodpro/strivetrack/internal/auth"
	"github.com/iamhollywoodpro/strivetrack/internal/cli"
	"github.com/iamhollywoodpro/strivetrack/internal/models"
	"github.com/iamhollywoodpro/strivetrack/internal/notifier"
	"github.com/iamhollywoodpro/strivetrack/internal/storage"
)

func setupSignedIn(t *testing.T) (*cli.Context, *storage.Repository) {
	t.Helper()
	ctx := &cli.Context{
		Store:    storage.NewMemoryStore(),
		Notifier: notifier.New(0, notifier.NewConsoleSink(io.Discard)),
		Secret:   []byte("goals-test-secret"),
	}
	a, err := ctx.Authenticator()
	if err != nil {
		t.Fatalf("authenticator: %v", err)
	}
	sess, err := a.Register(context.Background(), auth.RegisterInput{
		Email: "ari@example.com", Password: "secret1", Confirm: "secret1",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return ctx, storage.NewRepository(ctx.Store, sess.UserID())
}

func addGoal(t *testing.T, ctx *cli.Context, repo *storage.Repository) models.Goal {
	t.Helper()
	cmd := &GoalAddCmd{Name: "Run 100km", Target: 100, Unit: "km", Category: "fitness"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("goal add failed: %v", err)
	}
	goals, err := repo.Goals().Load()
	if err != nil || len(goals) == 0 {
		t.Fatalf("load goals: %v (%d)", err, len(goals))
	}
	return goals[len(goals)-1]
}

func TestGoalAddCmd(t *testing.T) {
	ctx, repo := setupSignedIn(t)
	g := addGoal(t, ctx, repo)

	if g.TargetValue != 100 || g.Unit != "km" || g.CurrentValue != 0 || g.Completed {
		t.Errorf("unexpected goal: %+v", g)
	}
}

func TestGoalAddCmd_RejectsNonPositiveTarget(t *testing.T) {
	ctx, _ := setupSignedIn(t)
	if err := (&GoalAddCmd{Name: "Nothing", Target: 0, Category: "fitness"}).Run(ctx); err == nil {
		t.Error("expected a zero target to be rejected")
	}
}

func TestGoalProgressCmd_ClampsAtTarget(t *testing.T) {
	ctx, repo := setupSignedIn(t)
	g := addGoal(t, ctx, repo)

	if err := (&GoalProgressCmd{ID: g.ID, Amount: 40}).Run(ctx); err != nil {
		t.Fatalf("progress failed: %v", err)
	}
	if err := (&GoalProgressCmd{ID: g.ID, Amount: 80}).Run(ctx); err != nil {
		t.Fatalf("progress failed: %v", err)
	}
	goals, _ := repo.Goals().Load()
	if goals[0].CurrentValue != 100 {
		t.Errorf("current value = %g, want clamped to 100", goals[0].CurrentValue)
	}
	if goals[0].Completed {
		t.Error("reaching the target should not complete the goal")
	}
}

func TestGoalProgressCmd_Errors(t *testing.T) {
	ctx, repo := setupSignedIn(t)
	g := addGoal(t, ctx, repo)

	if err := (&GoalProgressCmd{ID: g.ID, Amount: 0}).Run(ctx); err == nil {
		t.Error("expected a zero amount to be rejected")
	}
	if err := (&GoalProgressCmd{ID: "missing", Amount: 5}).Run(ctx); err == nil {
		t.Error("expected an unknown goal to be rejected")
	}
}

func TestGoalCompleteCmd(t *testing.T) {
	ctx, repo := setupSignedIn(t)
	g := addGoal(t, ctx, repo)

	if err := (&GoalCompleteCmd{ID: g.ID}).Run(ctx); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	goals, _ := repo.Goals().Load()
	if !goals[0].Completed || goals[0].CompletedAt == nil {
		t.Errorf("expected goal to be completed: %+v", goals[0])
	}

	if err := (&GoalCompleteCmd{ID: g.ID}).Run(ctx); err != nil {
		t.Errorf("completing twice should be a no-op: %v", err)
	}
	if err := (&GoalListCmd{}).Run(ctx); err != nil {
		t.Errorf("list failed: %v", err)
	}
}

func TestGoalDeleteCmd(t *testing.T) {
	ctx, repo := setupSignedIn(t)
	g := addGoal(t, ctx, repo)

	if err := (&GoalDeleteCmd{ID: g.ID}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	goals, _ := repo.Goals().Load()
	if len(goals) != 0 {
		t.Errorf("expected no goals, got %d", len(goals))
	}
	if err := (&GoalDeleteCmd{ID: g.ID}).Run(ctx); err != nil {
		t.Errorf("deleting a missing goal should be a no-op: %v", err)
	}
}
