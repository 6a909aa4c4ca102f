package goals

import (
	"context"
	"fmt"

	"github.com/iamhollywoodpro/strivetrack/internal/cli"
	"github.com/iamhollywoodpro/strivetrack/internal/tracker"
)

type GoalCmd struct {
	Add      GoalAddCmd      `cmd:"" help:"Add a new goal."`
	List     GoalListCmd     `cmd:"" help:"List goals, active first."`
	Progress GoalProgressCmd `cmd:"" help:"Add progress to a goal."`
	Complete GoalCompleteCmd `cmd:"" help:"Mark a goal as completed."`
	Delete   GoalDeleteCmd   `cmd:"" help:"Delete a goal."`
}

type GoalAddCmd struct {
	Name        string  `arg:"" help:"Goal name."`
	Target      float64 `arg:"" help:"Target value."`
	Unit        string  `help:"Unit of the target, e.g. kg or km." default:""`
	Category    string  `help:"Goal category." default:"fitness"`
	Description string  `help:"Optional description."`
	Due         string  `help:"Due date in YYYY-MM-DD format." default:""`
}

func (c *GoalAddCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	svc, _, err := ctx.Tracker(bg)
	if err != nil {
		return err
	}

	g, out, err := svc.CreateGoal(bg, tracker.GoalInput{
		Name:        c.Name,
		Description: c.Description,
		Category:    c.Category,
		TargetValue: c.Target,
		Unit:        c.Unit,
		DueDate:     c.Due,
	})
	if err != nil {
		return err
	}
	ctx.Deliver(bg, out)
	fmt.Printf("%s: 0/%g %s  %s\n", g.Name, g.TargetValue, g.Unit, cli.Muted("id: "+g.ID))
	return nil
}

type GoalListCmd struct{}

func (c *GoalListCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	svc, _, err := ctx.Tracker(bg)
	if err != nil {
		return err
	}

	goals, err := svc.Goals()
	if err != nil {
		return err
	}
	if len(goals) == 0 {
		fmt.Println("No goals yet. Add one with 'strivetrack goal add'.")
		return nil
	}

	for _, g := range goals {
		status := ""
		if g.Completed {
			status = " [DONE]"
		}
		fmt.Printf("%s%s (%s)\n", g.Name, status, g.Category)
		fmt.Printf("    %s %g/%g %s (%d%%)", cli.Bar(g.ProgressPercent(), 20), g.CurrentValue, g.TargetValue, g.Unit, g.ProgressPercent())
		if g.DueDate != "" {
			fmt.Printf("  due %s", g.DueDate)
		}
		fmt.Println()
		fmt.Println(cli.Muted("    id: " + g.ID))
	}

	stats, err := svc.GoalStats()
	if err != nil {
		return err
	}
	fmt.Printf("\n%d active, %d completed (%d%% completion rate)\n", stats.Active, stats.Completed, stats.CompletionRate)
	return nil
}

type GoalProgressCmd struct {
	ID     string  `arg:"" help:"Goal id."`
	Amount float64 `arg:"" help:"Amount to add to the current value."`
}

func (c *GoalProgressCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	svc, _, err := ctx.Tracker(bg)
	if err != nil {
		return err
	}

	if c.Amount <= 0 {
		return fmt.Errorf("amount must be greater than 0")
	}
	g, out, err := svc.UpdateGoalProgress(bg, c.ID, c.Amount)
	if err != nil {
		return err
	}
	if !out.Changed {
		return fmt.Errorf("goal %q not found", c.ID)
	}
	ctx.Deliver(bg, out)
	fmt.Printf("%s %g/%g %s\n", cli.Bar(g.ProgressPercent(), 20), g.CurrentValue, g.TargetValue, g.Unit)
	return nil
}

type GoalCompleteCmd struct {
	ID string `arg:"" help:"Goal id."`
}

func (c *GoalCompleteCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	svc, _, err := ctx.Tracker(bg)
	if err != nil {
		return err
	}

	_, out, err := svc.CompleteGoal(bg, c.ID)
	if err != nil {
		return err
	}
	if !out.Changed {
		fmt.Printf("Goal %s is already completed or does not exist.\n", c.ID)
		return nil
	}
	ctx.Deliver(bg, out)
	return nil
}

type GoalDeleteCmd struct {
	ID string `arg:"" help:"Goal id."`
}

func (c *GoalDeleteCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	svc, _, err := ctx.Tracker(bg)
	if err != nil {
		return err
	}

	out, err := svc.DeleteGoal(bg, c.ID)
	if err != nil {
		return err
	}
	if !out.Changed {
		fmt.Printf("Goal %s not found, nothing to delete.\n", c.ID)
		return nil
	}
	ctx.Deliver(bg, out)
	return nil
}
