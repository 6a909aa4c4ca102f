package habits

import (
	"context"
	"fmt"

	"github.com/iamhollywoodpro/strivetrack/internal/cli"
	"github.com/iamhollywoodpro/strivetrack/internal/tracker"
)

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Add a new habit."`
	List    HabitListCmd    `cmd:"" help:"List habits with streaks and weekly progress."`
	Toggle  HabitToggleCmd  `cmd:"" help:"Mark or unmark a habit for a day."`
	Delete  HabitDeleteCmd  `cmd:"" help:"Delete a habit and its history."`
	Samples HabitSamplesCmd `cmd:"" help:"Create a few sample habits."`
}

type HabitAddCmd struct {
	Name         string `arg:"" help:"Habit name."`
	Description  string `help:"Optional description."`
	WeeklyTarget int    `help:"Days per week (1-7)." default:"7" short:"t"`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	svc, _, err := ctx.Tracker(bg)
	if err != nil {
		return err
	}

	h, out, err := svc.CreateHabit(bg, tracker.HabitInput{
		Name:         c.Name,
		Description:  c.Description,
		WeeklyTarget: c.WeeklyTarget,
	})
	if err != nil {
		return err
	}

	ctx.Deliver(bg, out)
	fmt.Printf("%s %s (%d/week)  %s\n", h.Emoji, h.Name, h.WeeklyTarget, cli.Muted("id: "+h.ID))
	return nil
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	svc, _, err := ctx.Tracker(bg)
	if err != nil {
		return err
	}

	views, err := svc.Habits()
	if err != nil {
		return err
	}
	if len(views) == 0 {
		fmt.Println("No habits yet. Add one with 'strivetrack habit add' or try 'strivetrack habit samples'.")
		return nil
	}

	for _, v := range views {
		done := " "
		if v.CompletedToday {
			done = "✓"
		}
		fmt.Printf("[%s] %s %s\n", done, v.Habit.Emoji, v.Habit.Name)
		fmt.Printf("    %s %d/%d this week  %s  🔥 %d day streak  %d total\n",
			cli.BandBar(v.WeeklyPercent, v.Band), v.WeeklyCount, v.WeeklyTarget,
			cli.Week(v.Week), v.CurrentStreak, v.TotalCompletions)
		fmt.Println(cli.Muted("    id: " + v.Habit.ID))
	}
	return nil
}

type HabitToggleCmd struct {
	ID   string `arg:"" help:"Habit id."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *HabitToggleCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	svc, _, err := ctx.Tracker(bg)
	if err != nil {
		return err
	}

	_, out, err := svc.ToggleCompletion(bg, c.ID, c.Date)
	if err != nil {
		return err
	}
	if !out.Changed {
		return fmt.Errorf("habit %q not found", c.ID)
	}
	ctx.Deliver(bg, out)
	return nil
}

type HabitDeleteCmd struct {
	ID string `arg:"" help:"Habit id."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	svc, _, err := ctx.Tracker(bg)
	if err != nil {
		return err
	}

	out, err := svc.DeleteHabit(bg, c.ID)
	if err != nil {
		return err
	}
	if !out.Changed {
		fmt.Printf("Habit %s not found, nothing to delete.\n", c.ID)
		return nil
	}
	ctx.Deliver(bg, out)
	return nil
}

type HabitSamplesCmd struct{}

func (c *HabitSamplesCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	svc, _, err := ctx.Tracker(bg)
	if err != nil {
		return err
	}

	created, out, err := svc.CreateSampleHabits(bg)
	if err != nil {
		return err
	}
	ctx.Deliver(bg, out)
	for _, h := range created {
		fmt.Printf("%s %s (%d/week)  %s\n", h.Emoji, h.Name, h.WeeklyTarget, cli.Muted("id: "+h.ID))
	}
	return nil
}
