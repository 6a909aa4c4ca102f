package stats

import (
	"context"
	"fmt"

	"github.com/iamhollywoodpro/strivetrack/internal/cli"
	"github.com/iamhollywoodpro/strivetrack/internal/cli/food"
	"github.com/iamhollywoodpro/strivetrack/internal/cli/uploads"
	"github.com/iamhollywoodpro/strivetrack/internal/constants"
	"github.com/iamhollywoodpro/strivetrack/internal/points"
)

type PointsCmd struct{}

func (c *PointsCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	svc, _, err := ctx.Tracker(bg)
	if err != nil {
		return err
	}

	b, err := svc.Points(bg)
	if err != nil {
		return err
	}
	PrintPoints(b)
	return nil
}

// PrintPoints prints the score with its per-source breakdown.
func PrintPoints(b points.Breakdown) {
	fmt.Println(cli.Heading(fmt.Sprintf("⭐ %d points", b.Total)))
	fmt.Printf("  Habit completions  %4d × %3d = %d\n", b.Completions, constants.PointsPerCompletion, b.CompletionPoints)
	fmt.Printf("  Media uploads      %4d × %3d = %d %s\n", b.Media, constants.PointsPerMedia, b.MediaPoints,
		cli.Muted("("+string(b.MediaSource)+" count)"))
	fmt.Printf("  Goals completed    %4d × %3d = %d\n", b.CompletedGoals, constants.PointsPerCompletedGoal, b.GoalPoints)
	fmt.Printf("  Achievements       %4d       = %d\n", b.Achievements, b.AchievementPoints)
}

type AchievementsCmd struct {
	Locked bool `help:"Only show achievements not yet unlocked."`
}

func (c *AchievementsCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	svc, _, err := ctx.Tracker(bg)
	if err != nil {
		return err
	}

	board, err := svc.Achievements(bg)
	if err != nil {
		return err
	}
	fmt.Println(cli.Heading(fmt.Sprintf("🏆 %d/%d unlocked, %d points earned",
		board.Summary.Unlocked, board.Summary.Total, board.Summary.PointsEarned)))

	category := ""
	for _, card := range board.Cards {
		if c.Locked && card.Unlocked {
			continue
		}
		if card.Category != category {
			category = card.Category
			fmt.Printf("\n%s\n", category)
		}
		mark := "  "
		if card.Unlocked {
			mark = "✓ "
		}
		fmt.Printf("  %s%s %-22s %-9s %4d pts  %s %d%%\n", mark, card.Icon, card.Name, card.Rarity,
			card.Points, cli.Bar(card.ProgressPercent, 10), card.ProgressPercent)
		fmt.Println(cli.Muted("       " + card.Description))
	}
	return nil
}

type DashboardCmd struct{}

func (c *DashboardCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	svc, sess, err := ctx.Tracker(bg)
	if err != nil {
		return err
	}

	d, err := svc.Dashboard(bg)
	if err != nil {
		return err
	}

	fmt.Println(cli.Heading(fmt.Sprintf("Welcome back, %s! (%s)", sess.User.Name, d.Date)))
	fmt.Printf("⭐ %d points   🏆 %d/%d achievements   🎯 %d/%d goals done\n\n",
		d.Points.Total, d.Achievements.Unlocked, d.Achievements.Total, d.Goals.Completed, d.Goals.Total)

	fmt.Println(cli.Heading(fmt.Sprintf("Habits: %d/%d done today", d.CompletedToday, d.TotalHabits)))
	for _, h := range d.Habits {
		done := " "
		if h.CompletedToday {
			done = "✓"
		}
		fmt.Printf("  [%s] %s %-20s %s %s  🔥 %d\n", done, h.Habit.Emoji, h.Habit.Name,
			cli.BandBar(h.WeeklyPercent, h.Band), cli.Week(h.Week), h.CurrentStreak)
	}

	fmt.Println()
	fmt.Println(cli.Heading("Nutrition today"))
	food.PrintNutrition(d.Nutrition)
	return nil
}

type StorageCmd struct{}

func (c *StorageCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	svc, _, err := ctx.Tracker(bg)
	if err != nil {
		return err
	}

	u, err := svc.StorageUsage(bg)
	if err != nil {
		return err
	}
	uploads.PrintUsage(u)
	if tier, ok := svc.Selector().Current(); ok {
		fmt.Printf("  new uploads go to: %s\n", tier)
	}
	return nil
}
