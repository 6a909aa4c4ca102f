package food

import (
	"context"
	"fmt"

	"github.com/iamhollywoodpro/strivetrack/internal/cli"
	"github.com/iamhollywoodpro/strivetrack/internal/models"
	"github.com/iamhollywoodpro/strivetrack/internal/tracker"
)

type FoodCmd struct {
	Add    FoodAddCmd    `cmd:"" help:"Log a food entry."`
	List   FoodListCmd   `cmd:"" help:"Show a day's food log and nutrition totals."`
	Delete FoodDeleteCmd `cmd:"" help:"Delete a food entry."`
}

type FoodAddCmd struct {
	Name     string  `arg:"" help:"Food name."`
	Meal     string  `help:"Meal type (breakfast|lunch|dinner|snack)." default:"snack" short:"m"`
	Calories float64 `help:"Calories (kcal)." default:"0" short:"c"`
	Protein  float64 `help:"Protein (g)." default:"0" short:"p"`
	Carbs    float64 `help:"Carbohydrates (g)." default:"0"`
	Fat      float64 `help:"Fat (g)." default:"0"`
	Date     string  `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *FoodAddCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	svc, _, err := ctx.Tracker(bg)
	if err != nil {
		return err
	}

	e, out, err := svc.AddFood(bg, tracker.FoodInput{
		Name:     c.Name,
		MealType: models.MealType(c.Meal),
		Calories: c.Calories,
		Protein:  c.Protein,
		Carbs:    c.Carbs,
		Fat:      c.Fat,
		Date:     c.Date,
	})
	if err != nil {
		return err
	}
	ctx.Deliver(bg, out)
	fmt.Println(cli.Muted("id: " + e.ID))
	return nil
}

type FoodListCmd struct {
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *FoodListCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	svc, _, err := ctx.Tracker(bg)
	if err != nil {
		return err
	}

	entries, err := svc.FoodLog(c.Date)
	if err != nil {
		return err
	}
	n, err := svc.NutritionSummary(c.Date)
	if err != nil {
		return err
	}

	fmt.Println(cli.Heading("Food log for " + n.Date))
	if len(entries) == 0 {
		fmt.Println("No entries.")
	}
	for _, e := range entries {
		fmt.Printf("  %-9s %-24s %6.0f kcal  P %5.1fg  C %5.1fg  F %5.1fg  %s\n",
			e.MealType, e.Name, e.Calories, e.Protein, e.Carbs, e.Fat, cli.Muted(e.ID))
	}

	fmt.Println()
	PrintNutrition(n)
	return nil
}

// PrintNutrition prints the day's totals against the daily targets.
func PrintNutrition(n tracker.Nutrition) {
	rows := []struct {
		label         string
		value, target float64
		unit          string
		pct           int
	}{
		{"Calories", n.Totals.Calories, n.Targets.Calories, "kcal", n.Percent.Calories},
		{"Protein", n.Totals.Protein, n.Targets.Protein, "g", n.Percent.Protein},
		{"Carbs", n.Totals.Carbs, n.Targets.Carbs, "g", n.Percent.Carbs},
		{"Fat", n.Totals.Fat, n.Targets.Fat, "g", n.Percent.Fat},
	}
	for _, r := range rows {
		fmt.Printf("  %-8s %s %6.0f/%.0f %s (%d%%)\n", r.label, cli.Bar(r.pct, 20), r.value, r.target, r.unit, r.pct)
	}
}

type FoodDeleteCmd struct {
	ID string `arg:"" help:"Food entry id."`
}

func (c *FoodDeleteCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	svc, _, err := ctx.Tracker(bg)
	if err != nil {
		return err
	}

	out, err := svc.DeleteFood(bg, c.ID)
	if err != nil {
		return err
	}
	if !out.Changed {
		fmt.Printf("Food entry %s not found, nothing to delete.\n", c.ID)
		return nil
	}
	ctx.Deliver(bg, out)
	return nil
}
