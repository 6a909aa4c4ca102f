package tracker

import (
	"context"
	"slices"
	"strings"

	"github.com/iamhollywoodpro/strivetrack/internal/constants"
	"github.com/iamhollywoodpro/strivetrack/internal/models"
	"github.com/iamhollywoodpro/strivetrack/internal/notifier"
	"github.com/iamhollywoodpro/strivetrack/internal/validation"
)

type FoodInput struct {
	Name     string          `json:"name"`
	MealType models.MealType `json:"meal_type"`
	Calories float64         `json:"calories"`
	Protein  float64         `json:"protein"`
	Carbs    float64         `json:"carbs"`
	Fat      float64         `json:"fat"`
	// Date defaults to today.
	Date string `json:"date"`
}

// MacroPercent is each total as a whole percentage of its daily target.
type MacroPercent struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fat      int `json:"fat"`
}

type Nutrition struct {
	Date    string                 `json:"date"`
	Entries int                    `json:"entries"`
	Totals  models.NutritionTotals `json:"totals"`
	Targets models.NutritionTotals `json:"targets"`
	Percent MacroPercent           `json:"percent"`
}

// DailyTargets are the fixed nutrition goals.
func DailyTargets() models.NutritionTotals {
	return models.NutritionTotals{
		Calories: constants.TargetCalories,
		Protein:  constants.TargetProtein,
		Carbs:    constants.TargetCarbs,
		Fat:      constants.TargetFat,
	}
}

func (s *Service) AddFood(ctx context.Context, in FoodInput) (models.FoodEntry, Outcome, error) {
	date := in.Date
	if date == "" {
		date = s.calc.TodayKey()
	}
	e := models.FoodEntry{
		ID:        s.newID(),
		Name:      strings.TrimSpace(in.Name),
		MealType:  in.MealType,
		Calories:  in.Calories,
		Protein:   in.Protein,
		Carbs:     in.Carbs,
		Fat:       in.Fat,
		Date:      date,
		CreatedAt: s.now(),
	}
	if err := validation.Food(e); err != nil {
		return models.FoodEntry{}, Outcome{}, err
	}
	err := s.repo.FoodLog().Update(func(log []models.FoodEntry) ([]models.FoodEntry, error) {
		return append(log, e), nil
	})
	if err != nil {
		return models.FoodEntry{}, Outcome{}, err
	}

	out := Outcome{Changed: true}
	out.toast(notifier.LevelSuccess, "%s logged for %s (%.0f kcal)", e.Name, e.MealType, e.Calories)
	return e, out, s.settle(ctx, &out)
}

func (s *Service) DeleteFood(ctx context.Context, id string) (Outcome, error) {
	log, err := s.repo.FoodLog().Load()
	if err != nil {
		return Outcome{}, err
	}
	i := slices.IndexFunc(log, func(e models.FoodEntry) bool { return e.ID == id })
	if i < 0 {
		return Outcome{}, nil
	}
	if err := s.repo.FoodLog().Save(slices.Delete(log, i, i+1)); err != nil {
		return Outcome{}, err
	}

	out := Outcome{Changed: true}
	out.toast(notifier.LevelInfo, "Food entry deleted")
	return out, s.settle(ctx, &out)
}

// FoodLog returns the entries logged on date, today when empty.
func (s *Service) FoodLog(date string) ([]models.FoodEntry, error) {
	if date == "" {
		date = s.calc.TodayKey()
	}
	if err := validation.Date("date", date); err != nil {
		return nil, err
	}
	log, err := s.repo.FoodLog().Load()
	if err != nil {
		return nil, err
	}
	out := make([]models.FoodEntry, 0, len(log))
	for _, e := range log {
		if e.Date == date {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Service) NutritionSummary(date string) (Nutrition, error) {
	if date == "" {
		date = s.calc.TodayKey()
	}
	entries, err := s.FoodLog(date)
	if err != nil {
		return Nutrition{}, err
	}
	n := Nutrition{Date: date, Entries: len(entries), Targets: DailyTargets()}
	for _, e := range entries {
		n.Totals.Add(e)
	}
	n.Percent = MacroPercent{
		Calories: share(n.Totals.Calories, n.Targets.Calories),
		Protein:  share(n.Totals.Protein, n.Targets.Protein),
		Carbs:    share(n.Totals.Carbs, n.Targets.Carbs),
		Fat:      share(n.Totals.Fat, n.Targets.Fat),
	}
	return n, nil
}

func share(v, target float64) int {
	if target <= 0 {
		return 0
	}
	return int(v/target*100 + 0.5)
}
