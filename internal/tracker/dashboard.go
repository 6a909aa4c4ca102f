package tracker

import (
	"context"

	"github.com/iamhollywoodpro/strivetrack/internal/achievements"
	"github.com/iamhollywoodpro/strivetrack/internal/points"
	"github.com/iamhollywoodpro/strivetrack/internal/progress"
)

// Dashboard is the landing view.
type Dashboard struct {
	Date           string               `json:"date"`
	TotalHabits    int                  `json:"total_habits"`
	CompletedToday int                  `json:"completed_today"`
	Habits         []progress.HabitView `json:"habits"`
	Points         points.Breakdown     `json:"points"`
	Goals          GoalStats            `json:"goals"`
	Nutrition      Nutrition            `json:"nutrition"`
	Achievements   achievements.Summary `json:"achievements"`
}

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	habits, err := s.Habits()
	if err != nil {
		return Dashboard{}, err
	}
	d := Dashboard{Date: s.calc.TodayKey(), TotalHabits: len(habits), Habits: habits}
	for _, h := range habits {
		if h.CompletedToday {
			d.CompletedToday++
		}
	}
	if d.Points, err = s.Points(ctx); err != nil {
		return Dashboard{}, err
	}
	if d.Goals, err = s.GoalStats(); err != nil {
		return Dashboard{}, err
	}
	if d.Nutrition, err = s.NutritionSummary(""); err != nil {
		return Dashboard{}, err
	}
	board, err := s.Achievements(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	d.Achievements = board.Summary
	return d, nil
}
