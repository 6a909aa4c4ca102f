package tracker

import (
	"context"
	"slices"
	"strings"

	"github.com/iamhollywoodpro/strivetrack/internal/constants"
	"github.com/iamhollywoodpro/strivetrack/internal/logger"
	"github.com/iamhollywoodpro/strivetrack/internal/models"
	"github.com/iamhollywoodpro/strivetrack/internal/notifier"
	"github.com/iamhollywoodpro/strivetrack/internal/progress"
	"github.com/iamhollywoodpro/strivetrack/internal/validation"
)

type HabitInput struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	WeeklyTarget int    `json:"weekly_target"`
}

func (s *Service) CreateHabit(ctx context.Context, in HabitInput) (models.Habit, Outcome, error) {
	h := s.newHabit(in)
	if err := validation.Habit(h); err != nil {
		return models.Habit{}, Outcome{}, err
	}
	err := s.repo.Habits().Update(func(habits []models.Habit) ([]models.Habit, error) {
		return append(habits, h), nil
	})
	if err != nil {
		return models.Habit{}, Outcome{}, err
	}
	logger.Info("Created habit", "user", s.repo.UserID(), "id", h.ID, "name", h.Name)

	out := Outcome{Changed: true}
	out.toast(notifier.LevelSuccess, "Habit %q created successfully! 🎉", h.Name)
	return h, out, s.settle(ctx, &out)
}

func (s *Service) newHabit(in HabitInput) models.Habit {
	target := in.WeeklyTarget
	if target == 0 {
		target = constants.DefaultWeeklyTarget
	}
	name := strings.TrimSpace(in.Name)
	return models.Habit{
		ID:           s.newID(),
		Name:         name,
		Description:  strings.TrimSpace(in.Description),
		Emoji:        HabitEmoji(name),
		WeeklyTarget: target,
		CreatedAt:    s.now(),
	}
}

// CreateSampleHabits appends three starter habits.
func (s *Service) CreateSampleHabits(ctx context.Context) ([]models.Habit, Outcome, error) {
	samples := []HabitInput{
		{Name: "Take Vitamins", Description: "Daily vitamin supplement", WeeklyTarget: 7},
		{Name: "Exercise", Description: "30 minutes of physical activity", WeeklyTarget: 5},
		{Name: "Read", Description: "Read for 20 minutes", WeeklyTarget: 6},
	}
	created := make([]models.Habit, 0, len(samples))
	for _, in := range samples {
		created = append(created, s.newHabit(in))
	}
	err := s.repo.Habits().Update(func(habits []models.Habit) ([]models.Habit, error) {
		return append(habits, created...), nil
	})
	if err != nil {
		return nil, Outcome{}, err
	}

	out := Outcome{Changed: true}
	out.toast(notifier.LevelSuccess, "Created %d sample habits", len(created))
	return created, out, s.settle(ctx, &out)
}

// DeleteHabit removes the habit and its completion map. An unknown id is a
// no-op.
func (s *Service) DeleteHabit(ctx context.Context, id string) (Outcome, error) {
	habits, err := s.repo.Habits().Load()
	if err != nil {
		return Outcome{}, err
	}
	i := slices.IndexFunc(habits, func(h models.Habit) bool { return h.ID == id })
	if i < 0 {
		return Outcome{}, nil
	}
	if err := s.repo.Habits().Save(slices.Delete(habits, i, i+1)); err != nil {
		return Outcome{}, err
	}
	err = s.repo.Completions().Update(func(c models.Completions) (models.Completions, error) {
		delete(c, id)
		return c, nil
	})
	if err != nil {
		return Outcome{}, err
	}
	logger.Info("Deleted habit", "user", s.repo.UserID(), "id", id)

	out := Outcome{Changed: true}
	out.toast(notifier.LevelSuccess, "Habit deleted successfully!")
	return out, s.settle(ctx, &out)
}

// ToggleCompletion flips date for the habit; an empty date means today.
// Turning a day off stores an explicit false. An unknown habit is a no-op.
func (s *Service) ToggleCompletion(ctx context.Context, habitID, date string) (bool, Outcome, error) {
	if date == "" {
		date = s.calc.TodayKey()
	}
	if err := validation.Date("date", date); err != nil {
		return false, Outcome{}, err
	}
	habits, err := s.repo.Habits().Load()
	if err != nil {
		return false, Outcome{}, err
	}
	if !slices.ContainsFunc(habits, func(h models.Habit) bool { return h.ID == habitID }) {
		return false, Outcome{}, nil
	}

	var done bool
	err = s.repo.Completions().Update(func(c models.Completions) (models.Completions, error) {
		m := c[habitID]
		if m == nil {
			m = models.CompletionMap{}
			c[habitID] = m
		}
		done = !m[date]
		m[date] = done
		return c, nil
	})
	if err != nil {
		return false, Outcome{}, err
	}

	out := Outcome{Changed: true}
	if done {
		out.toast(notifier.LevelSuccess, "Habit completed (+%d pts) 🎉", constants.PointsPerCompletion)
	} else {
		out.toast(notifier.LevelInfo, "Habit unmarked (-%d pts)", constants.PointsPerCompletion)
	}
	return done, out, s.settle(ctx, &out)
}

// Habits returns the derived view of every habit in creation order.
func (s *Service) Habits() ([]progress.HabitView, error) {
	habits, err := s.repo.Habits().Load()
	if err != nil {
		return nil, err
	}
	completions, err := s.repo.Completions().Load()
	if err != nil {
		return nil, err
	}
	views := make([]progress.HabitView, 0, len(habits))
	for _, h := range habits {
		views = append(views, s.calc.View(h, completions[h.ID]))
	}
	return views, nil
}
