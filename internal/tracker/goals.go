package tracker

import (
	"context"
	"slices"
	"strings"

	"github.com/iamhollywoodpro/strivetrack/internal/constants"
	"github.com/iamhollywoodpro/strivetrack/internal/logger"
	"github.com/iamhollywoodpro/strivetrack/internal/models"
	"github.com/iamhollywoodpro/strivetrack/internal/notifier"
	"github.com/iamhollywoodpro/strivetrack/internal/validation"
)

const defaultGoalCategory = "fitness"

type GoalInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	TargetValue float64 `json:"target_value"`
	Unit        string  `json:"unit"`
	DueDate     string  `json:"due_date"`
}

// GoalStats summarises the goal list.
type GoalStats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	Active         int `json:"active"`
	CompletionRate int `json:"completion_rate"`
}

func (s *Service) CreateGoal(ctx context.Context, in GoalInput) (models.Goal, Outcome, error) {
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = defaultGoalCategory
	}
	g := models.Goal{
		ID:          s.newID(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Category:    category,
		TargetValue: in.TargetValue,
		Unit:        strings.TrimSpace(in.Unit),
		DueDate:     in.DueDate,
		CreatedAt:   s.now(),
	}
	if err := validation.Goal(g); err != nil {
		return models.Goal{}, Outcome{}, err
	}
	err := s.repo.Goals().Update(func(goals []models.Goal) ([]models.Goal, error) {
		return append(goals, g), nil
	})
	if err != nil {
		return models.Goal{}, Outcome{}, err
	}
	logger.Info("Created goal", "user", s.repo.UserID(), "id", g.ID, "name", g.Name)

	out := Outcome{Changed: true}
	out.toast(notifier.LevelSuccess, "Goal %q created! 🎯", g.Name)
	return g, out, s.settle(ctx, &out)
}

// updateGoal applies fn to the goal with id. fn reports whether it changed
// anything; unknown ids and unchanged goals skip the write.
func (s *Service) updateGoal(id string, fn func(*models.Goal) bool) (models.Goal, bool, error) {
	goals, err := s.repo.Goals().Load()
	if err != nil {
		return models.Goal{}, false, err
	}
	i := slices.IndexFunc(goals, func(g models.Goal) bool { return g.ID == id })
	if i < 0 || !fn(&goals[i]) {
		return models.Goal{}, false, nil
	}
	if err := s.repo.Goals().Save(goals); err != nil {
		return models.Goal{}, false, err
	}
	return goals[i], true, nil
}

// UpdateGoalProgress adds increment to the goal's current value, clamped at
// the target. Non-positive increments and unknown ids are no-ops.
func (s *Service) UpdateGoalProgress(ctx context.Context, id string, increment float64) (models.Goal, Outcome, error) {
	if increment <= 0 {
		return models.Goal{}, Outcome{}, nil
	}
	g, changed, err := s.updateGoal(id, func(g *models.Goal) bool {
		g.CurrentValue = min(g.CurrentValue+increment, g.TargetValue)
		return true
	})
	if err != nil || !changed {
		return g, Outcome{}, err
	}

	out := Outcome{Changed: true}
	out.toast(notifier.LevelSuccess, "Progress updated! +%.1f %s", increment, g.Unit)
	return g, out, s.settle(ctx, &out)
}

// CompleteGoal marks the goal done. Completion is one-way; completing a
// finished goal is a no-op.
func (s *Service) CompleteGoal(ctx context.Context, id string) (models.Goal, Outcome, error) {
	g, changed, err := s.updateGoal(id, func(g *models.Goal) bool {
		if g.Completed {
			return false
		}
		at := s.now()
		g.Completed = true
		g.CompletedAt = &at
		return true
	})
	if err != nil || !changed {
		return g, Outcome{}, err
	}
	logger.Info("Completed goal", "user", s.repo.UserID(), "id", id)

	out := Outcome{Changed: true}
	out.toast(notifier.LevelSuccess, "Goal completed! 🎆 %s (+%d pts)", g.Name, constants.PointsPerCompletedGoal)
	return g, out, s.settle(ctx, &out)
}

func (s *Service) DeleteGoal(ctx context.Context, id string) (Outcome, error) {
	goals, err := s.repo.Goals().Load()
	if err != nil {
		return Outcome{}, err
	}
	i := slices.IndexFunc(goals, func(g models.Goal) bool { return g.ID == id })
	if i < 0 {
		return Outcome{}, nil
	}
	if err := s.repo.Goals().Save(slices.Delete(goals, i, i+1)); err != nil {
		return Outcome{}, err
	}

	out := Outcome{Changed: true}
	out.toast(notifier.LevelInfo, "Goal deleted")
	return out, s.settle(ctx, &out)
}

// Goals returns active goals followed by completed ones, each in creation
// order.
func (s *Service) Goals() ([]models.Goal, error) {
	goals, err := s.repo.Goals().Load()
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(goals, func(a, b models.Goal) int {
		switch {
		case a.Completed == b.Completed:
			return 0
		case a.Completed:
			return 1
		default:
			return -1
		}
	})
	return goals, nil
}

func (s *Service) GoalStats() (GoalStats, error) {
	goals, err := s.repo.Goals().Load()
	if err != nil {
		return GoalStats{}, err
	}
	return goalStats(goals), nil
}

func goalStats(goals []models.Goal) GoalStats {
	st := GoalStats{Total: len(goals)}
	for _, g := range goals {
		if g.Completed {
			st.Completed++
		}
	}
	st.Active = st.Total - st.Completed
	if st.Total > 0 {
		st.CompletionRate = int(float64(st.Completed)/float64(st.Total)*100 + 0.5)
	}
	return st
}
