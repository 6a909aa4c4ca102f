// Package achievements unlocks catalog entries from a snapshot of a user's
// activity. Unlocks are one-way and evaluation is idempotent.
package achievements

import (
	"context"
	"fmt"
	"time"

	"github.com/iamhollywoodpro/strivetrack/internal/models"
	"github.com/iamhollywoodpro/strivetrack/internal/points"
	"github.com/iamhollywoodpro/strivetrack/internal/progress"
	"github.com/iamhollywoodpro/strivetrack/internal/storage"
)

// Stats is the activity snapshot requirements are checked against.
type Stats struct {
	HabitsCreated    int `json:"habits_created"`
	TotalCompletions int `json:"total_completions"`
	MaxStreak        int `json:"max_streak"`
	TotalPoints      int `json:"total_points"`
	MediaUploads     int `json:"media_uploads"`
	LoginCount       int `json:"login_count"`
}

// Value returns the statistic a requirement type measures.
func (s Stats) Value(t models.RequirementType) int {
	switch t {
	case models.RequirementLoginCount:
		return s.LoginCount
	case models.RequirementHabitsCreated:
		return s.HabitsCreated
	case models.RequirementTotalCompletions:
		return s.TotalCompletions
	case models.RequirementMaxStreak:
		return s.MaxStreak
	case models.RequirementTotalPoints:
		return s.TotalPoints
	case models.RequirementMediaUploads:
		return s.MediaUploads
	}
	return 0
}

// Notification announces one newly unlocked achievement.
type Notification struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	Rarity      models.Rarity `json:"rarity"`
	Points      int           `json:"points"`
}

// Apply unlocks every locked definition whose requirement is met by stats,
// walking the catalog in order. It returns the updated map and the new
// unlocks in catalog order. Existing unlocks are never touched.
func Apply(catalog []models.AchievementDefinition, stats Stats, unlocks models.Unlocks, now time.Time) (models.Unlocks, []Notification) {
	if unlocks == nil {
		unlocks = models.Unlocks{}
	}
	var fresh []Notification
	for _, d := range catalog {
		if unlocks[d.ID].Unlocked {
			continue
		}
		value := stats.Value(d.Requirement.Type)
		if value < d.Requirement.Target {
			continue
		}
		unlocks[d.ID] = models.AchievementUnlock{
			Unlocked:   true,
			UnlockedAt: now,
			Progress:   value,
			Target:     d.Requirement.Target,
		}
		fresh = append(fresh, Notification{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
			Icon:        d.Icon,
			Rarity:      d.Rarity,
			Points:      d.Points,
		})
	}
	return unlocks, fresh
}

type Evaluator struct {
	catalog []models.AchievementDefinition
	calc    *progress.Calculator
	points  *points.Aggregator
	now     func() time.Time
}

func NewEvaluator(catalog []models.AchievementDefinition, calc *progress.Calculator, agg *points.Aggregator) *Evaluator {
	return &Evaluator{catalog: catalog, calc: calc, points: agg, now: time.Now}
}

// WithClock replaces the unlock timestamp source.
func (e *Evaluator) WithClock(now func() time.Time) *Evaluator {
	e.now = now
	return e
}

// Snapshot gathers the current statistics for repo's user. Points and the
// media count take the cloud-aware path.
func (e *Evaluator) Snapshot(ctx context.Context, repo *storage.Repository) (Stats, error) {
	habits, err := repo.Habits().Load()
	if err != nil {
		return Stats{}, err
	}
	completions, err := repo.Completions().Load()
	if err != nil {
		return Stats{}, err
	}
	breakdown, err := e.points.Breakdown(ctx, repo)
	if err != nil {
		return Stats{}, err
	}
	logins, err := repo.LoginCount().Load()
	if err != nil {
		return Stats{}, err
	}
	// Evaluation only happens inside a session, so at least one login exists.
	if logins < 1 {
		logins = 1
	}

	return Stats{
		HabitsCreated:    len(habits),
		TotalCompletions: completions.Total(),
		MaxStreak:        e.calc.MaxCurrentStreak(completions),
		TotalPoints:      breakdown.Total,
		MediaUploads:     breakdown.Media,
		LoginCount:       logins,
	}, nil
}

// Evaluate unlocks newly earned achievements and persists the whole unlock
// map once when anything changed.
func (e *Evaluator) Evaluate(ctx context.Context, repo *storage.Repository) ([]Notification, error) {
	stats, err := e.Snapshot(ctx, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to gather achievement stats: %w", err)
	}
	unlocks, err := repo.Achievements().Load()
	if err != nil {
		return nil, err
	}

	unlocks, fresh := Apply(e.catalog, stats, unlocks, e.now())
	if len(fresh) == 0 {
		return nil, nil
	}
	if err := repo.Achievements().Save(unlocks); err != nil {
		return nil, fmt.Errorf("failed to save achievements: %w", err)
	}
	return fresh, nil
}
