// Package points totals a user's score from completions, uploads, finished
// goals and unlocked achievements.
package points

import (
	"context"

	"github.com/iamhollywoodpro/strivetrack/internal/constants"
	"github.com/iamhollywoodpro/strivetrack/internal/logger"
	"github.com/iamhollywoodpro/strivetrack/internal/models"
	"github.com/iamhollywoodpro/strivetrack/internal/storage"
)

// MediaCounter counts a user's uploads in cloud storage.
type MediaCounter interface {
	CountMedia(ctx context.Context, userID string) (int, error)
}

// Source tells where the media count came from.
type Source string

const (
	SourceCloud Source = "cloud"
	SourceLocal Source = "local"
)

// Inputs are the raw counts the score is built from.
type Inputs struct {
	Completions       int
	Media             int
	CompletedGoals    int
	AchievementPoints int
}

// Compute applies the scoring formula.
func Compute(in Inputs) int {
	return in.Completions*constants.PointsPerCompletion +
		in.Media*constants.PointsPerMedia +
		in.CompletedGoals*constants.PointsPerCompletedGoal +
		in.AchievementPoints
}

type Breakdown struct {
	Completions       int    `json:"completions"`
	CompletionPoints  int    `json:"completion_points"`
	Media             int    `json:"media"`
	MediaPoints       int    `json:"media_points"`
	CompletedGoals    int    `json:"completed_goals"`
	GoalPoints        int    `json:"goal_points"`
	Achievements      int    `json:"achievements"`
	AchievementPoints int    `json:"achievement_points"`
	Total             int    `json:"total"`
	MediaSource       Source `json:"media_source"`
}

func newBreakdown(in Inputs, unlocked int, src Source) Breakdown {
	return Breakdown{
		Completions:       in.Completions,
		CompletionPoints:  in.Completions * constants.PointsPerCompletion,
		Media:             in.Media,
		MediaPoints:       in.Media * constants.PointsPerMedia,
		CompletedGoals:    in.CompletedGoals,
		GoalPoints:        in.CompletedGoals * constants.PointsPerCompletedGoal,
		Achievements:      unlocked,
		AchievementPoints: in.AchievementPoints,
		Total:             Compute(in),
		MediaSource:       src,
	}
}

// Aggregator computes totals for one repository at a time.
type Aggregator struct {
	counter MediaCounter
	catalog map[string]int
}

// New builds an aggregator. counter may be nil, in which case only the local
// media references are counted.
func New(counter MediaCounter, catalog []models.AchievementDefinition) *Aggregator {
	pts := make(map[string]int, len(catalog))
	for _, def := range catalog {
		pts[def.ID] = def.Points
	}
	return &Aggregator{counter: counter, catalog: pts}
}

// MediaCount returns the cloud count when available and the local count
// otherwise. Cloud failures are logged and never returned.
func (a *Aggregator) MediaCount(ctx context.Context, repo *storage.Repository) (int, Source, error) {
	if a.counter != nil {
		n, err := a.counter.CountMedia(ctx, repo.UserID())
		if err == nil {
			return n, SourceCloud, nil
		}
		logger.Warn("Cloud media listing failed, using local count", "user", repo.UserID(), "error", err)
	}
	items, err := repo.Media().Load()
	if err != nil {
		return 0, SourceLocal, err
	}
	return len(items), SourceLocal, nil
}

// Breakdown is the cloud-aware computation without the cache write.
func (a *Aggregator) Breakdown(ctx context.Context, repo *storage.Repository) (Breakdown, error) {
	media, src, err := a.MediaCount(ctx, repo)
	if err != nil {
		return Breakdown{}, err
	}
	return a.build(repo, media, src)
}

// Total is the cloud-aware score. The result is cached in the store as a
// best effort.
func (a *Aggregator) Total(ctx context.Context, repo *storage.Repository) (Breakdown, error) {
	b, err := a.Breakdown(ctx, repo)
	if err != nil {
		return Breakdown{}, err
	}
	if err := repo.Points().Save(b.Total); err != nil {
		logger.Warn("Failed to cache points total", "user", repo.UserID(), "error", err)
	}
	return b, nil
}

// Offline computes the score from local records only.
func (a *Aggregator) Offline(repo *storage.Repository) (Breakdown, error) {
	items, err := repo.Media().Load()
	if err != nil {
		return Breakdown{}, err
	}
	return a.build(repo, len(items), SourceLocal)
}

func (a *Aggregator) build(repo *storage.Repository, media int, src Source) (Breakdown, error) {
	completions, err := repo.Completions().Load()
	if err != nil {
		return Breakdown{}, err
	}
	goals, err := repo.Goals().Load()
	if err != nil {
		return Breakdown{}, err
	}
	unlocks, err := repo.Achievements().Load()
	if err != nil {
		return Breakdown{}, err
	}

	in := Inputs{Completions: completions.Total(), Media: media}
	for _, g := range goals {
		if g.Completed {
			in.CompletedGoals++
		}
	}
	unlocked := 0
	for id, u := range unlocks {
		if !u.Unlocked {
			continue
		}
		unlocked++
		in.AchievementPoints += a.catalog[id]
	}
	return newBreakdown(in, unlocked, src), nil
}
