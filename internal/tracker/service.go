// Package tracker runs every user action through the same pipeline: the
// record store is mutated, points are recomputed, achievements are
// evaluated and the resulting events are handed back to the caller.
package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iamhollywoodpro/strivetrack/internal/achievements"
	"github.com/iamhollywoodpro/strivetrack/internal/media"
	"github.com/iamhollywoodpro/strivetrack/internal/models"
	"github.com/iamhollywoodpro/strivetrack/internal/notifier"
	"github.com/iamhollywoodpro/strivetrack/internal/points"
	"github.com/iamhollywoodpro/strivetrack/internal/progress"
	"github.com/iamhollywoodpro/strivetrack/internal/storage"
)

// Outcome is what a mutation produced besides its own return value.
type Outcome struct {
	// Changed is false when the mutation was a no-op.
	Changed  bool                        `json:"changed"`
	Events   []notifier.Event            `json:"events"`
	Unlocked []achievements.Notification `json:"unlocked,omitempty"`
	Points   points.Breakdown            `json:"points"`
}

func (o *Outcome) toast(level notifier.Level, format string, args ...any) {
	o.Events = append(o.Events, notifier.Toast(level, format, args...))
}

// Service is bound to one user's repository for the length of a session.
type Service struct {
	repo      *storage.Repository
	calc      *progress.Calculator
	selector  *media.Selector
	points    *points.Aggregator
	evaluator *achievements.Evaluator
	catalog   []models.AchievementDefinition
	upload    media.BatchOptions
	now       func() time.Time
	newID     func() string
}

type Option func(*Service)

func WithCalculator(c *progress.Calculator) Option {
	return func(s *Service) { s.calc = c }
}

// WithSelector sets the media tier chain. The selector should already be
// probed so the cloud media counter is picked up.
func WithSelector(sel *media.Selector) Option {
	return func(s *Service) { s.selector = sel }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

func WithUploadOptions(opts media.BatchOptions) Option {
	return func(s *Service) { s.upload = opts }
}

func WithCatalog(catalog []models.AchievementDefinition) Option {
	return func(s *Service) { s.catalog = catalog }
}

// New builds a service for repo. Without a selector, media is kept in the
// record store only.
func New(repo *storage.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	if s.catalog == nil {
		s.catalog = achievements.Catalog()
	}
	if s.calc == nil {
		s.calc = progress.New(progress.WithClock(s.now))
	}
	if s.selector == nil {
		s.selector = media.NewSelector([]media.Backend{media.NewLocalBackend(repo)}, media.WithClock(s.now))
		s.selector.Probe(context.Background())
	}

	var counter points.MediaCounter
	if c := s.selector.Counter(); c != nil {
		counter = c
	}
	s.points = points.New(counter, s.catalog)
	s.evaluator = achievements.NewEvaluator(s.catalog, s.calc, s.points).WithClock(s.now)
	return s
}

func (s *Service) Repository() *storage.Repository { return s.repo }

func (s *Service) Calculator() *progress.Calculator { return s.calc }

func (s *Service) Selector() *media.Selector { return s.selector }

// settle recomputes points and evaluates achievements after a mutation.
// Points are recomputed again when something unlocked so the cached total
// includes the new achievement points.
func (s *Service) settle(ctx context.Context, out *Outcome) error {
	b, err := s.points.Total(ctx, s.repo)
	if err != nil {
		return fmt.Errorf("failed to recompute points: %w", err)
	}
	fresh, err := s.evaluator.Evaluate(ctx, s.repo)
	if err != nil {
		return err
	}
	if len(fresh) > 0 {
		out.Unlocked = append(out.Unlocked, fresh...)
		for _, n := range fresh {
			out.Events = append(out.Events, notifier.Unlocked(n))
		}
		if b, err = s.points.Total(ctx, s.repo); err != nil {
			return fmt.Errorf("failed to recompute points: %w", err)
		}
	}
	out.Points = b
	return nil
}

// Refresh evaluates achievements without a mutation, e.g. right after login.
func (s *Service) Refresh(ctx context.Context) (Outcome, error) {
	var out Outcome
	err := s.settle(ctx, &out)
	return out, err
}

// Points is the cloud-aware score; the cached total is updated.
func (s *Service) Points(ctx context.Context) (points.Breakdown, error) {
	return s.points.Total(ctx, s.repo)
}

// AchievementBoard is the full catalog with live progress.
type AchievementBoard struct {
	Cards   []achievements.Card  `json:"cards"`
	Summary achievements.Summary `json:"summary"`
	Stats   achievements.Stats   `json:"stats"`
}

func (s *Service) Achievements(ctx context.Context) (AchievementBoard, error) {
	stats, err := s.evaluator.Snapshot(ctx, s.repo)
	if err != nil {
		return AchievementBoard{}, err
	}
	unlocks, err := s.repo.Achievements().Load()
	if err != nil {
		return AchievementBoard{}, err
	}
	cards, sum := achievements.Cards(s.catalog, stats, unlocks)
	return AchievementBoard{Cards: cards, Summary: sum, Stats: stats}, nil
}
