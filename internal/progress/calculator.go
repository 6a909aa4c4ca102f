// Package progress derives streaks, completion totals and weekly progress
// from a habit's completion map. Nothing here is persisted; every value is
// recomputed from the map on each call.
package progress

import (
	"math"
	"time"

	"github.com/iamhollywoodpro/strivetrack/internal/constants"
	"github.com/iamhollywoodpro/strivetrack/internal/models"
	"github.com/iamhollywoodpro/strivetrack/internal/utils"
)

type Calculator struct {
	now       func() time.Time
	loc       *time.Location
	weekStart time.Weekday
}

type Option func(*Calculator)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) { c.now = now }
}

// WithLocation sets the timezone that decides where "today" begins.
func WithLocation(loc *time.Location) Option {
	return func(c *Calculator) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithWeekStart sets the first day of the calendar week. Defaults to Sunday.
func WithWeekStart(d time.Weekday) Option {
	return func(c *Calculator) { c.weekStart = d }
}

func New(opts ...Option) *Calculator {
	c := &Calculator{now: time.Now, loc: time.Local, weekStart: time.Sunday}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Today is midnight of the current day in the calculator's location.
func (c *Calculator) Today() time.Time {
	return utils.StartOfDay(c.now().In(c.loc))
}

// TodayKey is today's completion map key.
func (c *Calculator) TodayKey() string {
	return utils.DateKey(c.Today())
}

// Location returns the timezone used for day boundaries.
func (c *Calculator) Location() *time.Location {
	return c.loc
}

// CurrentStreak counts consecutive completed days ending today. An
// incomplete today yields 0 even when yesterday was completed. The scan
// stops after StreakScanDays.
func (c *Calculator) CurrentStreak(m models.CompletionMap) int {
	if len(m) == 0 {
		return 0
	}
	today := c.Today()
	streak := 0
	for i := 0; i < constants.StreakScanDays; i++ {
		if !m[utils.DateKey(today.AddDate(0, 0, -i))] {
			break
		}
		streak++
	}
	return streak
}

// MaxCurrentStreak is the best current streak across all habits.
func (c *Calculator) MaxCurrentStreak(all models.Completions) int {
	best := 0
	for _, m := range all {
		if s := c.CurrentStreak(m); s > best {
			best = s
		}
	}
	return best
}

// TotalCompletions counts completed days regardless of date.
func TotalCompletions(m models.CompletionMap) int {
	return m.Count()
}

// WeekStart is midnight of the first day of the current week.
func (c *Calculator) WeekStart() time.Time {
	return utils.StartOfWeek(c.Today(), c.weekStart)
}

// WeeklyCompletionCount counts completed days inside the current calendar
// week, future days of the week included.
func (c *Calculator) WeeklyCompletionCount(m models.CompletionMap) int {
	start := c.WeekStart()
	n := 0
	for i := 0; i < 7; i++ {
		if m[utils.DateKey(start.AddDate(0, 0, i))] {
			n++
		}
	}
	return n
}

// EffectiveTarget maps a missing or non-positive weekly target to the default.
func EffectiveTarget(target int) int {
	if target <= 0 {
		return constants.DefaultWeeklyTarget
	}
	return target
}

// WeeklyPercentage is round(count/target*100). It is not capped, so
// exceeding the target yields more than 100.
func WeeklyPercentage(count, target int) int {
	target = EffectiveTarget(target)
	return int(math.Round(float64(count) / float64(target) * 100))
}
