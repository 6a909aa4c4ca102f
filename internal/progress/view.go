package progress

import (
	"time"

	"github.com/iamhollywoodpro/strivetrack/internal/constants"
	"github.com/iamhollywoodpro/strivetrack/internal/models"
	"github.com/iamhollywoodpro/strivetrack/internal/utils"
)

// Band buckets a weekly percentage for display.
type Band string

const (
	BandGood Band = "good"
	BandFair Band = "fair"
	BandLow  Band = "low"
)

func BandFor(pct int) Band {
	switch {
	case pct >= constants.BandGoodPercent:
		return BandGood
	case pct >= constants.BandFairPercent:
		return BandFair
	default:
		return BandLow
	}
}

// Day is one cell of the weekly calendar strip.
type Day struct {
	Date      string       `json:"date"`
	Weekday   time.Weekday `json:"weekday"`
	Completed bool         `json:"completed"`
	IsToday   bool         `json:"is_today"`
	IsPast    bool         `json:"is_past"`
}

// WeekCalendar returns the seven days of the current week.
func (c *Calculator) WeekCalendar(m models.CompletionMap) []Day {
	start := c.WeekStart()
	today := c.Today()
	days := make([]Day, 0, 7)
	for i := 0; i < 7; i++ {
		d := start.AddDate(0, 0, i)
		key := utils.DateKey(d)
		days = append(days, Day{
			Date:      key,
			Weekday:   d.Weekday(),
			Completed: m[key],
			IsToday:   d.Equal(today),
			IsPast:    d.Before(today),
		})
	}
	return days
}

// HabitView is the fully derived presentation model of one habit.
type HabitView struct {
	Habit            models.Habit `json:"habit"`
	CurrentStreak    int          `json:"current_streak"`
	TotalCompletions int          `json:"total_completions"`
	WeeklyCount      int          `json:"weekly_count"`
	WeeklyTarget     int          `json:"weekly_target"`
	WeeklyPercent    int          `json:"weekly_percent"`
	Band             Band         `json:"band"`
	CompletedToday   bool         `json:"completed_today"`
	Week             []Day        `json:"week"`
}

func (c *Calculator) View(h models.Habit, m models.CompletionMap) HabitView {
	weekly := c.WeeklyCompletionCount(m)
	pct := WeeklyPercentage(weekly, h.WeeklyTarget)
	return HabitView{
		Habit:            h,
		CurrentStreak:    c.CurrentStreak(m),
		TotalCompletions: TotalCompletions(m),
		WeeklyCount:      weekly,
		WeeklyTarget:     EffectiveTarget(h.WeeklyTarget),
		WeeklyPercent:    pct,
		Band:             BandFor(pct),
		CompletedToday:   m[c.TodayKey()],
		Week:             c.WeekCalendar(m),
	}
}
