package achievements

import (
	"time"

	"github.com/iamhollywoodpro/strivetrack/internal/models"
)

// Card is the presentation model of one catalog entry.
type Card struct {
	models.AchievementDefinition
	Unlocked        bool       `json:"unlocked"`
	UnlockedAt      *time.Time `json:"unlocked_at,omitempty"`
	Current         int        `json:"current"`
	ProgressPercent int        `json:"progress_percent"`
}

type Summary struct {
	Unlocked     int `json:"unlocked"`
	Total        int `json:"total"`
	PointsEarned int `json:"points_earned"`
}

// Cards builds one card per definition in catalog order. Locked cards show
// live progress, capped at 100%.
func Cards(catalog []models.AchievementDefinition, stats Stats, unlocks models.Unlocks) ([]Card, Summary) {
	cards := make([]Card, 0, len(catalog))
	sum := Summary{Total: len(catalog)}
	for _, d := range catalog {
		c := Card{AchievementDefinition: d, Current: stats.Value(d.Requirement.Type)}
		if u, ok := unlocks[d.ID]; ok && u.Unlocked {
			at := u.UnlockedAt
			c.Unlocked = true
			c.UnlockedAt = &at
			c.ProgressPercent = 100
			sum.Unlocked++
			sum.PointsEarned += d.Points
		} else {
			c.ProgressPercent = percent(c.Current, d.Requirement.Target)
		}
		cards = append(cards, c)
	}
	return cards, sum
}

func percent(current, target int) int {
	if target <= 0 {
		return 100
	}
	p := current * 100 / target
	if p > 100 {
		return 100
	}
	return p
}
