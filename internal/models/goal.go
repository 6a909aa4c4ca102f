package models

import "time"

type Goal struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	Category     string     `json:"category"`
	CurrentValue float64    `json:"current_value"`
	TargetValue  float64    `json:"target_value"`
	Unit         string     `json:"unit"`
	DueDate      string     `json:"due_date,omitempty"` // YYYY-MM-DD
	Completed    bool       `json:"completed"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ProgressPercent is current/target as a whole percentage capped at 100.
func (g Goal) ProgressPercent() int {
	if g.TargetValue <= 0 {
		return 0
	}
	pct := int(g.CurrentValue / g.TargetValue * 100)
	if pct > 100 {
		return 100
	}
	return pct
}
