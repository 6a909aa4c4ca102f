package models

import "time"

// Habit is a recurring practice with a weekly completion target.
type Habit struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Emoji        string    `json:"emoji,omitempty"`
	WeeklyTarget int       `json:"weekly_target"`
	CreatedAt    time.Time `json:"created_at"`
}

// CompletionMap records completed days for one habit, keyed by YYYY-MM-DD.
// A missing key and an explicit false both mean "not completed".
type CompletionMap map[string]bool

// Completions holds every habit's completion map keyed by habit id.
type Completions map[string]CompletionMap

// Completed reports whether day is marked done.
func (m CompletionMap) Completed(day string) bool {
	return m[day]
}

// Count returns the number of completed days.
func (m CompletionMap) Count() int {
	n := 0
	for _, done := range m {
		if done {
			n++
		}
	}
	return n
}

// Total sums completed days across all habits.
func (c Completions) Total() int {
	n := 0
	for _, m := range c {
		n += m.Count()
	}
	return n
}
