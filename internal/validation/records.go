// Package validation checks user input before it reaches the record store
// and audits stored records for inconsistencies.
package validation

import (
	"fmt"
	"sort"

	"github.com/iamhollywoodpro/strivetrack/internal/models"
	"github.com/iamhollywoodpro/strivetrack/internal/utils"
)

// ConflictType represents the type of record inconsistency
type ConflictType string

const (
	ConflictDuplicateHabitName ConflictType = "duplicate_habit_name"
	ConflictOrphanCompletions  ConflictType = "orphan_completions"
	ConflictInvalidDate        ConflictType = "invalid_date"
	ConflictInvalidTarget      ConflictType = "invalid_target"
	ConflictGoalOverTarget     ConflictType = "goal_over_target"
)

// Conflict is one inconsistency found in stored records
type Conflict struct {
	Type        ConflictType
	Description string
	Items       []string
	IDs         []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

// Records is a user's stored data as loaded from the repository.
type Records struct {
	Habits      []models.Habit
	Completions models.Completions
	Goals       []models.Goal
	Food        []models.FoodEntry
}

// Validator audits stored records
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

func (v *Validator) ValidateRecords(r Records) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	nameIDs := make(map[string][]string)
	known := make(map[string]bool, len(r.Habits))
	for _, h := range r.Habits {
		known[h.ID] = true
		if h.Name != "" {
			nameIDs[h.Name] = append(nameIDs[h.Name], h.ID)
		}
		if h.WeeklyTarget < 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidTarget,
				Description: fmt.Sprintf("Habit \"%s\" has weekly target %d (counted as 7)", h.Name, h.WeeklyTarget),
				Items:       []string{h.Name},
				IDs:         []string{h.ID},
			})
		}
	}

	names := make([]string, 0, len(nameIDs))
	for name := range nameIDs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if ids := nameIDs[name]; len(ids) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateHabitName,
				Description: fmt.Sprintf("Duplicate habit name: \"%s\" (IDs: %v)", name, ids),
				Items:       []string{name},
				IDs:         ids,
			})
		}
	}

	habitIDs := make([]string, 0, len(r.Completions))
	for id := range r.Completions {
		habitIDs = append(habitIDs, id)
	}
	sort.Strings(habitIDs)
	for _, id := range habitIDs {
		if !known[id] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictOrphanCompletions,
				Description: fmt.Sprintf("Completions stored for unknown habit %s", id),
				IDs:         []string{id},
			})
			continue
		}
		for day := range r.Completions[id] {
			if !utils.ValidateDate(day) {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictInvalidDate,
					Description: fmt.Sprintf("Habit %s has completion with invalid date %q", id, day),
					Items:       []string{day},
					IDs:         []string{id},
				})
			}
		}
	}

	for _, g := range r.Goals {
		if g.TargetValue > 0 && g.CurrentValue > g.TargetValue {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictGoalOverTarget,
				Description: fmt.Sprintf("Goal \"%s\" progress %.2f exceeds target %.2f", g.Name, g.CurrentValue, g.TargetValue),
				Items:       []string{g.Name},
				IDs:         []string{g.ID},
			})
		}
	}

	for _, e := range r.Food {
		if !utils.ValidateDate(e.Date) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Food entry \"%s\" has invalid date %q", e.Name, e.Date),
				Items:       []string{e.Name},
				IDs:         []string{e.ID},
			})
		}
	}

	return result
}

// PruneOrphanCompletions drops completion maps whose habit no longer exists
// and returns how many were removed.
func PruneOrphanCompletions(completions models.Completions, habits []models.Habit) (models.Completions, int) {
	known := make(map[string]bool, len(habits))
	for _, h := range habits {
		known[h.ID] = true
	}
	removed := 0
	for id := range completions {
		if !known[id] {
			delete(completions, id)
			removed++
		}
	}
	return completions, removed
}
