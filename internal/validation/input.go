package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iamhollywoodpro/strivetrack/internal/constants"
	"github.com/iamhollywoodpro/strivetrack/internal/models"
	"github.com/iamhollywoodpro/strivetrack/internal/utils"
)

// MinPasswordLength applies to registration only; login accepts any non-empty password.
const MinPasswordLength = 6

// Error is a rejected input field.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func invalid(field, format string, args ...any) error {
	return &Error{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is (or wraps) an input error.
func IsValidationError(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}

func Email(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return invalid("email", "Please fill in all fields")
	}
	if !strings.Contains(email, "@") {
		return invalid("email", "Please enter a valid email address")
	}
	return nil
}

// Login checks the login form.
func Login(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return invalid("email", "Please fill in all fields")
	}
	return Email(email)
}

// Registration checks the sign-up form.
func Registration(email, password, confirm string) error {
	if strings.TrimSpace(email) == "" || password == "" || confirm == "" {
		return invalid("email", "Please fill in all fields")
	}
	if err := Email(email); err != nil {
		return err
	}
	if password != confirm {
		return invalid("confirm_password", "Passwords do not match")
	}
	if len(password) < MinPasswordLength {
		return invalid("password", "Password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

func Habit(h models.Habit) error {
	if strings.TrimSpace(h.Name) == "" {
		return invalid("name", "Habit name is required")
	}
	if h.WeeklyTarget < 1 || h.WeeklyTarget > 7 {
		return invalid("weekly_target", "Weekly target must be between 1 and 7, got %d", h.WeeklyTarget)
	}
	return nil
}

func Goal(g models.Goal) error {
	if strings.TrimSpace(g.Name) == "" {
		return invalid("name", "Goal name is required")
	}
	if g.TargetValue <= 0 {
		return invalid("target_value", "Target value must be greater than 0")
	}
	if g.CurrentValue < 0 {
		return invalid("current_value", "Current value cannot be negative")
	}
	if g.DueDate != "" {
		if !utils.ValidateDate(g.DueDate) {
			return invalid("due_date", "Invalid due date %q, expected YYYY-MM-DD", g.DueDate)
		}
	}
	return nil
}

func MealType(m models.MealType) error {
	switch m {
	case models.MealBreakfast, models.MealLunch, models.MealDinner, models.MealSnack:
		return nil
	}
	return invalid("meal_type", "Unknown meal type %q", m)
}

func Food(e models.FoodEntry) error {
	if strings.TrimSpace(e.Name) == "" {
		return invalid("name", "Food name is required")
	}
	if err := MealType(e.MealType); err != nil {
		return err
	}
	for field, v := range map[string]float64{"calories": e.Calories, "protein": e.Protein, "carbs": e.Carbs, "fat": e.Fat} {
		if v < 0 {
			return invalid(field, "%s cannot be negative", field)
		}
	}
	if !utils.ValidateDate(e.Date) {
		return invalid("date", "Invalid date %q, expected YYYY-MM-DD", e.Date)
	}
	return nil
}

func MediaType(t constants.MediaType) error {
	if !constants.ValidMediaType(t) {
		return invalid("type", "Media type must be before, progress or after, got %q", t)
	}
	return nil
}

// Date checks a YYYY-MM-DD value for field.
func Date(field, s string) error {
	if !utils.ValidateDate(s) {
		return invalid(field, "Invalid date %q, expected YYYY-MM-DD", s)
	}
	return nil
}
