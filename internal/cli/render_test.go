package cli

import (
	"testing"

	"github.com/iamhollywoodpro/strivetrack/internal/progress"
)

func TestBar(t *testing.T) {
	tests := []struct {
		pct  int
		want string
	}{
		{0, "[░░░░░░░░░░]"},
		{50, "[█████░░░░░]"},
		{100, "[██████████]"},
		{140, "[██████████]"},
		{-5, "[░░░░░░░░░░]"},
	}
	for _, tt := range tests {
		if got := Bar(tt.pct, 10); got != tt.want {
			t.Errorf("Bar(%d) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}

func TestWeek(t *testing.T) {
	days := []progress.Day{
		{Completed: true, IsPast: true},
		{IsPast: true},
		{Completed: true, IsToday: true},
		{},
	}
	if got := Week(days); got != "●○●·" {
		t.Errorf("Week() = %q, want %q", got, "●○●·")
	}
}
