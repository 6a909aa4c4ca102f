package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iamhollywoodpro/strivetrack/internal/progress"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	bandStyles = map[progress.Band]lipgloss.Style{
		progress.BandGood: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		progress.BandFair: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		progress.BandLow:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
)

func Heading(s string) string { return headingStyle.Render(s) }

func Muted(s string) string { return mutedStyle.Render(s) }

// Bar draws a fixed-width progress bar for pct (0-100, clamped).
func Bar(pct, width int) string {
	pct = min(max(pct, 0), 100)
	filled := pct * width / 100
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

// BandBar is Bar colored by the weekly progress band.
func BandBar(pct int, band progress.Band) string {
	style, ok := bandStyles[band]
	if !ok {
		return Bar(pct, 10)
	}
	return style.Render(Bar(pct, 10))
}

// Week renders a habit's calendar strip, e.g. "●○●··" where · is a future day.
func Week(days []progress.Day) string {
	var b strings.Builder
	for _, d := range days {
		switch {
		case d.Completed:
			b.WriteString("●")
		case d.IsPast || d.IsToday:
			b.WriteString("○")
		default:
			b.WriteString("·")
		}
	}
	return b.String()
}
