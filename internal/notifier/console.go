package notifier

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Italic(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	achievementStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("220")).
				Padding(0, 1)
	rarityColors = map[string]lipgloss.Color{
		"common":    lipgloss.Color("250"),
		"uncommon":  lipgloss.Color("42"),
		"rare":      lipgloss.Color("39"),
		"epic":      lipgloss.Color("135"),
		"legendary": lipgloss.Color("214"),
	}
)

// ConsoleSink renders events for a terminal.
type ConsoleSink struct {
	w io.Writer
}

func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

func (c *ConsoleSink) Send(_ context.Context, e Event) error {
	_, err := fmt.Fprintln(c.w, Render(e))
	return err
}

// Render formats an event as styled terminal text.
func Render(e Event) string {
	if e.Kind == KindAchievement {
		rarity := lipgloss.NewStyle().Foreground(rarityColors[e.Rarity]).Render(e.Rarity)
		body := fmt.Sprintf("%s %s\n%s %s  +%d pts  %s", e.Icon, successStyle.Render(e.Title), e.Icon, e.Message, e.Points, rarity)
		return achievementStyle.Render(body)
	}

	switch e.Level {
	case LevelSuccess:
		return successStyle.Render("✓ " + e.Message)
	case LevelWarning:
		return warningStyle.Render("⚠ " + e.Message)
	case LevelError:
		return errorStyle.Render("✗ " + e.Message)
	default:
		return infoStyle.Render("ℹ " + e.Message)
	}
}
