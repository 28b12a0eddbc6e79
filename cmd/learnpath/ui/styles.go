// Package ui holds the terminal styling for learnpath reports: a light and a
// dark theme, the styles derived from them, and a static table.
package ui

import (
	"os"
	"strconv"
	"strings"

	"learnpath/internal/kb"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the set of colors a Styles is built from.
type Theme struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
}

// Status colors are the same in both themes.
const (
	colorSuccess = lipgloss.Color("#8BC34A")
	colorError   = lipgloss.Color("#e53935")
	colorWarning = lipgloss.Color("#FFC107")
	colorInfo    = lipgloss.Color("#2196F3")
	colorOnBadge = lipgloss.Color("#ffffff")
)

var difficultyColors = map[kb.Difficulty]lipgloss.Color{
	kb.Beginner:     lipgloss.Color("#4db6ac"),
	kb.Intermediate: lipgloss.Color("#ffa000"),
	kb.Advanced:     lipgloss.Color("#e57373"),
}

// LightTheme is the default.
func LightTheme() Theme {
	return Theme{
		Foreground: lipgloss.Color("#101F38"),
		Primary:    lipgloss.Color("#1F4E8C"),
		Muted:      lipgloss.Color("#6B7280"),
		Border:     lipgloss.Color("#dce0e5"),
	}
}

// DarkTheme is used on dark terminal backgrounds.
func DarkTheme() Theme {
	return Theme{
		Foreground: lipgloss.Color("#f2f2f2"),
		Primary:    lipgloss.Color("#8BC34A"),
		Muted:      lipgloss.Color("#9CA3AF"),
		Border:     lipgloss.Color("#2a3850"),
	}
}

// DetectTheme picks the dark theme when COLORFGBG reports a dark background
// or LEARNPATH_DARK_MODE=1, and the light theme otherwise.
func DetectTheme() Theme {
	// COLORFGBG is "fg;bg"; ANSI backgrounds 0-6 and 8 are dark.
	if _, bg, ok := strings.Cut(os.Getenv("COLORFGBG"), ";"); ok {
		if n, err := strconv.Atoi(bg); err == nil && n >= 0 && (n <= 6 || n == 8) {
			return DarkTheme()
		}
	}
	if os.Getenv("LEARNPATH_DARK_MODE") == "1" {
		return DarkTheme()
	}
	return LightTheme()
}

// Styles are the lipgloss styles every report is rendered with.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style
	Divider  lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	Badge lipgloss.Style
}

// NewStyles derives Styles from theme.
func NewStyles(theme Theme) Styles {
	text := lipgloss.NewStyle().Foreground(theme.Foreground)
	status := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return Styles{
		Title:    lipgloss.NewStyle().Foreground(theme.Primary).Bold(true),
		Subtitle: lipgloss.NewStyle().Foreground(theme.Muted).Italic(true),
		Body:     text,
		Muted:    lipgloss.NewStyle().Foreground(theme.Muted),
		Bold:     text.Bold(true),
		Divider:  lipgloss.NewStyle().Foreground(theme.Border),

		Success: status(colorSuccess),
		Error:   status(colorError),
		Warning: status(colorWarning),
		Info:    lipgloss.NewStyle().Foreground(colorInfo),

		Badge: lipgloss.NewStyle().Foreground(colorOnBadge).Padding(0, 1).Bold(true),
	}
}

// DefaultStyles returns styles for the detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// RenderDivider returns a horizontal rule of the given width.
func (s Styles) RenderDivider(width int) string {
	return s.Divider.Render(strings.Repeat("─", width))
}

// DifficultyBadge renders a difficulty level on its color. Unknown levels
// render muted.
func (s Styles) DifficultyBadge(level string) string {
	c, ok := difficultyColors[kb.Difficulty(level)]
	if !ok {
		return s.Muted.Render(level)
	}
	return s.Badge.Background(c).Render(level)
}

// KeyValue renders "key: value" with a bold key.
func (s Styles) KeyValue(key, value string) string {
	return s.Bold.Render(key+":") + " " + s.Body.Render(value)
}
