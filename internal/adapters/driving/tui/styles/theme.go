// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
)

// Theme is the TUI palette. Risk tiers get their own colours; failures
// reuse the high-risk colour.
type Theme struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Bar        lipgloss.Color

	High   lipgloss.Color
	Medium lipgloss.Color
	Low    lipgloss.Color

	// Mark is the background of highlighted risk phrases.
	Mark lipgloss.Color
}

// DefaultTheme returns the dark palette.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#7C3AED"),
		Secondary:  lipgloss.Color("#06B6D4"),
		Foreground: lipgloss.Color("#CDD6F4"),
		Muted:      lipgloss.Color("#6C7086"),
		Border:     lipgloss.Color("#45475A"),
		Bar:        lipgloss.Color("#181825"),
		High:       lipgloss.Color("#F38BA8"),
		Medium:     lipgloss.Color("#F9E2AF"),
		Low:        lipgloss.Color("#A6E3A1"),
		Mark:       lipgloss.Color("#FAB387"),
	}
}

// TierColor returns the palette colour for a risk tier, or Muted.
func (t *Theme) TierColor(tier domain.Tier) lipgloss.Color {
	switch tier {
	case domain.TierHigh:
		return t.High
	case domain.TierMedium:
		return t.Medium
	case domain.TierLow:
		return t.Low
	default:
		return t.Muted
	}
}

// Styles are the lipgloss styles shared by the views.
type Styles struct {
	theme *Theme

	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Normal     lipgloss.Style
	Muted      lipgloss.Style
	Help       lipgloss.Style
	Selected   lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
	InputField lipgloss.Style
	StatusBar  lipgloss.Style

	// Highlight marks matched risk phrases inside clause text.
	Highlight lipgloss.Style

	// Suggestion frames a rewrite suggestion.
	Suggestion lipgloss.Style
}

// NewStyles builds styles from a theme. A nil theme uses DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	boxed := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(c).
			Padding(0, 1)
	}

	return &Styles{
		theme:      theme,
		Title:      fg(theme.Primary).Bold(true),
		Subtitle:   fg(theme.Secondary).Bold(true),
		Normal:     fg(theme.Foreground),
		Muted:      fg(theme.Muted),
		Help:       fg(theme.Muted),
		Selected:   fg(theme.Foreground).Background(theme.Primary).Bold(true),
		Error:      fg(theme.High),
		Success:    fg(theme.Low),
		InputField: boxed(theme.Border),
		StatusBar:  fg(theme.Muted).Background(theme.Bar).Padding(0, 1),
		Highlight:  fg(theme.Bar).Background(theme.Mark).Bold(true),
		Suggestion: boxed(theme.Low),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the palette behind these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Tier returns the label style for a risk tier. High and Medium are bold;
// unknown tiers render muted.
func (s *Styles) Tier(t domain.Tier) lipgloss.Style {
	st := lipgloss.NewStyle().Foreground(s.theme.TierColor(t))
	if t == domain.TierHigh || t == domain.TierMedium {
		st = st.Bold(true)
	}
	return st
}
