package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/npratt/pomodoro/internal/timer"
)

// phaseStyles contains the lipgloss styles for one phase theme.
type phaseStyles struct {
	// Page
	Page     lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style

	// Controls
	Button       lipgloss.Style
	ActiveButton lipgloss.Style
	FlatButton   lipgloss.Style

	// Countdown
	Clock lipgloss.Style

	// Help footer
	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style
	HelpSep  lipgloss.Style
}

// stylesFor builds the styles for a phase. The page takes the phase
// background, controls are drawn in the foreground color with the phase
// background as text, and the countdown sits on the secondary background.
func stylesFor(p timer.Phase) phaseStyles {
	theme := p.Theme()
	fg := lipgloss.Color(theme.Foreground)
	bg := lipgloss.Color(theme.Background)
	bg2 := lipgloss.Color(theme.BackgroundSecondary)

	page := lipgloss.NewStyle().
		Foreground(fg).
		Background(bg)

	button := lipgloss.NewStyle().
		Foreground(bg).
		Background(fg).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(fg).
		BorderBackground(bg)

	return phaseStyles{
		Page: page,

		Title: page.
			Bold(true).
			Underline(true),

		Subtitle: page,

		Button: button,

		ActiveButton: button.
			Bold(true).
			BorderForeground(bg2),

		FlatButton: lipgloss.NewStyle().
			Foreground(bg).
			Background(fg).
			Bold(true).
			Align(lipgloss.Center),

		Clock: lipgloss.NewStyle().
			Foreground(fg).
			Background(bg2).
			Bold(true).
			Align(lipgloss.Center),

		HelpKey: page.
			Bold(true),

		HelpDesc: page,

		HelpSep: lipgloss.NewStyle().
			Foreground(bg2).
			Background(bg),
	}
}
