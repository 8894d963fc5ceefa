package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/npratt/pomodoro/internal/timer"
)

const (
	appTitle    = "pomodoro"
	appSubtitle = "a simple terminal pomodoro app"
)

// startLabel returns the toggle button label for the run flag.
func startLabel(running bool) string {
	if running {
		return "Pause"
	}
	return "Start"
}

// View implements tea.Model. The output depends only on the timer state,
// the terminal size and whether full help is open.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	st := stylesFor(m.timer.Phase())
	l, ok := computeLayout(m.width, m.height, m.help.ShowAll)
	if !ok {
		return m.renderTooSmall(st)
	}

	var sections []string
	sections = append(sections, m.renderTitle(l, st))
	sections = append(sections, m.renderSpacer(l, st))
	sections = append(sections, m.renderPhaseButtons(l, st))
	sections = append(sections, m.renderSpacer(l, st))
	sections = append(sections, m.renderClock(l, st))
	sections = append(sections, m.renderSpacer(l, st))
	sections = append(sections, m.renderProgress(l, st))
	sections = append(sections, m.renderSpacer(l, st))
	sections = append(sections, m.renderToggle(l, st))
	sections = append(sections, m.renderSpacer(l, st))
	sections = append(sections, m.renderHelp(l, st))

	card := lipgloss.NewStyle().
		MarginLeft(l.left).
		MarginTop(l.top).
		MarginBackground(pageBackground(m.timer.Phase())).
		Render(strings.Join(sections, "\n"))

	return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, card,
		lipgloss.WithWhitespaceBackground(pageBackground(m.timer.Phase())))
}

func pageBackground(p timer.Phase) lipgloss.Color {
	return lipgloss.Color(p.Theme().Background)
}

// renderTitle renders the static title block.
func (m model) renderTitle(l screenLayout, st phaseStyles) string {
	bg := lipgloss.WithWhitespaceBackground(pageBackground(m.timer.Phase()))
	title := lipgloss.PlaceHorizontal(l.width, lipgloss.Center, st.Title.Render(appTitle), bg)
	if l.compact {
		return title
	}
	subtitle := lipgloss.PlaceHorizontal(l.width, lipgloss.Center, st.Subtitle.Render(appSubtitle), bg)
	return title + "\n" + subtitle
}

func (m model) renderSpacer(l screenLayout, st phaseStyles) string {
	return st.Page.Width(l.width).Render("")
}

// renderPhaseButtons renders the Focus and Rest buttons side by side.
func (m model) renderPhaseButtons(l screenLayout, st phaseStyles) string {
	phase := m.timer.Phase()
	button := func(p timer.Phase, r rect) string {
		if l.compact {
			return st.FlatButton.Width(r.w).Render(p.Label())
		}
		s := st.Button
		if p == phase {
			s = st.ActiveButton
		}
		return s.Width(r.w - 2).Render(p.Label())
	}

	gapWidth := l.restButton.x - (l.focusButton.x + l.focusButton.w)
	gap := st.Page.Width(gapWidth).Height(l.buttonHeight).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top,
		button(timer.PhaseFocus, l.focusButton),
		gap,
		button(timer.PhaseRest, l.restButton),
	)
}

// renderClock renders the countdown on the secondary background.
func (m model) renderClock(l screenLayout, st phaseStyles) string {
	text := timer.FormatTime(m.timer.Remaining())
	if !l.compact {
		text = bigText(text)
	}
	return st.Clock.
		Width(l.width).
		Padding(clockPad, 0).
		Render(text)
}

// renderProgress renders how much of the current phase has elapsed.
func (m model) renderProgress(l screenLayout, st phaseStyles) string {
	theme := m.timer.Phase().Theme()
	p := m.progress
	p.Width = l.width
	p.FullColor = theme.Foreground
	p.EmptyColor = theme.BackgroundSecondary
	return lipgloss.PlaceHorizontal(l.width, lipgloss.Left, p.ViewAs(m.timer.Progress()),
		lipgloss.WithWhitespaceBackground(pageBackground(m.timer.Phase())))
}

// renderToggle renders the Start/Pause button.
func (m model) renderToggle(l screenLayout, st phaseStyles) string {
	label := startLabel(m.timer.Running())
	if l.compact {
		return st.FlatButton.Width(l.width).Render(label)
	}
	return st.Button.Width(l.width - 2).Render(label)
}

// renderHelp renders the key help footer.
func (m model) renderHelp(l screenLayout, st phaseStyles) string {
	h := m.help
	h.Width = l.width
	h.Styles.ShortKey = st.HelpKey
	h.Styles.ShortDesc = st.HelpDesc
	h.Styles.ShortSeparator = st.HelpSep
	h.Styles.FullKey = st.HelpKey
	h.Styles.FullDesc = st.HelpDesc
	h.Styles.FullSeparator = st.HelpSep
	h.Styles.Ellipsis = st.HelpSep

	return st.Page.
		Width(l.width).
		Height(l.helpHeight).
		Align(lipgloss.Center).
		Render(h.View(m.keys))
}

// renderTooSmall keeps the countdown readable when the card does not fit.
func (m model) renderTooSmall(st phaseStyles) string {
	state := "paused"
	if m.timer.Running() {
		state = "running"
	}
	msg := fmt.Sprintf("%s %s (%s)\nterminal too small",
		timer.FormatTime(m.timer.Remaining()), m.timer.Phase().Label(), state)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, st.Page.Render(msg),
		lipgloss.WithWhitespaceBackground(pageBackground(m.timer.Phase())))
}
