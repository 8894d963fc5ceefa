package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/npratt/pomodoro/internal/events"
	"github.com/npratt/pomodoro/internal/timer"
)

// tickMsg is one countdown step. epoch is the timer epoch when the tick was
// scheduled; ticks from an older epoch belong to a replaced tick source.
type tickMsg struct {
	epoch uint64
}

// scheduleTick returns the command for the next countdown tick, or nil while
// the timer is paused.
func (m model) scheduleTick() tea.Cmd {
	if !m.timer.Running() {
		return nil
	}
	epoch := m.timer.Epoch()
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return tickMsg{epoch: epoch}
	})
}

// Update implements tea.Model. It handles all message types and updates the model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		return m.handleTick(msg)
	}

	return m, nil
}

// handleKey processes keyboard input and returns the updated model and command.
func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.onQuit != nil {
			m.onQuit()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Focus):
		return m.selectPhase(timer.PhaseFocus)

	case key.Matches(msg, m.keys.Rest):
		return m.selectPhase(timer.PhaseRest)

	case key.Matches(msg, m.keys.Next), key.Matches(msg, m.keys.Prev):
		// Two phases, so forward and back land on the same one.
		return m.selectPhase(m.timer.Phase().Next())

	case key.Matches(msg, m.keys.Toggle):
		return m.toggle()
	}

	return m, nil
}

// handleMouse maps left clicks on the buttons to the matching action.
func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	l, ok := computeLayout(m.width, m.height, m.help.ShowAll)
	if !ok {
		return m, nil
	}

	switch {
	case l.focusButton.contains(msg.X, msg.Y):
		return m.selectPhase(timer.PhaseFocus)
	case l.restButton.contains(msg.X, msg.Y):
		return m.selectPhase(timer.PhaseRest)
	case l.toggleButton.contains(msg.X, msg.Y):
		return m.toggle()
	}
	return m, nil
}

func (m model) selectPhase(p timer.Phase) (tea.Model, tea.Cmd) {
	m.timer.Select(p)
	slog.Debug("phase selected", "phase", p)
	m.emit(events.NewPhaseEvent(events.EventPhaseSelected, m.timer.State()))
	return m, nil
}

func (m model) toggle() (tea.Model, tea.Cmd) {
	m.timer.Toggle()
	state := m.timer.State()
	slog.Debug("timer toggled", "state", state.Name(), "remaining", state.Remaining)
	m.emit(events.NewToggleEvent(state))
	return m, m.scheduleTick()
}

// handleTick advances the countdown for live ticks and drops stale ones.
func (m model) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	if msg.epoch != m.timer.Epoch() {
		return m, nil
	}

	before := m.timer.State()
	switch m.timer.Tick() {
	case timer.TickCounted:
		return m, m.scheduleTick()
	case timer.TickExpired:
		after := m.timer.State()
		slog.Info("phase expired", "expired", before.Phase, "next", after.Phase)
		m.emit(events.NewExpiredEvent(before, after))
		return m, nil
	}
	return m, nil
}
