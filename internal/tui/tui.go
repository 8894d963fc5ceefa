// Package tui provides the single-screen pomodoro timer using bubbletea.
package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/npratt/pomodoro/internal/events"
	"github.com/npratt/pomodoro/internal/timer"
)

// TUI is the interactive pomodoro screen.
type TUI struct {
	timer     *timer.Timer
	emitter   events.Emitter
	onQuit    func()
	interval  time.Duration
	altScreen bool
	mouse     bool
	showHelp  bool
}

// Option configures the TUI.
type Option func(*TUI)

// New creates a TUI driving the given timer. A nil timer gets a fresh one.
func New(t *timer.Timer, opts ...Option) *TUI {
	if t == nil {
		t = timer.New()
	}
	tui := &TUI{
		timer:     t,
		interval:  timer.DefaultTickInterval,
		altScreen: true,
		mouse:     true,
	}

	for _, opt := range opts {
		opt(tui)
	}

	return tui
}

// WithEmitter sets where user actions and expiries are published.
func WithEmitter(e events.Emitter) Option {
	return func(t *TUI) {
		t.emitter = e
	}
}

// WithOnQuit sets the callback invoked when the user quits.
func WithOnQuit(fn func()) Option {
	return func(t *TUI) {
		t.onQuit = fn
	}
}

// WithTickInterval overrides the countdown interval.
func WithTickInterval(d time.Duration) Option {
	return func(t *TUI) {
		if d > 0 {
			t.interval = d
		}
	}
}

// WithAltScreen controls whether the TUI takes over the full terminal.
func WithAltScreen(enabled bool) Option {
	return func(t *TUI) {
		t.altScreen = enabled
	}
}

// WithMouse enables clicking the buttons.
func WithMouse(enabled bool) Option {
	return func(t *TUI) {
		t.mouse = enabled
	}
}

// WithShowHelp starts with the full key help expanded.
func WithShowHelp(enabled bool) Option {
	return func(t *TUI) {
		t.showHelp = enabled
	}
}

// programOptions returns the bubbletea options matching the configuration.
func (t *TUI) programOptions(ctx context.Context) []tea.ProgramOption {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if t.altScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if t.mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	return opts
}

// Run starts the TUI and blocks until the user quits or ctx is canceled.
func (t *TUI) Run(ctx context.Context) error {
	m := newModel(t.timer, t.emitter, t.onQuit)
	m.interval = t.interval
	m.help.ShowAll = t.showHelp

	p := tea.NewProgram(m, t.programOptions(ctx)...)
	_, err := p.Run()
	if errors.Is(err, tea.ErrInterrupted) || (ctx.Err() != nil && errors.Is(err, tea.ErrProgramKilled)) {
		return nil
	}
	return err
}
