package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/npratt/pomodoro/internal/events"
	"github.com/npratt/pomodoro/internal/timer"
)

// model is the bubbletea model for the pomodoro screen. All timer mutation
// happens here, on the bubbletea update goroutine.
type model struct {
	timer    *timer.Timer
	interval time.Duration

	emitter events.Emitter
	onQuit  func()

	keys     keyMap
	help     help.Model
	progress progress.Model

	width  int
	height int
}

// newModel creates a model around t. emitter and onQuit may be nil.
func newModel(t *timer.Timer, emitter events.Emitter, onQuit func()) model {
	return model{
		timer:    t,
		interval: timer.DefaultTickInterval,
		emitter:  emitter,
		onQuit:   onQuit,
		keys:     defaultKeyMap(),
		help:     help.New(),
		progress: progress.New(
			progress.WithoutPercentage(),
			progress.WithSolidFill(timer.PhaseFocus.Theme().Foreground),
		),
	}
}

// Init implements tea.Model. A timer handed over already running gets its
// first tick scheduled.
func (m model) Init() tea.Cmd {
	return m.scheduleTick()
}

// Update, handleKey, handleMouse and handleTick are implemented in update.go
// View is implemented in view.go

// emit publishes an event if an emitter is configured.
func (m model) emit(e events.Event) {
	if m.emitter != nil && e != nil {
		m.emitter.Emit(e)
	}
}
