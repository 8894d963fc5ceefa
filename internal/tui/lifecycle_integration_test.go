package tui

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/npratt/pomodoro/internal/events"
	"github.com/npratt/pomodoro/internal/timer"
)

// safeRecorder collects emitted events across the program goroutine.
type safeRecorder struct {
	mu    sync.Mutex
	types []events.EventType
}

func (r *safeRecorder) Emit(e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, e.Type())
}

func (r *safeRecorder) snapshot() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.EventType(nil), r.types...)
}

// TestTUILifecycleSmoke runs the full bubbletea program headlessly:
// start, select, toggle and quit.
func TestTUILifecycleSmoke(t *testing.T) {
	var quitCalled bool
	rec := &safeRecorder{}

	m := newModel(timer.New(), rec, func() { quitCalled = true })

	tm := teatest.NewTestModel(
		t,
		m,
		teatest.WithInitialTermSize(80, 24),
	)

	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("Start"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	tm.Send(tea.KeyMsg{Type: tea.KeySpace})

	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("Pause"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	fm := tm.FinalModel(t, teatest.WithFinalTimeout(5*time.Second))
	final, ok := fm.(model)
	if !ok {
		t.Fatalf("final model is %T", fm)
	}

	if !quitCalled {
		t.Error("quit callback was not invoked")
	}
	if final.timer.Phase() != timer.PhaseRest || !final.timer.Running() {
		t.Errorf("final state = %s, want Rest.Running", final.timer.State().Name())
	}

	got := rec.snapshot()
	if len(got) < 2 || got[0] != events.EventPhaseSelected || got[1] != events.EventTimerStarted {
		t.Errorf("events = %v, want phase.selected then timer.started", got)
	}
}

// TestTUICountsDown checks that real ticks reach the screen.
func TestTUICountsDown(t *testing.T) {
	m := newModel(timer.New(timer.WithPhase(timer.PhaseRest)), nil, nil)
	m.interval = 10 * time.Millisecond

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(60, 14))

	tm.Send(tea.KeyMsg{Type: tea.KeySpace})

	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("04:5"))
	}, teatest.WithDuration(5*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	out := tm.FinalOutput(t, teatest.WithFinalTimeout(5*time.Second))
	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(out)
	if strings.Contains(buf.String(), "panic") {
		t.Error("program output contains a panic")
	}
}
