package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/npratt/pomodoro/internal/events"
	"github.com/npratt/pomodoro/internal/timer"
	"golang.org/x/term"
)

// IsTerminal returns true if both stdout and stdin are TTYs.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
}

// Simple runs the current phase of a timer once to expiry without a
// screen. Start, expiry and pause are printed as event log lines, with a
// progress line at every whole minute in between.
type Simple struct {
	timer    *timer.Timer
	out      io.Writer
	emitter  events.Emitter
	interval time.Duration
}

// NewSimple creates a line-based runner writing to out.
func NewSimple(t *timer.Timer, out io.Writer, emitter events.Emitter, interval time.Duration) *Simple {
	if t == nil {
		t = timer.New()
	}
	if interval <= 0 {
		interval = timer.DefaultTickInterval
	}
	return &Simple{timer: t, out: out, emitter: emitter, interval: interval}
}

// Run blocks until the phase expires or ctx is canceled. Cancellation
// pauses the timer and returns ctx.Err().
func (s *Simple) Run(ctx context.Context) error {
	phase := s.timer.Phase()
	s.report(events.NewPhaseEvent(events.EventTimerStarted,
		timer.State{Phase: phase, Remaining: s.timer.Remaining(), Running: true}))

	err := timer.RunUntilExpiry(ctx, s.timer, s.interval, func(result timer.TickResult, after timer.State) {
		switch result {
		case timer.TickCounted:
			if after.Remaining > 0 && after.Remaining%60 == 0 {
				s.printf("%s %s remaining", after.Phase.Label(), timer.FormatTime(after.Remaining))
			}
		case timer.TickExpired:
			s.report(events.NewExpiredEvent(timer.State{Phase: phase, Running: true}, after))
		}
	})
	if err != nil && s.timer.Running() {
		s.timer.Toggle()
		s.report(events.NewToggleEvent(s.timer.State()))
	}
	return err
}

// report emits e and prints it the way `pomodoro events` shows it.
func (s *Simple) report(e events.Event) {
	if s.emitter != nil {
		s.emitter.Emit(e)
	}
	_, _ = fmt.Fprintln(s.out, events.FormatWithTimestamp(e))
}

func (s *Simple) printf(format string, args ...any) {
	timestamp := time.Now().Format("15:04:05")
	_, _ = fmt.Fprintf(s.out, "[%s] "+format+"\n", append([]any{timestamp}, args...)...)
}
