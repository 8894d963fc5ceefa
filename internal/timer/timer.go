package timer

import "fmt"

// Notifier is invoked once per expiry with the phase that just ran out.
// Implementations must not block; the phase flip happens right after.
type Notifier interface {
	Notify(expired Phase)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(expired Phase)

// Notify calls f.
func (f NotifierFunc) Notify(expired Phase) {
	f(expired)
}

// TickResult describes what a single tick did.
type TickResult int

const (
	// TickIgnored means the timer was paused and nothing changed.
	TickIgnored TickResult = iota
	// TickCounted means one second was taken off the remaining time.
	TickCounted
	// TickExpired means the phase ran out and the timer flipped to the next phase.
	TickExpired
)

func (r TickResult) String() string {
	switch r {
	case TickIgnored:
		return "ignored"
	case TickCounted:
		return "counted"
	case TickExpired:
		return "expired"
	default:
		return fmt.Sprintf("TickResult(%d)", int(r))
	}
}

// State is an immutable snapshot of the timer.
type State struct {
	Phase     Phase `json:"phase"`
	Remaining int   `json:"remaining"`
	Running   bool  `json:"running"`
}

// Name returns the state machine name, e.g. "Focus.Running".
func (s State) Name() string {
	if s.Running {
		return s.Phase.Label() + ".Running"
	}
	return s.Phase.Label() + ".Paused"
}

// Option configures a Timer.
type Option func(*Timer)

// WithNotifier sets the notifier invoked on expiry.
func WithNotifier(n Notifier) Option {
	return func(t *Timer) {
		t.notifier = n
	}
}

// WithPhase sets the initial phase. Unknown phases are ignored.
func WithPhase(p Phase) Option {
	return func(t *Timer) {
		if p.Valid() {
			t.phase = p
			t.remaining = p.Seconds()
		}
	}
}

// Timer is the phase store and countdown engine of a single widget.
//
// Every change to the phase or the run flag advances the epoch. Tick
// sources are tagged with the epoch current when they were scheduled and
// callers must drop ticks whose epoch no longer matches, so at most one
// tick source is ever live. Timer is not safe for concurrent use; all
// calls are expected from the goroutine processing UI events.
type Timer struct {
	phase     Phase
	remaining int
	running   bool
	epoch     uint64
	notifier  Notifier
}

// New creates a timer in the Focus.Paused state with the full focus duration.
func New(opts ...Option) *Timer {
	t := &Timer{
		phase:     PhaseFocus,
		remaining: PhaseFocus.Seconds(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Phase returns the active phase.
func (t *Timer) Phase() Phase { return t.phase }

// Remaining returns the remaining seconds of the active phase.
func (t *Timer) Remaining() int { return t.remaining }

// Running reports whether the countdown is running.
func (t *Timer) Running() bool { return t.running }

// Epoch identifies the current tick source generation.
func (t *Timer) Epoch() uint64 { return t.epoch }

// State returns a snapshot of the timer.
func (t *Timer) State() State {
	return State{Phase: t.phase, Remaining: t.remaining, Running: t.running}
}

// Select switches to phase p, resets the remaining time to its full duration
// and pauses the countdown. Selecting the active phase resets it as well.
// Phases other than Focus and Rest are ignored.
func (t *Timer) Select(p Phase) {
	if !p.Valid() {
		return
	}
	t.phase = p
	t.remaining = p.Seconds()
	t.running = false
	t.epoch++
}

// Toggle flips between running and paused.
func (t *Timer) Toggle() {
	t.running = !t.running
	t.epoch++
}

// Start resumes the countdown if it is paused.
func (t *Timer) Start() {
	if !t.running {
		t.Toggle()
	}
}

// Tick advances the countdown by one second.
//
// A tick that finds the remaining time at or below zero while running is an
// expiry: the notifier fires, the phase flips, the countdown stops, and the
// remaining time resets to the new phase's duration. The check happens
// before the decrement, so 00:00 stays visible for one whole tick.
func (t *Timer) Tick() TickResult {
	if !t.running {
		return TickIgnored
	}
	if t.remaining > 0 {
		t.remaining--
		return TickCounted
	}

	expired := t.phase
	if t.notifier != nil {
		t.notifier.Notify(expired)
	}
	next := expired.Next()
	t.phase = next
	t.running = false
	t.remaining = next.Seconds()
	t.epoch++
	return TickExpired
}

// Progress returns the elapsed fraction of the active phase in [0, 1].
func (t *Timer) Progress() float64 {
	total := t.phase.Seconds()
	if total <= 0 {
		return 1
	}
	progress := float64(total-t.remaining) / float64(total)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}
