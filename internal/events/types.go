// Package events defines the event taxonomy for timer activity and the
// router and sinks that carry events from the widget to the event log.
package events

import (
	"time"

	"github.com/npratt/pomodoro/internal/timer"
)

// EventType identifies the category and nature of an event.
type EventType string

const (
	// App lifecycle events
	EventAppStart EventType = "app.start"
	EventAppStop  EventType = "app.stop"

	// User actions
	EventPhaseSelected EventType = "phase.selected"
	EventTimerStarted  EventType = "timer.started"
	EventTimerPaused   EventType = "timer.paused"

	// Countdown events
	EventPhaseExpired EventType = "phase.expired"

	// Error events
	EventNotifyFailed EventType = "notify.failed"
)

// Source constants identify the origin of events.
const (
	SourceUser  = "user"
	SourceTimer = "timer"
	SourceApp   = "pomodoro"
)

// Event is the base interface for all events in the system.
type Event interface {
	Type() EventType
	Timestamp() time.Time
	Source() string
}

// BaseEvent provides the common fields for all events.
type BaseEvent struct {
	EventType EventType `json:"type"`
	Time      time.Time `json:"timestamp"`
	Src       string    `json:"source"`
}

// Type returns the event type.
func (e BaseEvent) Type() EventType {
	return e.EventType
}

// Timestamp returns when the event occurred.
func (e BaseEvent) Timestamp() time.Time {
	return e.Time
}

// Source returns the origin of the event.
func (e BaseEvent) Source() string {
	return e.Src
}

// AppEvent is emitted when the app starts or stops.
type AppEvent struct {
	BaseEvent
	Version string `json:"version,omitempty"`
	Mode    string `json:"mode,omitempty"` // "tui" or "headless"
	Session string `json:"session,omitempty"`
}

// PhaseEvent is emitted for user actions that change the phase or run flag.
type PhaseEvent struct {
	BaseEvent
	Phase     timer.Phase `json:"phase"`
	Remaining int         `json:"remaining"`
}

// PhaseExpiredEvent is emitted when a running phase reaches its expiry tick.
type PhaseExpiredEvent struct {
	BaseEvent
	Expired   timer.Phase `json:"expired"`
	Next      timer.Phase `json:"next"`
	Remaining int         `json:"remaining"`
}

// NotifyFailedEvent is emitted when the ring sound could not be played.
type NotifyFailedEvent struct {
	BaseEvent
	Error string `json:"error"`
}

// NewEvent creates a BaseEvent stamped with the current time.
func NewEvent(eventType EventType, source string) BaseEvent {
	return BaseEvent{
		EventType: eventType,
		Time:      time.Now(),
		Src:       source,
	}
}

// NewUserEvent creates a BaseEvent for a user action.
func NewUserEvent(eventType EventType) BaseEvent {
	return NewEvent(eventType, SourceUser)
}

// NewTimerEvent creates a BaseEvent raised by the countdown.
func NewTimerEvent(eventType EventType) BaseEvent {
	return NewEvent(eventType, SourceTimer)
}

// NewAppEvent creates a BaseEvent raised by the application itself.
func NewAppEvent(eventType EventType) BaseEvent {
	return NewEvent(eventType, SourceApp)
}

// NewPhaseEvent builds a user action event from the timer state after the
// action was applied.
func NewPhaseEvent(eventType EventType, after timer.State) *PhaseEvent {
	return &PhaseEvent{
		BaseEvent: NewUserEvent(eventType),
		Phase:     after.Phase,
		Remaining: after.Remaining,
	}
}

// NewToggleEvent builds the started or paused event for a toggle, depending
// on the run flag after the toggle.
func NewToggleEvent(after timer.State) *PhaseEvent {
	if after.Running {
		return NewPhaseEvent(EventTimerStarted, after)
	}
	return NewPhaseEvent(EventTimerPaused, after)
}

// NewExpiredEvent builds the event for an expiry tick. before is the state
// just ahead of the tick, after the state it left behind.
func NewExpiredEvent(before, after timer.State) *PhaseExpiredEvent {
	return &PhaseExpiredEvent{
		BaseEvent: NewTimerEvent(EventPhaseExpired),
		Expired:   before.Phase,
		Next:      after.Phase,
		Remaining: after.Remaining,
	}
}
