package events

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/npratt/pomodoro/internal/timer"
)

const (
	maxErrorLength    = 120
	truncateIndicator = "..."
)

// Record is the flattened shape of any event as stored in the event log.
// It is only used to display log lines; typed events are never rebuilt.
type Record struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Source    string      `json:"source"`
	Phase     timer.Phase `json:"phase,omitempty"`
	Expired   timer.Phase `json:"expired,omitempty"`
	Next      timer.Phase `json:"next,omitempty"`
	Remaining int         `json:"remaining,omitempty"`
	Version   string      `json:"version,omitempty"`
	Mode      string      `json:"mode,omitempty"`
	Session   string      `json:"session,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// ParseRecord decodes one line of the event log.
func ParseRecord(line []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(line, &r); err != nil {
		return Record{}, fmt.Errorf("parse event: %w", err)
	}
	if r.Type == "" {
		return Record{}, fmt.Errorf("parse event: missing type")
	}
	return r, nil
}

// Format converts an event to a human-readable string.
// Returns empty string for nil or unknown event types.
func Format(event Event) string {
	if event == nil {
		return ""
	}

	switch e := event.(type) {
	case *AppEvent:
		return formatApp(e.Type(), e.Version, e.Mode)
	case *PhaseEvent:
		return formatPhase(e.Type(), e.Phase, e.Remaining)
	case *PhaseExpiredEvent:
		return formatExpired(e.Expired, e.Next)
	case *NotifyFailedEvent:
		return formatNotifyFailed(e.Error)
	default:
		return ""
	}
}

// FormatWithTimestamp formats an event with a timestamp prefix.
func FormatWithTimestamp(event Event) string {
	if event == nil {
		return ""
	}
	ts := event.Timestamp().Format("15:04:05")
	detail := Format(event)
	if detail == "" {
		return fmt.Sprintf("[%s] %s", ts, event.Type())
	}
	return fmt.Sprintf("[%s] %s", ts, detail)
}

// FormatRecord formats a decoded log line the same way FormatWithTimestamp
// formats the live event.
func FormatRecord(r Record) string {
	var detail string
	switch r.Type {
	case EventAppStart, EventAppStop:
		detail = formatApp(r.Type, r.Version, r.Mode)
	case EventPhaseSelected, EventTimerStarted, EventTimerPaused:
		detail = formatPhase(r.Type, r.Phase, r.Remaining)
	case EventPhaseExpired:
		detail = formatExpired(r.Expired, r.Next)
	case EventNotifyFailed:
		detail = formatNotifyFailed(r.Error)
	}

	ts := r.Timestamp.Local().Format("15:04:05")
	if detail == "" {
		return fmt.Sprintf("[%s] %s", ts, r.Type)
	}
	return fmt.Sprintf("[%s] %s", ts, detail)
}

func formatApp(t EventType, version, mode string) string {
	verb := "started"
	if t == EventAppStop {
		verb = "stopped"
	}
	var extras []string
	if version != "" {
		extras = append(extras, version)
	}
	if mode != "" {
		extras = append(extras, mode)
	}
	if len(extras) == 0 {
		return "pomodoro " + verb
	}
	return fmt.Sprintf("pomodoro %s (%s)", verb, strings.Join(extras, ", "))
}

func formatPhase(t EventType, phase timer.Phase, remaining int) string {
	label := phaseLabel(phase)
	switch t {
	case EventPhaseSelected:
		return fmt.Sprintf("%s selected (%s)", label, timer.FormatTime(remaining))
	case EventTimerStarted:
		return fmt.Sprintf("%s started at %s", label, timer.FormatTime(remaining))
	case EventTimerPaused:
		return fmt.Sprintf("%s paused at %s", label, timer.FormatTime(remaining))
	}
	return ""
}

func formatExpired(expired, next timer.Phase) string {
	return fmt.Sprintf("%s expired, %s ready", phaseLabel(expired), phaseLabel(next))
}

func formatNotifyFailed(errMsg string) string {
	if errMsg == "" {
		return "ring sound failed"
	}
	return "ring sound failed: " + Truncate(errMsg, maxErrorLength)
}

func phaseLabel(p timer.Phase) string {
	if p.Valid() {
		return p.Label()
	}
	if p == "" {
		return "(unknown)"
	}
	return string(p)
}

// Truncate shortens s to at most maxLen runes, marking the cut.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= len(truncateIndicator) {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-len(truncateIndicator)]) + truncateIndicator
}
