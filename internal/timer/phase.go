// Package timer implements the pomodoro phase and countdown state machine.
package timer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPhase is returned when a phase name does not match Focus or Rest.
var ErrUnknownPhase = errors.New("unknown phase")

// Phase identifies one of the two timer modes.
type Phase string

const (
	// PhaseFocus is the 25 minute work phase.
	PhaseFocus Phase = "focus"
	// PhaseRest is the 5 minute break phase.
	PhaseRest Phase = "rest"
)

// Phase durations in seconds.
const (
	FocusSeconds = 25 * 60
	RestSeconds  = 5 * 60
)

// Phases lists every phase in display order.
var Phases = []Phase{PhaseFocus, PhaseRest}

// Theme holds the colors a phase is rendered with.
type Theme struct {
	Foreground          string `json:"foreground" yaml:"foreground"`
	Background          string `json:"background" yaml:"background"`
	BackgroundSecondary string `json:"background_secondary" yaml:"background_secondary"`
}

var themes = map[Phase]Theme{
	PhaseFocus: {
		Foreground:          "#ffffff",
		Background:          "#DF675B",
		BackgroundSecondary: "#e1796e",
	},
	PhaseRest: {
		Foreground:          "#ffffff",
		Background:          "#71bd4b",
		BackgroundSecondary: "#81c260",
	},
}

// ParsePhase converts a case-insensitive name into a Phase.
func ParsePhase(name string) (Phase, error) {
	switch Phase(strings.ToLower(strings.TrimSpace(name))) {
	case PhaseFocus:
		return PhaseFocus, nil
	case PhaseRest:
		return PhaseRest, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPhase, name)
	}
}

// Valid reports whether p is Focus or Rest.
func (p Phase) Valid() bool {
	return p == PhaseFocus || p == PhaseRest
}

// Seconds returns the full duration of the phase in seconds.
func (p Phase) Seconds() int {
	if p == PhaseRest {
		return RestSeconds
	}
	return FocusSeconds
}

// Next returns the phase that follows p on expiry.
func (p Phase) Next() Phase {
	if p == PhaseFocus {
		return PhaseRest
	}
	return PhaseFocus
}

// Label returns the button label for the phase.
func (p Phase) Label() string {
	if p == PhaseRest {
		return "Rest"
	}
	return "Focus"
}

// Theme returns the phase colors.
func (p Phase) Theme() Theme {
	if theme, ok := themes[p]; ok {
		return theme
	}
	return themes[PhaseFocus]
}

func (p Phase) String() string {
	return string(p)
}
