// Package config provides configuration types and defaults for pomodoro.
//
// Phase durations and colors are compiled into the timer package and are
// deliberately absent here.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidConfig wraps every validation failure reported by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all configuration for pomodoro.
type Config struct {
	Sound       SoundConfig       `yaml:"sound" mapstructure:"sound"`
	Paths       PathsConfig       `yaml:"paths" mapstructure:"paths"`
	LogRotation LogRotationConfig `yaml:"log_rotation" mapstructure:"log_rotation"`
	UI          UIConfig          `yaml:"ui" mapstructure:"ui"`
}

// SoundConfig controls how the expiry cue is played.
type SoundConfig struct {
	Enabled      bool          `yaml:"enabled" mapstructure:"enabled"`
	Player       string        `yaml:"player" mapstructure:"player"`               // Player command, e.g. "aplay -q" (empty = auto-detect)
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`             // Upper bound on a single playback
	BellFallback bool          `yaml:"bell_fallback" mapstructure:"bell_fallback"` // Ring the terminal bell when no player works
}

// PathsConfig holds file paths for the event log, debug log, and instance lock.
// Relative paths are resolved against StateDir().
type PathsConfig struct {
	Log      string `yaml:"log" mapstructure:"log"`
	DebugLog string `yaml:"debug_log" mapstructure:"debug_log"`
	Lock     string `yaml:"lock" mapstructure:"lock"`
}

// LogRotationConfig bounds the files pomodoro leaves behind. The size, backup
// and age limits apply to the debug log; KeepSessions to archived event logs.
type LogRotationConfig struct {
	MaxSizeMB  int  `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool `yaml:"compress" mapstructure:"compress"`

	// KeepSessions caps archived event logs (0 = keep all).
	KeepSessions int `yaml:"keep_sessions" mapstructure:"keep_sessions"`
}

// UIConfig holds terminal UI settings.
type UIConfig struct {
	AltScreen bool `yaml:"alt_screen" mapstructure:"alt_screen"`
	Mouse     bool `yaml:"mouse" mapstructure:"mouse"`         // Clickable buttons
	ShowHelp  bool `yaml:"show_help" mapstructure:"show_help"` // Start with the full key help expanded
}

// DefaultPlayers are tried in order when SoundConfig.Player is empty.
var DefaultPlayers = []string{"paplay", "pw-play", "aplay", "afplay"}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Sound: SoundConfig{
			Enabled:      true,
			Player:       "",
			Timeout:      10 * time.Second,
			BellFallback: true,
		},
		Paths: PathsConfig{
			Log:      "events.jsonl",
			DebugLog: "pomodoro-debug.log",
			Lock:     "pomodoro.lock",
		},
		LogRotation: LogRotationConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,

			KeepSessions: 20,
		},
		UI: UIConfig{
			AltScreen: true,
			Mouse:     true,
			ShowHelp:  false,
		},
	}
}

// Validate reports every setting pomodoro cannot run with.
func (c *Config) Validate() error {
	var problems []string
	if c.Sound.Timeout < 0 {
		problems = append(problems, fmt.Sprintf("sound.timeout %s is negative", c.Sound.Timeout))
	}
	if c.Sound.Player != "" && len(strings.Fields(c.Sound.Player)) == 0 {
		problems = append(problems, "sound.player has no command")
	}

	counts := []struct {
		key string
		n   int
	}{
		{"log_rotation.max_size_mb", c.LogRotation.MaxSizeMB},
		{"log_rotation.max_backups", c.LogRotation.MaxBackups},
		{"log_rotation.max_age_days", c.LogRotation.MaxAgeDays},
		{"log_rotation.keep_sessions", c.LogRotation.KeepSessions},
	}
	for _, f := range counts {
		if f.n < 0 {
			problems = append(problems, fmt.Sprintf("%s %d is negative", f.key, f.n))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
}
