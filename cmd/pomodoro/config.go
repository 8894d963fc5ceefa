package main

// Flag names for Viper binding
const (
	// Global flags
	FlagVerbose = "verbose"
	FlagConfig  = "config"
	FlagLogFile = "log-file"

	// Timer flags
	FlagTUI     = "tui"
	FlagNoSound = "no-sound"
	FlagPhase   = "phase"

	// Events command flags
	FlagFollow = "follow"
	FlagCount  = "count"
)
