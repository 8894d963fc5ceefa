package testutil

// Sample event log lines, as written by the event log sink.

// AppStartLine is the first line of a TUI session.
var AppStartLine = `{"type":"app.start","timestamp":"2024-01-15T10:00:00Z","source":"pomodoro","version":"v1.2.0","mode":"tui","session":"3f0c2a9e-8d1b-4c57-9a6e-2b7d4f1e0c83"}`

// FocusStartedLine records Focus being started from its full duration.
var FocusStartedLine = `{"type":"timer.started","timestamp":"2024-01-15T10:00:05Z","source":"user","phase":"focus","remaining":1500}`

// FocusExpiredLine records Focus running out with Rest up next.
var FocusExpiredLine = `{"type":"phase.expired","timestamp":"2024-01-15T10:25:06Z","source":"timer","expired":"focus","next":"rest","remaining":300}`

// RestPausedLine records Rest being paused with two minutes left.
var RestPausedLine = `{"type":"timer.paused","timestamp":"2024-01-15T10:28:06Z","source":"user","phase":"rest","remaining":120}`

// AppStopLine is the last line of a session.
var AppStopLine = `{"type":"app.stop","timestamp":"2024-01-15T10:30:00Z","source":"pomodoro"}`

// SampleEventLog is a short session: start, Focus run to expiry.
var SampleEventLog = AppStartLine + "\n" + FocusStartedLine + "\n" + FocusExpiredLine + "\n"

// SampleConfigYAML overrides one setting from each config section.
var SampleConfigYAML = `sound:
  player: "aplay -q"
  timeout: 3s
paths:
  log: custom-events.jsonl
log_rotation:
  max_backups: 9
ui:
  mouse: false
`
