package timer

import "fmt"

// FormatTime renders a second count as MM:SS with both fields zero-padded.
// Negative values render as 00:00.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
