package model

import "fmt"

// FormatClock formats minutes since midnight as HH:MM.
func FormatClock(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}
