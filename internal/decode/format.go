package decode

import (
	"fmt"
	"time"
)

// FormatHHMM renders d as zero-padded "HH:MM". Seconds are dropped.
func FormatHHMM(d time.Duration) string {
	h, m, _ := split(d)
	return fmt.Sprintf("%02d:%02d", h, m)
}

// FormatHHMMSS renders d as zero-padded "HH:MM:SS". Sub-second parts are dropped.
func FormatHHMMSS(d time.Duration) string {
	h, m, s := split(d)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// split takes whole hours off d, then whole minutes, then whole seconds.
// Negative durations render as zero.
func split(d time.Duration) (hours, minutes, seconds int64) {
	if d < 0 {
		return 0, 0, 0
	}
	hours = int64(d / time.Hour)
	d -= time.Duration(hours) * time.Hour
	minutes = int64(d / time.Minute)
	d -= time.Duration(minutes) * time.Minute
	seconds = int64(d / time.Second)
	return hours, minutes, seconds
}
