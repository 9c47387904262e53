package daily

import (
	"fmt"
	"time"
)

// DefaultResetZone is where the product announces the next daily puzzle.
// Answer selection itself always follows the UTC date.
const DefaultResetZone = "America/New_York"

// UntilNextReset returns the time until the next local midnight in loc.
func UntilNextReset(now time.Time, loc *time.Location) time.Duration {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	y, m, d := local.Date()
	next := time.Date(y, m, d+1, 0, 0, 0, 0, loc)
	if diff := next.Sub(local); diff > 0 {
		return diff.Truncate(time.Second)
	}
	return 0
}

// FormatCountdown renders a duration as HH:MM:SS.
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}
