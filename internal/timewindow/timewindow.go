// Package timewindow computes rolling-window boundaries for connected-time
// counters. The day window starts at local midnight, the week window at the
// most recent Monday 00:00, the month window on the first of the month.
// A counter is stale when its last reset precedes the current boundary; the
// caller zeroes it and stamps the reset with the current time (not the
// boundary instant), matching the reference behavior.
package timewindow

import "time"

type Window int

const (
	Day Window = iota
	Week
	Month
)

func (w Window) String() string {
	switch w {
	case Day:
		return "day"
	case Week:
		return "week"
	case Month:
		return "month"
	}
	return "unknown"
}

// BoundaryStart returns the instant the current window of kind w began,
// in now's location.
func BoundaryStart(w Window, now time.Time) time.Time {
	y, m, d := now.Date()
	switch w {
	case Day:
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case Week:
		midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
		// time.Weekday numbers Sunday as 0; shift so Monday is the start.
		offset := (int(now.Weekday()) + 6) % 7
		return midnight.AddDate(0, 0, -offset)
	case Month:
		return time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
	}
	return now
}

// ShouldReset reports whether a counter last reset at lastReset belongs to
// an earlier window than now and must be zeroed before use.
func ShouldReset(w Window, lastReset, now time.Time) bool {
	return lastReset.Before(BoundaryStart(w, now))
}
