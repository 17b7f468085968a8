package service

import (
	"time"

	"github.com/unitree-app/unitree-server/internal/model"
	"github.com/unitree-app/unitree-server/internal/timewindow"
)

// reconcileWindows zeroes any rolling counter whose window has lapsed and
// stamps its reset time. It must run before every read or mutation of the
// counters; windows go stale between requests with no activity. Returns
// true when something changed and the user needs persisting.
func reconcileWindows(u *model.User, now time.Time) bool {
	changed := false
	if timewindow.ShouldReset(timewindow.Day, u.LastDayReset, now) {
		u.DayTimeConnected = 0
		u.LastDayReset = now
		changed = true
	}
	if timewindow.ShouldReset(timewindow.Week, u.LastWeekReset, now) {
		u.WeekTimeConnected = 0
		u.LastWeekReset = now
		changed = true
	}
	if timewindow.ShouldReset(timewindow.Month, u.LastMonthReset, now) {
		u.MonthTimeConnected = 0
		u.LastMonthReset = now
		changed = true
	}
	return changed
}

// addConnectedMinutes reconciles the windows, then adds minutes to all four
// counters. The lifetime total only ever grows.
func addConnectedMinutes(u *model.User, minutes float64, now time.Time) {
	reconcileWindows(u, now)
	if minutes < 0 {
		minutes = 0
	}
	u.DayTimeConnected += minutes
	u.WeekTimeConnected += minutes
	u.MonthTimeConnected += minutes
	u.TotalTimeConnected += minutes
}

func wholeHours(minutes float64) int {
	if minutes < 0 {
		return 0
	}
	return int(minutes / 60)
}
