package timewindow

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestBoundaryStart(t *testing.T) {
	// 2024-06-12 is a Wednesday.
	now := date(2024, time.June, 12, 15, 30)

	tests := []struct {
		name string
		w    Window
		want time.Time
	}{
		{"day", Day, date(2024, time.June, 12, 0, 0)},
		{"week monday", Week, date(2024, time.June, 10, 0, 0)},
		{"month", Month, date(2024, time.June, 1, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BoundaryStart(tt.w, now); !got.Equal(tt.want) {
				t.Fatalf("BoundaryStart(%v) = %v, want %v", tt.w, got, tt.want)
			}
		})
	}
}

func TestBoundaryStartWeekOnSundayAndMonday(t *testing.T) {
	// Sunday belongs to the week that started the previous Monday.
	sunday := date(2024, time.June, 16, 9, 0)
	if got, want := BoundaryStart(Week, sunday), date(2024, time.June, 10, 0, 0); !got.Equal(want) {
		t.Fatalf("sunday week start = %v, want %v", got, want)
	}
	// Monday starts its own week at midnight.
	monday := date(2024, time.June, 17, 0, 1)
	if got, want := BoundaryStart(Week, monday), date(2024, time.June, 17, 0, 0); !got.Equal(want) {
		t.Fatalf("monday week start = %v, want %v", got, want)
	}
}

func TestShouldReset(t *testing.T) {
	now := date(2024, time.June, 12, 8, 0)

	tests := []struct {
		name      string
		w         Window
		lastReset time.Time
		want      bool
	}{
		{"same day", Day, date(2024, time.June, 12, 1, 0), false},
		{"yesterday", Day, date(2024, time.June, 11, 23, 59), true},
		{"same week", Week, date(2024, time.June, 10, 0, 0), false},
		{"previous week", Week, date(2024, time.June, 9, 23, 0), true},
		{"same month", Month, date(2024, time.June, 1, 0, 0), false},
		{"previous month", Month, date(2024, time.May, 31, 23, 0), true},
		{"year rollover", Month, date(2023, time.December, 15, 0, 0), true},
		{"zero time", Day, time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldReset(tt.w, tt.lastReset, now); got != tt.want {
				t.Fatalf("ShouldReset(%v, %v) = %v, want %v", tt.w, tt.lastReset, got, tt.want)
			}
		})
	}
}
