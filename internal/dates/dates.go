// Package dates holds the calendar arithmetic the metrics engine is built on.
// Everything operates on civil dates; time-of-day and timezone offsets are
// stripped before any comparison.
package dates

import "time"

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekStart returns the Monday on or before t (ISO week convention).
func WeekStart(t time.Time) time.Time {
	d := Day(t)
	// time.Weekday counts from Sunday; shift so Monday = 0.
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// DaysBetween returns the signed number of calendar days from a to b.
// Both arguments are reduced to civil dates first, so DST shifts and
// mixed locations cannot skew the count.
func DaysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
