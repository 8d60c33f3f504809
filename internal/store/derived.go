package store

import (
	"time"

	"github.com/shipday/shipday/internal/dates"
)

// Derived record properties live here as free functions so the record types
// stay plain value types.

// IsComplete reports whether the day's mission reached shipped.
func IsComplete(l DailyLog) bool {
	return l.MissionStatus == MissionShipped
}

// BlockedByMe reports whether the mission is stuck on the author's own
// unmade decision rather than an external dependency.
func BlockedByMe(l DailyLog) bool {
	return l.MissionStatus == MissionBlocked && l.BlockerType == BlockerMeDecision
}

// DaysRemaining returns the signed day count until the project's target date
// (negative = overdue). ok is false when the project has no target date.
func DaysRemaining(p Project, today time.Time) (days int, ok bool) {
	if p.TargetDate == nil {
		return 0, false
	}
	return dates.DaysBetween(today, *p.TargetDate), true
}

// Under20Minutes reports whether the decision met the 20-minute rule.
// Untimed decisions never qualify.
func Under20Minutes(d Decision) bool {
	return d.TimeToDecide != nil && *d.TimeToDecide <= 20
}

// NeedsFollowup reports whether the decision's outcome calls for revisiting.
func NeedsFollowup(d Decision) bool {
	return d.Outcome == OutcomeBlocked || d.Outcome == OutcomeRevisited
}
