package metrics

import (
	"fmt"

	"github.com/shipday/shipday/internal/store"
)

// Circuit breaker thresholds. All three rules are evaluated independently so
// every applicable reason is reported, not just the first.
const (
	paralysisEpisodeLimit = 5    // episodes in the trailing 30 days
	lowCompletionPct      = 60.0 // weekly completion rate floor
	paralysisWindowDays   = 30
)

// Snapshot is the engine output the evaluator runs on. Gathering it is the
// only I/O in the circuit breaker path; Evaluate itself is pure.
type Snapshot struct {
	Paralysis      ParalysisStats
	ThisWeek       WeekStats
	LastWeek       WeekStats
	ActiveProjects []store.Project
	Today          *store.DailyLog
}

// Evaluation is the circuit breaker verdict. ShouldTrigger is true exactly
// when at least one reason applies.
type Evaluation struct {
	ShouldTrigger bool
	Reasons       []string
}

// Snapshot gathers the metrics the circuit breaker rules inspect.
func (e *Engine) Snapshot() (*Snapshot, error) {
	paralysis, err := e.ParalysisRate(paralysisWindowDays)
	if err != nil {
		return nil, err
	}
	thisWeek, err := e.WeekStats(0)
	if err != nil {
		return nil, err
	}
	lastWeek, err := e.WeekStats(1)
	if err != nil {
		return nil, err
	}
	active, err := e.ActiveProjects()
	if err != nil {
		return nil, err
	}
	today, err := e.TodayStatus()
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Paralysis:      paralysis,
		ThisWeek:       thisWeek,
		LastWeek:       lastWeek,
		ActiveProjects: active,
		Today:          today,
	}, nil
}

// Evaluate applies the fixed trigger rules to a snapshot:
//
//  1. 5+ paralysis episodes in the last 30 days
//  2. completion rate below 60% for two consecutive weeks
//  3. at the project cap with today's mission blocked
//
// Safe to call on every invocation; no state, no side effects.
func Evaluate(snap Snapshot) Evaluation {
	var reasons []string

	if snap.Paralysis.ParalysisDays >= paralysisEpisodeLimit {
		reasons = append(reasons,
			fmt.Sprintf("5+ paralysis episodes (%d)", snap.Paralysis.ParalysisDays))
	}

	if snap.ThisWeek.CompletionRate < lowCompletionPct && snap.LastWeek.CompletionRate < lowCompletionPct {
		reasons = append(reasons,
			fmt.Sprintf("Completion <60%% for 2 weeks (%.0f%%, %.0f%%)",
				snap.ThisWeek.CompletionRate, snap.LastWeek.CompletionRate))
	}

	// Only today's mission is inspected, not each project individually.
	if len(snap.ActiveProjects) >= MaxActiveProjects &&
		snap.Today != nil && snap.Today.MissionStatus == store.MissionBlocked {
		reasons = append(reasons, "All projects stalled (mission blocked)")
	}

	return Evaluation{ShouldTrigger: len(reasons) > 0, Reasons: reasons}
}

// CheckBreaker gathers a snapshot and evaluates it in one call.
func (e *Engine) CheckBreaker() (Evaluation, error) {
	snap, err := e.Snapshot()
	if err != nil {
		return Evaluation{}, err
	}
	return Evaluate(*snap), nil
}
