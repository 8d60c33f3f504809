// Package metrics computes the journal's aggregate numbers: weekly completion
// rate, paralysis rate, decision timing, and the project-cap check. The engine
// holds no state of its own; every call recomputes from the store so results
// always reflect the latest data.
package metrics

import (
	"time"

	"github.com/shipday/shipday/internal/dates"
	"github.com/shipday/shipday/internal/store"
)

// Store is the read-only slice of the record store the engine needs.
// *store.Store satisfies it.
type Store interface {
	LogByDate(date time.Time) (*store.DailyLog, error)
	LogsByRange(from, to time.Time) ([]store.DailyLog, error)
	ProjectsByStatus(status store.ProjectStatus) ([]store.Project, error)
	CountProjectsByStatus(status store.ProjectStatus) (int, error)
	DecisionsByRange(from, to time.Time) ([]store.Decision, error)
}

// MaxActiveProjects is the hard cap on concurrently active projects.
const MaxActiveProjects = 3

// maxTrendWeeks bounds how far back WeekStats follows the week-over-week
// trend. Beyond this the comparison stops (Improving = false); the bound
// exists to guarantee termination, not as a business rule.
const maxTrendWeeks = 12

// WeekStats is one week's completion picture. Total counts only days with a
// mission set; CompletionRate is 0 when no missions were logged.
type WeekStats struct {
	WeekStart      time.Time
	Shipped        int
	Total          int
	CompletionRate float64
	Improving      bool
}

// ParalysisStats covers a trailing window of check-ins, with or without missions.
type ParalysisStats struct {
	ParalysisDays int
	TotalDays     int
	Rate          float64
}

// DecisionStats covers a trailing window of logged decisions. Averages and
// rates are computed only over decisions that recorded a time.
type DecisionStats struct {
	Total              int
	AvgTimeToDecide    float64
	Under20MinRate     float64
	ParalysisDecisions int
}

type Engine struct {
	store Store
	now   func() time.Time
}

func New(s Store) *Engine {
	return &Engine{store: s, now: time.Now}
}

// TodayStatus returns today's check-in, or nil when none exists.
func (e *Engine) TodayStatus() (*store.DailyLog, error) {
	return e.store.LogByDate(e.today())
}

// WeekStats computes completion statistics for the week weeksAgo weeks back
// (0 = current week, Monday-anchored). Improving compares against the week
// before, up to maxTrendWeeks back.
func (e *Engine) WeekStats(weeksAgo int) (WeekStats, error) {
	cur, err := e.weekWindow(weeksAgo)
	if err != nil {
		return WeekStats{}, err
	}
	if weeksAgo < maxTrendWeeks {
		prev, err := e.weekWindow(weeksAgo + 1)
		if err != nil {
			return WeekStats{}, err
		}
		cur.Improving = cur.CompletionRate > prev.CompletionRate
	}
	return cur, nil
}

func (e *Engine) weekWindow(weeksAgo int) (WeekStats, error) {
	start := dates.WeekStart(e.now()).AddDate(0, 0, -7*weeksAgo)
	end := start.AddDate(0, 0, 6)

	logs, err := e.store.LogsByRange(start, end)
	if err != nil {
		return WeekStats{}, err
	}

	ws := WeekStats{WeekStart: start}
	for _, l := range logs {
		if l.Mission == "" {
			continue
		}
		ws.Total++
		if l.MissionStatus == store.MissionShipped {
			ws.Shipped++
		}
	}
	ws.CompletionRate = pct(ws.Shipped, ws.Total)
	return ws, nil
}

// ParalysisRate computes the share of check-ins with paralysis signals over
// the trailing window [today-days, today].
func (e *Engine) ParalysisRate(days int) (ParalysisStats, error) {
	today := e.today()
	logs, err := e.store.LogsByRange(today.AddDate(0, 0, -days), today)
	if err != nil {
		return ParalysisStats{}, err
	}

	ps := ParalysisStats{TotalDays: len(logs)}
	for _, l := range logs {
		if l.ParalysisSignals {
			ps.ParalysisDays++
		}
	}
	ps.Rate = pct(ps.ParalysisDays, ps.TotalDays)
	return ps, nil
}

// ActiveProjects returns all active projects, oldest first.
func (e *Engine) ActiveProjects() ([]store.Project, error) {
	return e.store.ProjectsByStatus(store.ProjectActive)
}

// CanAddProject reports whether a new project fits under the hard cap. The
// answer is advisory: callers must check it immediately before inserting.
func (e *Engine) CanAddProject() (bool, error) {
	n, err := e.store.CountProjectsByStatus(store.ProjectActive)
	if err != nil {
		return false, err
	}
	return n < MaxActiveProjects, nil
}

// DecisionStats computes timing statistics over the trailing window
// [today-days, today]. Every aggregate is 0 when the window is empty.
func (e *Engine) DecisionStats(days int) (DecisionStats, error) {
	today := e.today()
	decisions, err := e.store.DecisionsByRange(today.AddDate(0, 0, -days), today)
	if err != nil {
		return DecisionStats{}, err
	}

	ds := DecisionStats{Total: len(decisions)}
	timed, under20, totalMinutes := 0, 0, 0
	for _, d := range decisions {
		if d.MadeUnderParalysis {
			ds.ParalysisDecisions++
		}
		if d.TimeToDecide == nil {
			continue
		}
		timed++
		totalMinutes += *d.TimeToDecide
		if store.Under20Minutes(d) {
			under20++
		}
	}
	if timed > 0 {
		ds.AvgTimeToDecide = float64(totalMinutes) / float64(timed)
	}
	ds.Under20MinRate = pct(under20, timed)
	return ds, nil
}

func (e *Engine) today() time.Time {
	return dates.Day(e.now())
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
