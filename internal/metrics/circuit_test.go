package metrics

import (
	"reflect"
	"strings"
	"testing"

	"github.com/shipday/shipday/internal/store"
)

func hasReasonContaining(ev Evaluation, substr string) bool {
	for _, r := range ev.Reasons {
		if strings.Contains(strings.ToLower(r), strings.ToLower(substr)) {
			return true
		}
	}
	return false
}

// ============================================================
// Paralysis rule
// ============================================================

func TestBreakerTriggersOnParalysisEpisodes(t *testing.T) {
	e, s := newTestEngine(t)
	// 6 paralysis-flagged check-ins, all shipped so the completion rule
	// stays quiet.
	for i := 0; i < 6; i++ {
		date := d(-i)
		mustLog(t, s, store.DailyLog{Date: date, Mission: "m", ParalysisSignals: true})
		if _, err := s.CompleteLog(date, store.MissionShipped, "", ""); err != nil {
			t.Fatal(err)
		}
	}

	ev, err := e.CheckBreaker()
	if err != nil {
		t.Fatal(err)
	}
	if !ev.ShouldTrigger {
		t.Fatalf("6 paralysis episodes must trigger: %+v", ev)
	}
	if !hasReasonContaining(ev, "paralysis") {
		t.Fatalf("expected a paralysis reason, got %v", ev.Reasons)
	}
}

func TestBreakerParalysisReasonFormat(t *testing.T) {
	ev := Evaluate(Snapshot{
		Paralysis: ParalysisStats{ParalysisDays: 6, TotalDays: 10, Rate: 60},
		ThisWeek:  WeekStats{Total: 5, Shipped: 5, CompletionRate: 100},
		LastWeek:  WeekStats{Total: 5, Shipped: 5, CompletionRate: 100},
	})
	if len(ev.Reasons) != 1 || ev.Reasons[0] != "5+ paralysis episodes (6)" {
		t.Fatalf("unexpected reasons: %v", ev.Reasons)
	}
}

func TestBreakerFourEpisodesDoNotTrigger(t *testing.T) {
	ev := Evaluate(Snapshot{
		Paralysis: ParalysisStats{ParalysisDays: 4, TotalDays: 10, Rate: 40},
		ThisWeek:  WeekStats{Total: 5, Shipped: 5, CompletionRate: 100},
		LastWeek:  WeekStats{Total: 5, Shipped: 5, CompletionRate: 100},
	})
	if ev.ShouldTrigger {
		t.Fatalf("4 episodes is under the limit: %v", ev.Reasons)
	}
}

// ============================================================
// Completion rule
// ============================================================

func TestBreakerTriggersOnTwoLowWeeks(t *testing.T) {
	e, s := newTestEngine(t)
	// This week: 1 of 2 shipped (50%). Last week: 1 of 3 shipped (33%).
	mustComplete(t, s, d(0), store.MissionShipped)
	mustComplete(t, s, d(-1), store.MissionBlocked)
	mustComplete(t, s, d(-7), store.MissionShipped)
	mustComplete(t, s, d(-8), store.MissionBlocked)
	mustComplete(t, s, d(-9), store.MissionDeferred)

	ev, err := e.CheckBreaker()
	if err != nil {
		t.Fatal(err)
	}
	if !ev.ShouldTrigger {
		t.Fatalf("two weeks under 60%% must trigger: %+v", ev)
	}
	if !hasReasonContaining(ev, "completion") {
		t.Fatalf("expected a completion reason, got %v", ev.Reasons)
	}
}

func TestBreakerCompletionReasonFormat(t *testing.T) {
	ev := Evaluate(Snapshot{
		ThisWeek: WeekStats{Total: 2, Shipped: 1, CompletionRate: 50},
		LastWeek: WeekStats{Total: 3, Shipped: 1, CompletionRate: 100.0 / 3},
	})
	want := "Completion <60% for 2 weeks (50%, 33%)"
	if len(ev.Reasons) != 1 || ev.Reasons[0] != want {
		t.Fatalf("expected %q, got %v", want, ev.Reasons)
	}
}

func TestBreakerOneLowWeekDoesNotTrigger(t *testing.T) {
	ev := Evaluate(Snapshot{
		ThisWeek: WeekStats{Total: 2, Shipped: 1, CompletionRate: 50},
		LastWeek: WeekStats{Total: 2, Shipped: 2, CompletionRate: 100},
	})
	if ev.ShouldTrigger {
		t.Fatalf("a single low week must not trigger: %v", ev.Reasons)
	}
}

// ============================================================
// Stalled-projects rule
// ============================================================

func TestBreakerTriggersOnStalledProjects(t *testing.T) {
	blocked := store.DailyLog{Mission: "m", MissionStatus: store.MissionBlocked}
	ev := Evaluate(Snapshot{
		ThisWeek:       WeekStats{Total: 5, Shipped: 5, CompletionRate: 100},
		LastWeek:       WeekStats{Total: 5, Shipped: 5, CompletionRate: 100},
		ActiveProjects: make([]store.Project, 3),
		Today:          &blocked,
	})
	if !ev.ShouldTrigger {
		t.Fatal("cap reached with today blocked must trigger")
	}
	if len(ev.Reasons) != 1 || ev.Reasons[0] != "All projects stalled (mission blocked)" {
		t.Fatalf("unexpected reasons: %v", ev.Reasons)
	}
}

func TestBreakerStalledRuleNeedsTodayBlocked(t *testing.T) {
	shipped := store.DailyLog{Mission: "m", MissionStatus: store.MissionShipped}
	ev := Evaluate(Snapshot{
		ThisWeek:       WeekStats{Total: 5, Shipped: 5, CompletionRate: 100},
		LastWeek:       WeekStats{Total: 5, Shipped: 5, CompletionRate: 100},
		ActiveProjects: make([]store.Project, 3),
		Today:          &shipped,
	})
	if ev.ShouldTrigger {
		t.Fatalf("cap alone must not trigger: %v", ev.Reasons)
	}
}

func TestBreakerStalledRuleNeedsCheckin(t *testing.T) {
	ev := Evaluate(Snapshot{
		ThisWeek:       WeekStats{Total: 5, Shipped: 5, CompletionRate: 100},
		LastWeek:       WeekStats{Total: 5, Shipped: 5, CompletionRate: 100},
		ActiveProjects: make([]store.Project, 3),
		Today:          nil,
	})
	if ev.ShouldTrigger {
		t.Fatalf("no check-in means no stalled signal: %v", ev.Reasons)
	}
}

func TestBreakerStalledRuleNeedsFullCap(t *testing.T) {
	blocked := store.DailyLog{Mission: "m", MissionStatus: store.MissionBlocked}
	ev := Evaluate(Snapshot{
		ThisWeek:       WeekStats{Total: 5, Shipped: 5, CompletionRate: 100},
		LastWeek:       WeekStats{Total: 5, Shipped: 5, CompletionRate: 100},
		ActiveProjects: make([]store.Project, 2),
		Today:          &blocked,
	})
	if ev.ShouldTrigger {
		t.Fatalf("below the cap must not trigger: %v", ev.Reasons)
	}
}

// ============================================================
// Combined behavior
// ============================================================

func TestBreakerCleanWeekDoesNotTrigger(t *testing.T) {
	e, s := newTestEngine(t)
	// 5 consecutive shipped missions, no paralysis signals.
	for i := 0; i < 5; i++ {
		mustComplete(t, s, d(-i), store.MissionShipped)
	}

	ev, err := e.CheckBreaker()
	if err != nil {
		t.Fatal(err)
	}
	if ev.ShouldTrigger {
		t.Fatalf("healthy streak must not trigger: %v", ev.Reasons)
	}
	if len(ev.Reasons) != 0 {
		t.Fatalf("expected no reasons, got %v", ev.Reasons)
	}
}

func TestBreakerCollectsAllReasons(t *testing.T) {
	e, s := newTestEngine(t)
	// Today: blocked mission with paralysis. Five more paralysis days
	// before it. Last week all blocked. Three active projects.
	mustLog(t, s, store.DailyLog{Date: d(0), Mission: "m", ParalysisSignals: true})
	if _, err := s.CompleteLog(d(0), store.MissionBlocked, store.BlockerMeDecision, ""); err != nil {
		t.Fatal(err)
	}
	for i := 1; i < 6; i++ {
		mustLog(t, s, store.DailyLog{Date: d(-i), Mission: "m", ParalysisSignals: true})
	}
	mustComplete(t, s, d(-7), store.MissionBlocked)
	s.CreateProject("One", nil)
	s.CreateProject("Two", nil)
	s.CreateProject("Three", nil)

	ev, err := e.CheckBreaker()
	if err != nil {
		t.Fatal(err)
	}
	if !ev.ShouldTrigger {
		t.Fatal("expected trigger")
	}
	if len(ev.Reasons) != 3 {
		t.Fatalf("all applicable rules must report, got %v", ev.Reasons)
	}
}

func TestEvaluateIsPure(t *testing.T) {
	snap := Snapshot{
		Paralysis: ParalysisStats{ParalysisDays: 6, TotalDays: 8, Rate: 75},
		ThisWeek:  WeekStats{Total: 2, Shipped: 0, CompletionRate: 0},
		LastWeek:  WeekStats{Total: 2, Shipped: 0, CompletionRate: 0},
	}
	ev1 := Evaluate(snap)
	ev2 := Evaluate(snap)
	if !reflect.DeepEqual(ev1, ev2) {
		t.Fatalf("Evaluate must be deterministic: %+v vs %+v", ev1, ev2)
	}
}
