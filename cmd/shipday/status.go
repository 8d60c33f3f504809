package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shipday/shipday/internal/metrics"
	"github.com/shipday/shipday/internal/store"
)

func newStatusCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Execution scoreboard: this week, paralysis rate, decisions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(func(s *store.Store, e *metrics.Engine) error {
				return runStatus(cmd, e, days)
			})
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "window for paralysis and decision stats")
	return cmd
}

func runStatus(cmd *cobra.Command, e *metrics.Engine, days int) error {
	out := cmd.OutOrStdout()

	week, err := e.WeekStats(0)
	if err != nil {
		return err
	}
	paralysis, err := e.ParalysisRate(days)
	if err != nil {
		return err
	}
	decisions, err := e.DecisionStats(days)
	if err != nil {
		return err
	}
	projects, err := e.ActiveProjects()
	if err != nil {
		return err
	}

	trend := "↓ worse than last week"
	if week.Improving {
		trend = "↑ better than last week"
	}
	rows := []string{
		headerStyle.Render("This week") + mutedStyle.Render("  (from "+week.WeekStart.Format("Jan 02")+")"),
		fmt.Sprintf("Shipped %d of %d missions: %s  %s",
			week.Shipped, week.Total,
			rateStyle(week.CompletionRate).Render(fmt.Sprintf("%.0f%%", week.CompletionRate)),
			mutedStyle.Render(trend)),
		"",
		fmt.Sprintf("Paralysis, last %dd: %s on %d of %d logged days",
			days,
			rateStyle(100-paralysis.Rate).Render(fmt.Sprintf("%.0f%%", paralysis.Rate)),
			paralysis.ParalysisDays, paralysis.TotalDays),
		fmt.Sprintf("Decisions, last %dd: %d logged, avg %.0f min, %s under 20 min, %d made stuck",
			days, decisions.Total, decisions.AvgTimeToDecide,
			rateStyle(decisions.Under20MinRate).Render(fmt.Sprintf("%.0f%%", decisions.Under20MinRate)),
			decisions.ParalysisDecisions),
	}
	fmt.Fprintln(out, panelStyle.Render(strings.Join(rows, "\n")))

	fmt.Fprintln(out, panelStyle.Render(renderProjectList(projects)))

	eval, err := e.CheckBreaker()
	if err != nil {
		return err
	}
	flag, err := newFlagStore()
	if err != nil {
		return err
	}
	switch {
	case flag.IsActive():
		fmt.Fprintln(out, errorStyle.Render("Circuit breaker is ACTIVE. Run 'shipday emergency status'."))
	case eval.ShouldTrigger:
		lines := []string{errorStyle.Render("Circuit breaker conditions met:")}
		for _, r := range eval.Reasons {
			lines = append(lines, "  • "+r)
		}
		fmt.Fprintln(out, alertPanelStyle.Render(strings.Join(lines, "\n")))
	default:
		fmt.Fprintln(out, successStyle.Render("Circuit breaker: clear."))
	}
	return nil
}
