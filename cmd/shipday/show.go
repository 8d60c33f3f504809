package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shipday/shipday/internal/metrics"
	"github.com/shipday/shipday/internal/store"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show today's mission and state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(func(s *store.Store, e *metrics.Engine) error {
				return runShow(cmd, e)
			})
		},
	}
}

func runShow(cmd *cobra.Command, e *metrics.Engine) error {
	out := cmd.OutOrStdout()

	flag, err := newFlagStore()
	if err != nil {
		return err
	}
	if state, err := flag.Read(); err != nil {
		return err
	} else if state != nil {
		banner := strings.Join([]string{
			errorStyle.Bold(true).Render("CIRCUIT BREAKER ACTIVE"),
			"Focus: " + highlightStyle.Render(state.PrimaryProject),
			mutedStyle.Render("Since " + state.ActivatedAt.Local().Format("Jan 02")),
		}, "\n")
		fmt.Fprintln(out, alertPanelStyle.Render(banner))
	}

	log, err := e.TodayStatus()
	if err != nil {
		return err
	}

	var rows []string
	rows = append(rows, headerStyle.Render(time.Now().Format("Monday, Jan 02")))
	switch {
	case log == nil:
		rows = append(rows,
			errorStyle.Render("No check-in yet"),
			mutedStyle.Render("Run: shipday checkin"))
	case log.Mission == "":
		rows = append(rows, mutedStyle.Render("Checked in, no mission set"))
	default:
		rows = append(rows, "Mission: "+highlightStyle.Render(log.Mission))
		if log.DoneDefinition != "" {
			rows = append(rows, mutedStyle.Render("Done when: "+log.DoneDefinition))
		}
		if log.TargetTime != "" {
			rows = append(rows, mutedStyle.Render("Ship by: "+log.TargetTime))
		}
		rows = append(rows, renderMissionStatus(*log))
	}
	fmt.Fprintln(out, panelStyle.Render(strings.Join(rows, "\n")))

	projects, err := e.ActiveProjects()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, panelStyle.Render(renderProjectList(projects)))
	return nil
}

func renderMissionStatus(log store.DailyLog) string {
	switch log.MissionStatus {
	case store.MissionShipped:
		return successStyle.Render("✓ SHIPPED")
	case store.MissionBlocked:
		s := errorStyle.Render("✗ BLOCKED (" + string(log.BlockerType) + ")")
		if log.DecisionMade != "" {
			s += "\n" + mutedStyle.Render("Decision that breaks it: "+log.DecisionMade)
		}
		return s
	case store.MissionDeferred:
		return warningStyle.Render("→ DEFERRED")
	default:
		return warningStyle.Render("● in progress")
	}
}

func renderProjectList(projects []store.Project) string {
	rows := []string{fmt.Sprintf("%s  %d/%d",
		headerStyle.Render("Active projects"), len(projects), metrics.MaxActiveProjects)}

	if len(projects) == 0 {
		rows = append(rows, mutedStyle.Render("none"))
		return strings.Join(rows, "\n")
	}
	for _, p := range projects {
		line := fmt.Sprintf("  [%d] %s", p.ID, p.Name)
		if days, ok := store.DaysRemaining(p, time.Now()); ok {
			switch {
			case days < 0:
				line += "  " + errorStyle.Render(fmt.Sprintf("%dd overdue", -days))
			case days <= 3:
				line += "  " + warningStyle.Render(fmt.Sprintf("%dd left", days))
			default:
				line += "  " + mutedStyle.Render(fmt.Sprintf("%dd left", days))
			}
		}
		rows = append(rows, line)
	}
	if len(projects) >= metrics.MaxActiveProjects {
		rows = append(rows, errorStyle.Render("At the hard cap. Ship or kill before adding."))
	}
	return strings.Join(rows, "\n")
}
