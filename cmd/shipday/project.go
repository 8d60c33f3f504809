package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/shipday/shipday/internal/metrics"
	"github.com/shipday/shipday/internal/store"
)

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage the three active project slots",
		Long: `Projects are capped at three active at a time. The cap is the
feature: a fourth project is a decision you are avoiding. Ship or
kill one to open a slot.`,
	}

	cmd.AddCommand(
		newProjectAddCmd(),
		newProjectListCmd(),
		newProjectShipCmd(),
		newProjectKillCmd(),
		newProjectShowCmd(),
	)
	return cmd
}

func newProjectAddCmd() *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a project (fails at the cap)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(func(s *store.Store, e *metrics.Engine) error {
				name := ""
				if len(args) == 1 {
					name = args[0]
				}
				return runProjectAdd(cmd, s, e, name, target)
			})
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "target ship date (YYYY-MM-DD)")
	return cmd
}

func runProjectAdd(cmd *cobra.Command, s *store.Store, e *metrics.Engine, name, target string) error {
	flag, err := newFlagStore()
	if err != nil {
		return err
	}
	if flag.IsActive() {
		return fmt.Errorf("circuit breaker is active: no new commitments until you deactivate it")
	}

	ok, err := e.CanAddProject()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("already at %d active projects; ship or kill one first", metrics.MaxActiveProjects)
	}

	if strings.TrimSpace(name) == "" {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Project name").
					Value(&name).
					Validate(required("the project name")),
				huh.NewInput().
					Title("Target ship date (optional)").
					Placeholder("YYYY-MM-DD").
					Value(&target),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
	}

	var targetDate *time.Time
	if strings.TrimSpace(target) != "" {
		t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(target), time.Local)
		if err != nil {
			return fmt.Errorf("invalid target date %q (want YYYY-MM-DD)", target)
		}
		targetDate = &t
	}

	p, err := s.CreateProject(strings.TrimSpace(name), targetDate)
	if err != nil {
		return err
	}

	count, err := s.CountProjectsByStatus(store.ProjectActive)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s\n",
		successStyle.Render("✓ Added"),
		highlightStyle.Render(p.Name),
		mutedStyle.Render(fmt.Sprintf("[%d]  %d/%d slots used", p.ID, count, metrics.MaxActiveProjects)))
	return nil
}

func newProjectListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(func(s *store.Store, _ *metrics.Engine) error {
				return runProjectList(cmd, s, all)
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include shipped and killed projects")
	return cmd
}

func runProjectList(cmd *cobra.Command, s *store.Store, all bool) error {
	out := cmd.OutOrStdout()

	if !all {
		projects, err := s.ProjectsByStatus(store.ProjectActive)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, panelStyle.Render(renderProjectList(projects)))
		return nil
	}

	projects, err := s.AllProjects()
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("No projects yet."))
		return nil
	}
	for _, p := range projects {
		fmt.Fprintln(out, renderProjectLine(p))
	}
	return nil
}

func renderProjectLine(p store.Project) string {
	status := mutedStyle.Render(string(p.Status))
	switch p.Status {
	case store.ProjectShipped:
		status = successStyle.Render("shipped")
		if p.ShippedEarly != nil && *p.ShippedEarly {
			status += mutedStyle.Render(" (on time)")
		}
	case store.ProjectKilled:
		status = errorStyle.Render("killed")
	case store.ProjectActive:
		status = warningStyle.Render("active")
	}
	line := fmt.Sprintf("[%d] %-30s %s", p.ID, p.Name, status)
	if p.CompletedAt != nil {
		line += mutedStyle.Render("  " + p.CompletedAt.Local().Format("2006-01-02"))
	}
	return line
}

func newProjectShipCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ship <id>",
		Short: "Mark a project shipped",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(func(s *store.Store, _ *metrics.Engine) error {
				id, err := parseProjectID(args[0])
				if err != nil {
					return err
				}
				p, err := s.ShipProject(id, time.Now())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
					successStyle.Render("✓ SHIPPED:"), highlightStyle.Render(p.Name))
				if p.ShippedEarly != nil {
					if *p.ShippedEarly {
						fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("On or before target. Slot open."))
					} else {
						fmt.Fprintln(cmd.OutOrStdout(), warningStyle.Render("Past target, but shipped beats perfect."))
					}
				}
				return nil
			})
		},
	}
}

func newProjectKillCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "kill <id>",
		Short: "Kill a project and free its slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(func(s *store.Store, _ *metrics.Engine) error {
				id, err := parseProjectID(args[0])
				if err != nil {
					return err
				}
				p, err := s.GetProject(id)
				if err != nil {
					return err
				}

				if !yes {
					confirm := huh.NewForm(
						huh.NewGroup(
							huh.NewConfirm().
								Title(fmt.Sprintf("Kill %q?", p.Name)).
								Description("Killing on purpose is a decision. Letting it rot is not.").
								Affirmative("Kill it").
								Negative("Keep it").
								Value(&yes),
						),
					)
					if err := confirm.Run(); err != nil {
						return err
					}
					if !yes {
						fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("Kept."))
						return nil
					}
				}

				if _, err := s.KillProject(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s\n",
					errorStyle.Render("✗ Killed:"), p.Name,
					mutedStyle.Render("slot open"))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func newProjectShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(func(s *store.Store, _ *metrics.Engine) error {
				id, err := parseProjectID(args[0])
				if err != nil {
					return err
				}
				p, err := s.GetProject(id)
				if err != nil {
					return err
				}

				rows := []string{headerStyle.Render(p.Name)}
				rows = append(rows, renderProjectLine(*p))
				if p.TargetDate != nil {
					rows = append(rows, "Target: "+p.TargetDate.Format("2006-01-02"))
					if days, ok := store.DaysRemaining(*p, time.Now()); ok {
						if days < 0 {
							rows = append(rows, errorStyle.Render(fmt.Sprintf("%d days overdue", -days)))
						} else {
							rows = append(rows, fmt.Sprintf("%d days remaining", days))
						}
					}
				}
				rows = append(rows, mutedStyle.Render("Created "+p.CreatedAt.Local().Format("2006-01-02")))
				fmt.Fprintln(cmd.OutOrStdout(), panelStyle.Render(strings.Join(rows, "\n")))
				return nil
			})
		},
	}
}

func parseProjectID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid project id %q", arg)
	}
	return id, nil
}
