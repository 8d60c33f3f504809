package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/shipday/shipday/internal/metrics"
	"github.com/shipday/shipday/internal/store"
)

func newCheckinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkin",
		Short: "Morning check-in: pick today's one mission",
		Long: `Start the day by naming the single mission that matters today,
what "done" looks like, and when you intend to ship it.

If you report paralysis signals, the check-in offers the 20-minute
decision protocol before you commit to a mission.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(func(s *store.Store, e *metrics.Engine) error {
				return runCheckin(cmd, s, e)
			})
		},
	}
}

func runCheckin(cmd *cobra.Command, s *store.Store, e *metrics.Engine) error {
	today := time.Now()

	existing, err := s.LogByDate(today)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.Mission != "" {
			fmt.Fprintln(cmd.OutOrStdout(), warningStyle.Render("Already checked in today."))
			fmt.Fprintf(cmd.OutOrStdout(), "Mission: %s\n", highlightStyle.Render(existing.Mission))
			return nil
		}
		return fmt.Errorf("already checked in today; paralysis was recorded and no mission was set")
	}

	var (
		energy    string
		paralysis bool
	)
	intro := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Energy level").
				Options(
					huh.NewOption("High", string(store.EnergyHigh)),
					huh.NewOption("Medium", string(store.EnergyMedium)),
					huh.NewOption("Low", string(store.EnergyLow)),
				).
				Value(&energy),
			huh.NewConfirm().
				Title("Feeling stuck or avoiding a decision?").
				Affirmative("Yes").
				Negative("No").
				Value(&paralysis),
		),
	)
	if err := intro.Run(); err != nil {
		return err
	}

	if paralysis {
		proceed, err := runParalysisBranch(cmd, s, today, store.Energy(energy))
		if err != nil || !proceed {
			return err
		}
	}

	var (
		mission    string
		doneWhen   string
		targetTime string
	)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Today's ONE mission").
				Description("The single thing that must ship today").
				Placeholder("e.g., Send the pricing proposal to the board").
				Value(&mission).
				Validate(func(v string) error {
					if strings.TrimSpace(v) == "" {
						return fmt.Errorf("the mission is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Done means...").
				Description("A binary test you cannot argue with tonight").
				Placeholder("e.g., Email sent, reply-all confirmed").
				Value(&doneWhen).
				Validate(func(v string) error {
					if strings.TrimSpace(v) == "" {
						return fmt.Errorf("define what done looks like")
					}
					return nil
				}),
			huh.NewInput().
				Title("Ship by (time)").
				Placeholder("e.g., 16:00").
				Value(&targetTime),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	_, err = s.CreateLog(store.DailyLog{
		Date:             today,
		Energy:           store.Energy(energy),
		ParalysisSignals: paralysis,
		Mission:          strings.TrimSpace(mission),
		DoneDefinition:   strings.TrimSpace(doneWhen),
		TargetTime:       strings.TrimSpace(targetTime),
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ Checked in."))
	fmt.Fprintf(cmd.OutOrStdout(), "Mission: %s\n", highlightStyle.Render(strings.TrimSpace(mission)))
	fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("Run 'shipday complete' tonight."))

	printBreakerWarning(cmd, e)
	return nil
}

// runParalysisBranch handles a positive paralysis signal. It returns
// proceed=true when the check-in should continue to the mission form.
func runParalysisBranch(cmd *cobra.Command, s *store.Store, today time.Time, energy store.Energy) (proceed bool, err error) {
	const (
		branchProtocol = "protocol"
		branchSimplify = "simplify"
		branchExternal = "external"
	)

	var branch string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Stuck. What breaks the loop?").
				Options(
					huh.NewOption("Run the 20-minute decision protocol now", branchProtocol),
					huh.NewOption("Simplify: pick a smaller mission", branchSimplify),
					huh.NewOption("Get external input before deciding", branchExternal),
				).
				Value(&branch),
		),
	)
	if err := form.Run(); err != nil {
		return false, err
	}

	switch branch {
	case branchProtocol:
		// Record the signal even though today has no mission yet.
		if _, err := s.CreateLog(store.DailyLog{
			Date:             today,
			Energy:           energy,
			ParalysisSignals: true,
		}); err != nil {
			return false, err
		}
		if err := runDecisionProtocol(cmd, s); err != nil {
			return false, err
		}
		fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("Decision made. Run 'shipday checkin' again if a mission fell out of it."))
		return false, nil

	case branchSimplify:
		fmt.Fprintln(cmd.OutOrStdout(), warningStyle.Render("Pick something you can finish before lunch."))
		return true, nil

	case branchExternal:
		var called bool
		confirm := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Call or message one person who has seen this before. Done?").
					Affirmative("Called").
					Negative("Not yet").
					Value(&called),
			),
		)
		if err := confirm.Run(); err != nil {
			return false, err
		}
		if !called {
			fmt.Fprintln(cmd.OutOrStdout(), errorStyle.Render("Make the call first. Check in after."))
			return false, nil
		}
		return true, nil
	}
	return true, nil
}

// printBreakerWarning reports breaker trigger conditions after a mutation.
// Evaluation failures are not fatal to the command that triggered them.
func printBreakerWarning(cmd *cobra.Command, e *metrics.Engine) {
	flag, err := newFlagStore()
	if err == nil && flag.IsActive() {
		return
	}
	eval, err := e.CheckBreaker()
	if err != nil || !eval.ShouldTrigger {
		return
	}
	lines := []string{errorStyle.Render("Circuit breaker conditions met:")}
	for _, r := range eval.Reasons {
		lines = append(lines, "  • "+r)
	}
	lines = append(lines, mutedStyle.Render("Run 'shipday emergency activate' to enter simplified mode."))
	fmt.Fprintln(cmd.OutOrStdout(), alertPanelStyle.Render(strings.Join(lines, "\n")))
}
