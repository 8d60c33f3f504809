package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/shipday/shipday/internal/metrics"
	"github.com/shipday/shipday/internal/store"
)

func newCompleteCmd() *cobra.Command {
	var statusFlag string

	cmd := &cobra.Command{
		Use:   "complete",
		Short: "Evening completion: did today's mission ship?",
		Long: `Close out the day. Records whether the mission shipped, was
blocked, or was deferred. A blocked mission asks what kind of blocker
it was; if the blocker is a decision only you can make, it asks which
decision would break the block.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(func(s *store.Store, e *metrics.Engine) error {
				return runComplete(cmd, s, e, statusFlag)
			})
		},
	}

	cmd.Flags().StringVar(&statusFlag, "status", "", "mission outcome: shipped, blocked or deferred")
	return cmd
}

func runComplete(cmd *cobra.Command, s *store.Store, e *metrics.Engine, statusFlag string) error {
	today := time.Now()

	log, err := s.LogByDate(today)
	if err != nil {
		return err
	}
	if log == nil {
		return fmt.Errorf("no check-in found for today; run 'shipday checkin' first")
	}
	if log.Mission == "" {
		return fmt.Errorf("today has no mission to complete")
	}
	if store.IsComplete(*log) {
		fmt.Fprintf(cmd.OutOrStdout(), "Today is already recorded as %s.\n", highlightStyle.Render(string(log.MissionStatus)))
		return nil
	}

	status := store.MissionStatus(statusFlag)
	switch status {
	case store.MissionShipped, store.MissionBlocked, store.MissionDeferred:
	case "":
		var picked string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title(fmt.Sprintf("Mission: %s", log.Mission)).
					Description("What happened?").
					Options(
						huh.NewOption("Shipped", string(store.MissionShipped)),
						huh.NewOption("Blocked", string(store.MissionBlocked)),
						huh.NewOption("Deferred", string(store.MissionDeferred)),
					).
					Value(&picked),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
		status = store.MissionStatus(picked)
	default:
		return fmt.Errorf("invalid status %q (shipped, blocked or deferred)", statusFlag)
	}

	var (
		blocker      store.BlockerType
		decisionMade string
	)
	if status == store.MissionBlocked {
		var picked string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("What blocked it?").
					Options(
						huh.NewOption("A decision only I can make", string(store.BlockerMeDecision)),
						huh.NewOption("Waiting on someone else", string(store.BlockerExternal)),
						huh.NewOption("Something else", string(store.BlockerOther)),
					).
					Value(&picked),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
		blocker = store.BlockerType(picked)

		if blocker == store.BlockerMeDecision {
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Title("Which decision would break the block?").
						Placeholder("Name it. Tomorrow starts with this.").
						Value(&decisionMade),
				),
			)
			if err := form.Run(); err != nil {
				return err
			}
		}
	}

	if _, err := s.CompleteLog(today, status, blocker, decisionMade); err != nil {
		return err
	}

	switch status {
	case store.MissionShipped:
		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ SHIPPED. That is the whole game."))
	case store.MissionBlocked:
		fmt.Fprintln(cmd.OutOrStdout(), errorStyle.Render("Blocked."))
		if blocker == store.BlockerMeDecision {
			fmt.Fprintln(cmd.OutOrStdout(), warningStyle.Render("The blocker is you. Run 'shipday decide' tomorrow morning."))
		}
	case store.MissionDeferred:
		fmt.Fprintln(cmd.OutOrStdout(), warningStyle.Render("Deferred. Fine once, a pattern twice."))
	}

	printBreakerWarning(cmd, e)
	return nil
}
