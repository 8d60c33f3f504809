package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/shipday/shipday/internal/breaker"
	"github.com/shipday/shipday/internal/metrics"
	"github.com/shipday/shipday/internal/store"
)

// Contact details can be preset so activation does not stall on data entry.
const (
	envContactName  = "SHIPDAY_CONTACT_NAME"
	envContactPhone = "SHIPDAY_CONTACT_PHONE"
)

func newEmergencyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emergency",
		Short: "Circuit breaker: check, activate, deactivate",
		Long: `The circuit breaker is the emergency protocol for sustained
execution failure. While active, everything simplifies: one primary
project, external support engaged, no new commitments.

Trigger conditions are checked automatically after check-ins and
completions; activation is always a deliberate, confirmed act.`,
	}

	cmd.AddCommand(
		newEmergencyCheckCmd(),
		newEmergencyActivateCmd(),
		newEmergencyDeactivateCmd(),
		newEmergencyStatusCmd(),
	)
	return cmd
}

func newEmergencyCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report circuit breaker trigger conditions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(func(s *store.Store, e *metrics.Engine) error {
				eval, err := e.CheckBreaker()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !eval.ShouldTrigger {
					fmt.Fprintln(out, successStyle.Render("Clear. No trigger conditions met."))
					return nil
				}
				lines := []string{errorStyle.Render("Trigger conditions met:")}
				for _, r := range eval.Reasons {
					lines = append(lines, "  • "+r)
				}
				lines = append(lines, "", mutedStyle.Render("Run 'shipday emergency activate' to enter simplified mode."))
				fmt.Fprintln(out, alertPanelStyle.Render(strings.Join(lines, "\n")))
				return nil
			})
		},
	}
}

func newEmergencyActivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activate",
		Short: "Activate the circuit breaker (simplified mode)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(func(s *store.Store, e *metrics.Engine) error {
				return runEmergencyActivate(cmd, s, e)
			})
		},
	}
}

func runEmergencyActivate(cmd *cobra.Command, s *store.Store, e *metrics.Engine) error {
	out := cmd.OutOrStdout()

	flag, err := newFlagStore()
	if err != nil {
		return err
	}
	if flag.IsActive() {
		return fmt.Errorf("circuit breaker is already active; run 'shipday emergency status'")
	}

	eval, err := e.CheckBreaker()
	if err != nil {
		return err
	}
	if eval.ShouldTrigger {
		lines := []string{errorStyle.Render("Trigger conditions:")}
		for _, r := range eval.Reasons {
			lines = append(lines, "  • "+r)
		}
		fmt.Fprintln(out, alertPanelStyle.Render(strings.Join(lines, "\n")))
	} else {
		var anyway bool
		confirm := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("No trigger conditions are met. Activate anyway?").
					Description("Manual activation is fine when you can feel the spiral before the numbers do.").
					Affirmative("Activate").
					Negative("Cancel").
					Value(&anyway),
			),
		)
		if err := confirm.Run(); err != nil {
			return err
		}
		if !anyway {
			fmt.Fprintln(out, mutedStyle.Render("Cancelled."))
			return nil
		}
	}

	primary, err := pickPrimaryProject(s)
	if err != nil {
		return err
	}
	if primary == "" {
		fmt.Fprintln(out, mutedStyle.Render("Cancelled."))
		return nil
	}

	contact, err := resolveContact()
	if err != nil {
		return err
	}

	// The protocol requires the call to happen, not be intended.
	var called bool
	gate := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Have you told %s that the breaker is going on?", contact)).
				Description("Simplified mode with nobody watching is just hiding").
				Affirmative("Yes, they know").
				Negative("Not yet").
				Value(&called),
		),
	)
	if err := gate.Run(); err != nil {
		return err
	}
	if !called {
		fmt.Fprintln(out, errorStyle.Render("Make the call, then run this again."))
		return nil
	}

	state := breaker.State{
		PrimaryProject:  primary,
		ExternalContact: contact,
		ActivatedAt:     time.Now(),
	}
	if err := flag.Activate(state); err != nil {
		return err
	}

	rules := strings.Join([]string{
		errorStyle.Bold(true).Render("CIRCUIT BREAKER ACTIVE"),
		"",
		"Until deactivation:",
		"  • One project only: " + highlightStyle.Render(primary),
		"  • No new commitments (project add is disabled)",
		"  • Daily mission stays tiny and binary",
		"  • " + contact + " checks in on you",
	}, "\n")
	fmt.Fprintln(out, alertPanelStyle.Render(rules))
	return nil
}

// pickPrimaryProject selects the single project to keep working during
// simplified mode. Returns "" when the user backs out.
func pickPrimaryProject(s *store.Store) (string, error) {
	projects, err := s.ProjectsByStatus(store.ProjectActive)
	if err != nil {
		return "", err
	}

	var primary string
	if len(projects) == 0 {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("No active projects. Name the one thing to focus on:").
					Value(&primary).
					Validate(required("the focus")),
			),
		)
		if err := form.Run(); err != nil {
			return "", err
		}
		return strings.TrimSpace(primary), nil
	}

	opts := make([]huh.Option[string], 0, len(projects))
	for _, p := range projects {
		opts = append(opts, huh.NewOption(p.Name, p.Name))
	}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Pick the ONE project that survives").
				Description("Everything else pauses until the breaker clears").
				Options(opts...).
				Value(&primary),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return primary, nil
}

func resolveContact() (string, error) {
	name := strings.TrimSpace(os.Getenv(envContactName))
	phone := strings.TrimSpace(os.Getenv(envContactPhone))
	if name != "" {
		if phone != "" {
			return fmt.Sprintf("%s (%s)", name, phone), nil
		}
		return name, nil
	}

	var contact string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Who is your external support contact?").
				Description("A real person you will actually talk to").
				Value(&contact).
				Validate(required("the contact")),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(contact), nil
}

func newEmergencyDeactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate",
		Short: "Deactivate the circuit breaker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEmergencyDeactivate(cmd)
		},
	}
}

func runEmergencyDeactivate(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	flag, err := newFlagStore()
	if err != nil {
		return err
	}
	state, err := flag.Read()
	if err != nil {
		return err
	}
	if state == nil {
		fmt.Fprintln(out, mutedStyle.Render("Circuit breaker is not active."))
		return nil
	}

	fmt.Fprintln(out, panelStyle.Render(recoveryChecklist(*state)))

	// External validation is the gate that matters: the contact can see
	// patterns the user cannot.
	var validated bool
	gate := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Has %s validated that you're ready?", state.ExternalContact)).
				Affirmative("Yes").
				Negative("No").
				Value(&validated),
		),
	)
	if err := gate.Run(); err != nil {
		return err
	}
	if !validated {
		fmt.Fprintln(out, errorStyle.Render("Get external validation before deactivating."))
		fmt.Fprintln(out, warningStyle.Render("They can see patterns you might miss."))
		return nil
	}

	var confirmed bool
	confirm := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Deactivate the circuit breaker?").
				Affirmative("Deactivate").
				Negative("Stay simplified").
				Value(&confirmed),
		),
	)
	if err := confirm.Run(); err != nil {
		return err
	}
	if !confirmed {
		fmt.Fprintln(out, warningStyle.Render("Staying in simplified mode."))
		return nil
	}

	if err := flag.Clear(); err != nil {
		return err
	}
	days := int(time.Since(state.ActivatedAt).Hours() / 24)
	fmt.Fprintf(out, "%s %s\n",
		successStyle.Render("✓ Circuit breaker cleared."),
		mutedStyle.Render(fmt.Sprintf("Active for %d days.", days)))
	fmt.Fprintln(out, mutedStyle.Render("Back to normal operations. Keep the daily check-ins going."))
	return nil
}

// recoveryChecklist is the self-assessment shown before the deactivation
// gates. None of it is enforced; the external-validation confirm is.
func recoveryChecklist(state breaker.State) string {
	return strings.Join([]string{
		warningStyle.Bold(true).Render("Recovery check"),
		"",
		"Before deactivating, confirm:",
		"  • Have you shipped 3+ things in 2 weeks?",
		"  • Have you made 5+ decisions without paralysis?",
		fmt.Sprintf("  • Has %s validated your recovery?", state.ExternalContact),
	}, "\n")
}

func newEmergencyStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show circuit breaker state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flag, err := newFlagStore()
			if err != nil {
				return err
			}
			state, err := flag.Read()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if state == nil {
				fmt.Fprintln(out, successStyle.Render("Inactive."))
				return nil
			}
			rows := []string{
				errorStyle.Bold(true).Render("ACTIVE"),
				"Focus: " + highlightStyle.Render(state.PrimaryProject),
				"Support: " + state.ExternalContact,
				mutedStyle.Render("Since " + state.ActivatedAt.Local().Format("Jan 02, 2006 15:04")),
			}
			fmt.Fprintln(out, alertPanelStyle.Render(strings.Join(rows, "\n")))
			return nil
		},
	}
}
