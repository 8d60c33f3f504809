package main

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/shipday/shipday/internal/metrics"
	"github.com/shipday/shipday/internal/store"
)

func newDecideCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decide",
		Short: "Run the 20-minute decision protocol",
		Long: `Break a stuck decision in under 20 minutes:

  1. Externalize — write the decision down and reduce it to two options.
  2. Choose — pick one, or flip a coin. A coin beats another week of
     circling.
  3. Commit — write one line of rationale, tell one person, and name
     the first action.

The decision is logged with the time it took.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(func(s *store.Store, _ *metrics.Engine) error {
				return runDecisionProtocol(cmd, s)
			})
		},
	}
}

// runDecisionProtocol walks the user through externalize/choose/commit
// and logs the resulting decision. Also reachable from the check-in's
// paralysis branch.
func runDecisionProtocol(cmd *cobra.Command, s *store.Store) error {
	out := cmd.OutOrStdout()
	start := time.Now()

	fmt.Fprintln(out, headerStyle.Render("20-minute decision protocol"))
	fmt.Fprintln(out, mutedStyle.Render("Clock started. Good decided now beats perfect decided never."))

	var (
		question string
		optionA  string
		optionB  string
		worstA   string
		worstB   string
	)
	externalize := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What is the decision?").
				Placeholder("One sentence, as a question").
				Value(&question).
				Validate(required("the decision")),
			huh.NewInput().
				Title("Option A").
				Value(&optionA).
				Validate(required("option A")),
			huh.NewInput().
				Title("Option B").
				Value(&optionB).
				Validate(required("option B")),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Worst realistic outcome of A").
				Value(&worstA),
			huh.NewInput().
				Title("Worst realistic outcome of B").
				Value(&worstB),
		),
	)
	if err := externalize.Run(); err != nil {
		return err
	}

	const flipChoice = "flip"
	var choice string
	choose := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose").
				Description("If both worst cases are survivable, either answer works").
				Options(
					huh.NewOption("A: "+optionA, "A"),
					huh.NewOption("B: "+optionB, "B"),
					huh.NewOption("Flip a coin", flipChoice),
				).
				Value(&choice),
		),
	)
	if err := choose.Run(); err != nil {
		return err
	}

	if choice == flipChoice {
		if rand.Intn(2) == 0 {
			choice = "A"
		} else {
			choice = "B"
		}
		fmt.Fprintf(out, "Coin says %s. If you feel relief, keep it; if you feel dread, pick the other one — the coin just told you the answer.\n",
			highlightStyle.Render(choice))

		var keep bool
		confirm := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Keep the coin's answer?").
					Affirmative("Keep it").
					Negative("Take the other").
					Value(&keep),
			),
		)
		if err := confirm.Run(); err != nil {
			return err
		}
		if !keep {
			if choice == "A" {
				choice = "B"
			} else {
				choice = "A"
			}
		}
	}

	chosen := optionA
	if choice == "B" {
		chosen = optionB
	}

	var (
		rationale   string
		tellWho     string
		firstAction string
	)
	commit := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("One line of rationale").
				Value(&rationale),
			huh.NewInput().
				Title("Who do you tell today?").
				Description("Saying it out loud makes it real").
				Value(&tellWho),
			huh.NewInput().
				Title("First concrete action").
				Placeholder("Something you can start in the next hour").
				Value(&firstAction),
		),
	)
	if err := commit.Run(); err != nil {
		return err
	}

	minutes := int(time.Since(start).Minutes())
	notes := buildDecisionNotes(rationale, tellWho, firstAction)

	_, err := s.CreateDecision(store.Decision{
		Date:               time.Now(),
		Decision:           fmt.Sprintf("%s → %s", strings.TrimSpace(question), strings.TrimSpace(chosen)),
		TimeToDecide:       &minutes,
		MadeUnderParalysis: true,
		Outcome:            store.OutcomeProceeded,
		Notes:              notes,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s %s\n", successStyle.Render("✓ Decided:"), highlightStyle.Render(strings.TrimSpace(chosen)))
	if minutes <= 20 {
		fmt.Fprintf(out, "%s\n", successStyle.Render(fmt.Sprintf("%d minutes. Under the clock.", minutes)))
	} else {
		fmt.Fprintf(out, "%s\n", warningStyle.Render(fmt.Sprintf("%d minutes. Over the clock, still decided.", minutes)))
	}
	if firstAction != "" {
		fmt.Fprintf(out, "Next: %s\n", firstAction)
	}
	return nil
}

func buildDecisionNotes(rationale, tellWho, firstAction string) string {
	var parts []string
	if r := strings.TrimSpace(rationale); r != "" {
		parts = append(parts, "Rationale: "+r)
	}
	if w := strings.TrimSpace(tellWho); w != "" {
		parts = append(parts, "Told: "+w)
	}
	if a := strings.TrimSpace(firstAction); a != "" {
		parts = append(parts, "First action: "+a)
	}
	return strings.Join(parts, "; ")
}

func required(what string) func(string) error {
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}
