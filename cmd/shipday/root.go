package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shipday/shipday/internal/breaker"
	"github.com/shipday/shipday/internal/metrics"
	"github.com/shipday/shipday/internal/store"
)

// newRootCmd creates the root command for the shipday CLI.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shipday",
		Short: "Daily mission journal that fights decision paralysis",
		Long: `Shipday is a personal execution journal built around one rule:
ship one thing every day.

Each morning you check in with a single mission and a definition of done.
Each evening you record whether it shipped. The journal tracks paralysis
signals, enforces a hard cap of three active projects, and trips a
circuit breaker when execution degrades for too long.`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(
		newCheckinCmd(),
		newCompleteCmd(),
		newDecideCmd(),
		newShowCmd(),
		newStatusCmd(),
		newProjectCmd(),
		newEmergencyCmd(),
		newExportCmd(),
		newDashboardCmd(),
	)

	return cmd
}

// openStore opens the journal database at its configured path.
// Callers own the returned store and must Close it.
func openStore() (*store.Store, error) {
	path, err := store.DefaultDBPath()
	if err != nil {
		return nil, err
	}
	s, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return s, nil
}

func newFlagStore() (*breaker.FlagStore, error) {
	path, err := breaker.DefaultPath()
	if err != nil {
		return nil, err
	}
	return breaker.New(path), nil
}

// withEngine opens the store, builds a metrics engine over it, runs fn,
// and closes the store afterwards. Most commands only need this.
func withEngine(fn func(*store.Store, *metrics.Engine) error) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s, metrics.New(s))
}
