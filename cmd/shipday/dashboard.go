package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/shipday/shipday/internal/metrics"
	"github.com/shipday/shipday/internal/store"
	"github.com/shipday/shipday/internal/tui"
)

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Full-screen dashboard (read-only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(func(s *store.Store, e *metrics.Engine) error {
				flag, err := newFlagStore()
				if err != nil {
					return err
				}
				p := tea.NewProgram(tui.New(e, flag), tea.WithAltScreen())
				_, err = p.Run()
				return err
			})
		},
	}
}
