package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shipday/shipday/internal/export"
	"github.com/shipday/shipday/internal/metrics"
	"github.com/shipday/shipday/internal/store"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export journal data to CSV or JSON",
	}

	cmd.AddCommand(newExportLogsCmd(), newExportDecisionsCmd())
	return cmd
}

func exportFlags(cmd *cobra.Command, format, out *string, days *int, defaultOut string) {
	cmd.Flags().StringVar(format, "format", "csv", "output format: csv or json")
	cmd.Flags().StringVarP(out, "out", "o", defaultOut, "output file path")
	cmd.Flags().IntVar(days, "days", 0, "limit to the last N days (0 = everything)")
}

// exportRange converts the --days flag into an inclusive date range.
func exportRange(days int) (from, to time.Time) {
	to = time.Now()
	if days <= 0 {
		from = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
		return from, to
	}
	return to.AddDate(0, 0, -days), to
}

func newExportLogsCmd() *cobra.Command {
	var (
		format string
		out    string
		days   int
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Export daily check-ins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(func(s *store.Store, _ *metrics.Engine) error {
				from, to := exportRange(days)
				logs, err := s.LogsByRange(from, to)
				if err != nil {
					return err
				}
				switch format {
				case "csv":
					err = export.LogsToCSV(logs, out)
				case "json":
					err = export.LogsToJSON(logs, out)
				default:
					return fmt.Errorf("invalid format %q (csv or json)", format)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d check-ins → %s\n",
					successStyle.Render("✓ Exported"), len(logs), out)
				return nil
			})
		},
	}

	exportFlags(cmd, &format, &out, &days, "shipday_logs.csv")
	return cmd
}

func newExportDecisionsCmd() *cobra.Command {
	var (
		format string
		out    string
		days   int
	)

	cmd := &cobra.Command{
		Use:   "decisions",
		Short: "Export logged decisions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(func(s *store.Store, _ *metrics.Engine) error {
				from, to := exportRange(days)
				decisions, err := s.DecisionsByRange(from, to)
				if err != nil {
					return err
				}
				switch format {
				case "csv":
					err = export.DecisionsToCSV(decisions, out)
				case "json":
					err = export.DecisionsToJSON(decisions, out)
				default:
					return fmt.Errorf("invalid format %q (csv or json)", format)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d decisions → %s\n",
					successStyle.Render("✓ Exported"), len(decisions), out)
				return nil
			})
		},
	}

	exportFlags(cmd, &format, &out, &days, "shipday_decisions.csv")
	return cmd
}
