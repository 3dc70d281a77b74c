package main

import (
	"errors"
	"fmt"
	"time"

	"budgetflow/internal/backend"
	"budgetflow/internal/config"
	"budgetflow/internal/core"
	"budgetflow/internal/sheets"
	"budgetflow/internal/worker"

	"github.com/spf13/cobra"
)

func (a *app) advanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "advance",
		Short: "Move past-due recurring expenses to their next due date",
		Long: `Run one schedule pass over every household, the same pass the
recurring-worker runs on its interval.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStack(cmd.Context(), func(stack *backend.Stack, _ *config.Config, _ backend.Config) error {
				n, err := stack.Schedule.AdvanceAll(cmd.Context(), time.Now())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Advanced %d recurring expenses\n", n)
				return nil
			})
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	var (
		month string
		queue bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a month's report to the configured backend",
		Long: `Write a month's summary and spent-but-not-listed report to the
export backend (EXPORT_BACKEND). With --queue the request is published to the
broker for the export-worker instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := a.household()
			if err != nil {
				return err
			}
			ym, err := parseMonth(month, time.Now())
			if err != nil {
				return err
			}
			return a.withStack(cmd.Context(), func(stack *backend.Stack, _ *config.Config, bcfg backend.Config) error {
				if queue {
					if err := stack.Ledger.RequestExport(cmd.Context(), h, ym); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Queued export of %s for household %d\n", ym, h)
					return nil
				}
				target, err := backend.NewFactory(a.logger).CreateReportBackend(cmd.Context(), bcfg)
				if err != nil {
					return err
				}
				ref, err := worker.NewExportWorker(stack.Reports, target, a.logger).ExportMonth(cmd.Context(), h, ym)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s (%s)\n", ym, bcfg.Export, ref)
				return printExported(cmd, target, h, ym)
			})
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default: current month)")
	cmd.Flags().BoolVar(&queue, "queue", false, "publish the request for the export-worker")
	return cmd
}

func (a *app) exportedCmd() *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "exported",
		Short: "Show the headline totals of an exported month report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := a.household()
			if err != nil {
				return err
			}
			ym, err := parseMonth(month, time.Now())
			if err != nil {
				return err
			}
			cfg, err := a.appConfig()
			if err != nil {
				return err
			}
			bcfg, err := backend.FromAppConfig(cfg)
			if err != nil {
				return err
			}
			source, err := backend.NewFactory(a.logger).CreateReportBackend(cmd.Context(), bcfg)
			if err != nil {
				return err
			}
			return printExported(cmd, source, h, ym)
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default: current month)")
	return cmd
}

// printExported reads a report back from the export target and prints its
// headline totals.
func printExported(cmd *cobra.Command, source sheets.ReportReader, householdID int64, ym core.YearMonth) error {
	rows, err := source.ReadMonthReport(cmd.Context(), householdID, ym)
	if errors.Is(err, sheets.ErrReportNotFound) {
		return fmt.Errorf("no exported report for %s (household %d)", ym, householdID)
	}
	if err != nil {
		return err
	}
	totals, err := sheets.ParseReportTotals(rows)
	if err != nil {
		return err
	}
	tw := newTable(cmd.OutOrStdout())
	fmt.Fprintf(tw, "Report\t%s\n", sheets.SheetName(totals.HouseholdID, totals.Period))
	fmt.Fprintf(tw, "Total income\t%s\n", money(totals.TotalIncome))
	fmt.Fprintf(tw, "Total expense\t%s\n", money(totals.TotalExpense))
	fmt.Fprintf(tw, "Taxes\t%s\n", money(totals.TaxTotal))
	fmt.Fprintf(tw, "Net\t%s\n", money(totals.Net))
	fmt.Fprintf(tw, "Unlisted\t%s\n", money(totals.TotalSBNL))
	return tw.Flush()
}
