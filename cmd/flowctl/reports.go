package main

import (
	"fmt"
	"sort"
	"time"

	"budgetflow/internal/backend"
	"budgetflow/internal/config"
	"budgetflow/internal/core"

	"github.com/spf13/cobra"
)

func (a *app) summaryCmd() *cobra.Command {
	var month, start, end string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show where the money went in a period",
		Long: `Show the routing summary of a month (--month) or an arbitrary
inclusive range (--start/--end). Defaults to the current month.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := a.household()
			if err != nil {
				return err
			}
			rng, err := parseRange(month, start, end, time.Now())
			if err != nil {
				return err
			}
			return a.withStack(cmd.Context(), func(stack *backend.Stack, _ *config.Config, _ backend.Config) error {
				s, err := stack.Reports.PeriodSummary(cmd.Context(), h, rng)
				if err != nil {
					return err
				}
				return printSummary(cmd, s)
			})
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM")
	cmd.Flags().StringVar(&start, "start", "", "range start as YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "range end as YYYY-MM-DD")
	return cmd
}

func printSummary(cmd *cobra.Command, s core.PeriodSummary) error {
	tw := newTable(cmd.OutOrStdout())
	fmt.Fprintf(tw, "Period\t%s\n", s.Range)
	fmt.Fprintf(tw, "Transactions\t%d\n", s.TransactionCount)
	fmt.Fprintf(tw, "Total expense\t%s\n", money(s.TotalExpense))
	fmt.Fprintf(tw, "Gross income\t%s\n", money(s.TotalGrossIncome))
	fmt.Fprintf(tw, "Net income\t%s\n", money(s.TotalIncome))
	fmt.Fprintf(tw, "Taxes\t%s\n", money(s.TaxTotal))
	fmt.Fprintf(tw, "Net\t%s\n", money(s.Net))
	if len(s.Routing) > 0 {
		fmt.Fprintln(tw, "\nROUTING\tTARGET\tAMOUNT")
		for _, rt := range s.Routing.Types() {
			targets := s.Routing[rt]
			names := make([]string, 0, len(targets))
			for name := range targets {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", rt, name, money(targets[name]))
			}
		}
	}
	return tw.Flush()
}

func (a *app) forecastCmd() *cobra.Command {
	var (
		month     string
		tolerance float64
	)
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Compare a month's spending with its recurring forecast",
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
			return a.withStack(cmd.Context(), func(stack *backend.Stack, cfg *config.Config, _ backend.Config) error {
				tol := cfg.ForecastTolerance
				if cmd.Flags().Changed("tolerance") {
					if !core.ValidTolerance(tolerance) {
						return fmt.Errorf("invalid tolerance %v: want a fraction in [0, 1)", tolerance)
					}
					tol = tolerance
				}
				res, err := stack.Reports.Forecast(cmd.Context(), h, ym, tol)
				if err != nil {
					return err
				}
				tw := newTable(cmd.OutOrStdout())
				fmt.Fprintf(tw, "Month\t%s\n", ym)
				fmt.Fprintf(tw, "Expected\t%s\n", money(res.Expected))
				fmt.Fprintf(tw, "Actual\t%s\n", money(res.Actual))
				fmt.Fprintf(tw, "Difference\t%s (%s)\n", money(res.Difference), percent(res.PercentDifference))
				fmt.Fprintf(tw, "Status\t%s\n", res.Status)
				return tw.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default: current month)")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 0, "on-track band as a fraction, e.g. 0.15")
	return cmd
}

func (a *app) sbnlCmd() *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "sbnl",
		Short: "Estimate credit card spending that was never itemised",
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
			return a.withStack(cmd.Context(), func(stack *backend.Stack, _ *config.Config, _ backend.Config) error {
				report, err := stack.Reports.SpentButNotListed(cmd.Context(), h, ym)
				if err != nil {
					return err
				}
				if len(report.Accounts) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No credit accounts for household %d\n", h)
					return nil
				}
				tw := newTable(cmd.OutOrStdout())
				fmt.Fprintln(tw, "ACCOUNT\tTRACKED\tPAYMENT\tUNLISTED\tSHARE\tSOURCE")
				for _, r := range report.Accounts {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
						r.AccountName, money(r.TrackedExpenses), money(r.EstimatedPayment),
						money(r.SpentButNotListed), percent(r.Percentage), r.PaymentSource)
				}
				fmt.Fprintf(tw, "TOTAL\t%s\t%s\t%s\t%s\t\n",
					money(report.TotalTracked), money(report.TotalEstimated),
					money(report.TotalSBNL), percent(report.Percentage))
				return tw.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default: current month)")
	return cmd
}

func (a *app) upcomingCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List the next due dates of active recurring expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := a.household()
			if err != nil {
				return err
			}
			if count < 1 {
				return fmt.Errorf("count must be at least 1")
			}
			return a.withStack(cmd.Context(), func(stack *backend.Stack, _ *config.Config, _ backend.Config) error {
				payments, err := stack.Reports.Upcoming(cmd.Context(), h, count)
				if err != nil {
					return err
				}
				tw := newTable(cmd.OutOrStdout())
				fmt.Fprintln(tw, "DESCRIPTION\tAMOUNT\tFREQUENCY\tDUE")
				for _, p := range payments {
					for _, due := range p.DueDates {
						fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
							p.Expense.Description, money(p.Expense.Amount), p.Expense.Frequency, due)
					}
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&count, "count", 3, "due dates per recurring expense")
	return cmd
}
