package main

import (
	"fmt"
	"strings"

	"budgetflow/internal/backend"
	"budgetflow/internal/config"
	"budgetflow/internal/core"

	"github.com/spf13/cobra"
)

func (a *app) householdCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "household",
		Short: "Manage households",
	}
	cmd.AddCommand(a.householdAddCmd())
	cmd.AddCommand(a.householdListCmd())
	return cmd
}

func (a *app) householdAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Create a household",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return fmt.Errorf("household name cannot be empty")
			}
			return a.withStack(cmd.Context(), func(stack *backend.Stack, _ *config.Config, _ backend.Config) error {
				id, err := stack.Repo.CreateHousehold(cmd.Context(), name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created household %d (%s)\n", id, name)
				return nil
			})
		},
	}
}

func (a *app) householdListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List household IDs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStack(cmd.Context(), func(stack *backend.Stack, _ *config.Config, _ backend.Config) error {
				ids, err := stack.Repo.ListHouseholds(cmd.Context())
				if err != nil {
					return err
				}
				if len(ids) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No households yet")
					return nil
				}
				for _, id := range ids {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			})
		},
	}
}

func (a *app) accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the accounts of a household",
	}
	cmd.AddCommand(a.accountAddCmd())
	cmd.AddCommand(a.accountListCmd())
	return cmd
}

func (a *app) accountAddCmd() *cobra.Command {
	var accountType string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.household()
			if err != nil {
				return err
			}
			acct := core.Account{
				HouseholdID: h,
				Name:        strings.TrimSpace(args[0]),
				Type:        core.AccountType(accountType),
			}
			if err := acct.Validate(); err != nil {
				return err
			}
			return a.withStack(cmd.Context(), func(stack *backend.Stack, _ *config.Config, _ backend.Config) error {
				id, err := stack.Repo.CreateAccount(cmd.Context(), acct)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created account %d (%s, %s)\n", id, acct.Name, acct.Type)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&accountType, "type", string(core.AccountChecking), "account type (checking, savings, credit_card, cash, investment, loan, other)")
	return cmd
}

func (a *app) accountListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the accounts of a household",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := a.household()
			if err != nil {
				return err
			}
			return a.withStack(cmd.Context(), func(stack *backend.Stack, _ *config.Config, _ backend.Config) error {
				accounts, err := stack.Repo.ListAccounts(cmd.Context(), h)
				if err != nil {
					return err
				}
				tw := newTable(cmd.OutOrStdout())
				fmt.Fprintln(tw, "ID\tNAME\tTYPE")
				for _, acct := range accounts {
					fmt.Fprintf(tw, "%d\t%s\t%s\n", acct.ID, acct.Name, acct.Type)
				}
				return tw.Flush()
			})
		},
	}
}
