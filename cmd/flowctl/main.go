// Command flowctl inspects and maintains a budgetflow ledger from the shell.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"budgetflow/internal/cli"
	"budgetflow/internal/log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries the state shared by every subcommand. Each root command gets
// its own viper instance so tests can build several side by side.
type app struct {
	v       *viper.Viper
	cfgFile string
	logger  *log.Logger
	logOut  io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), logOut: os.Stderr}

	root := &cobra.Command{
		Use:   "flowctl",
		Short: "Household budget reports from the command line",
		Long: `flowctl reads the budgetflow ledger and prints routing summaries,
forecasts, spent-but-not-listed estimates and upcoming recurring payments.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.initConfig,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./flowctl.yaml)")
	root.PersistentFlags().String("db", "", "SQLite database path (default: $SQLITE_DB_PATH)")
	root.PersistentFlags().Int64("household", 0, "household ID")
	root.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")

	_ = a.v.BindPFlag("database.path", root.PersistentFlags().Lookup("db"))
	_ = a.v.BindPFlag("household", root.PersistentFlags().Lookup("household"))
	_ = a.v.BindPFlag("logging.level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(a.householdCmd())
	root.AddCommand(a.accountCmd())
	root.AddCommand(a.summaryCmd())
	root.AddCommand(a.forecastCmd())
	root.AddCommand(a.sbnlCmd())
	root.AddCommand(a.upcomingCmd())
	root.AddCommand(a.advanceCmd())
	root.AddCommand(a.exportCmd())
	root.AddCommand(a.exportedCmd())

	return root
}

func main() {
	cli.LoadEnvFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) initConfig(_ *cobra.Command, _ []string) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigName("flowctl")
		a.v.SetConfigType("yaml")
	}

	// BUDGETFLOW_DATABASE_PATH, BUDGETFLOW_HOUSEHOLD, ...
	a.v.SetEnvPrefix("BUDGETFLOW")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	a.logger = log.New(log.Config{
		Level:     log.ParseLevel(a.v.GetString("logging.level")),
		Component: log.ComponentCLI,
		Output:    a.logOut,
	})
	return nil
}
