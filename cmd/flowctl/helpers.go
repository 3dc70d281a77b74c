package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"budgetflow/internal/backend"
	"budgetflow/internal/cli"
	"budgetflow/internal/config"
	"budgetflow/internal/core"

	"github.com/shopspring/decimal"
)

var errNoHousehold = errors.New("a household is required: pass --household or set BUDGETFLOW_HOUSEHOLD")

// appConfig layers the flowctl settings over the service environment.
func (a *app) appConfig() (*config.Config, error) {
	cfg := config.Load()
	if path := a.v.GetString("database.path"); path != "" {
		cfg.SQLiteDBPath = path
	}
	if b := a.v.GetString("export.backend"); b != "" {
		cfg.ExportBackend = b
	}
	if a.v.IsSet("amqp.url") {
		cfg.AMQPURL = a.v.GetString("amqp.url")
	}
	if a.v.IsSet("forecast.tolerance") {
		cfg.ForecastTolerance = a.v.GetFloat64("forecast.tolerance")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// withStack opens the ledger for the duration of fn.
func (a *app) withStack(ctx context.Context, fn func(*backend.Stack, *config.Config, backend.Config) error) error {
	cfg, err := a.appConfig()
	if err != nil {
		return err
	}
	stack, bcfg, err := cli.OpenStack(ctx, a.logger, cfg)
	if err != nil {
		return err
	}
	defer stack.Close()
	return fn(stack, cfg, bcfg)
}

func (a *app) household() (int64, error) {
	id := a.v.GetInt64("household")
	if id <= 0 {
		return 0, errNoHousehold
	}
	return id, nil
}

// parseMonth reads a YYYY-MM flag value. Empty means the current month.
func parseMonth(s string, now time.Time) (core.YearMonth, error) {
	if s == "" {
		return core.DateOf(now).YearMonth(), nil
	}
	ym, ok := core.ParseMonthYearKey(s)
	if !ok {
		return core.YearMonth{}, fmt.Errorf("invalid month %q: expected YYYY-MM", s)
	}
	return ym, nil
}

// parseRange resolves --month or --start/--end into a reporting range.
func parseRange(month, start, end string, now time.Time) (core.DateRange, error) {
	if start == "" && end == "" {
		ym, err := parseMonth(month, now)
		if err != nil {
			return core.DateRange{}, err
		}
		return ym.Range(), nil
	}
	if month != "" {
		return core.DateRange{}, errors.New("use either --month or --start/--end")
	}
	s, ok := core.ParseLocalDate(start)
	if !ok {
		return core.DateRange{}, fmt.Errorf("invalid start date %q", start)
	}
	e, ok := core.ParseLocalDate(end)
	if !ok {
		return core.DateRange{}, fmt.Errorf("invalid end date %q", end)
	}
	rng := core.DateRange{Start: s, End: e}
	if err := rng.Validate(); err != nil {
		return core.DateRange{}, err
	}
	return rng, nil
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func money(d decimal.Decimal) string {
	return core.FormatAmount(d)
}

func percent(d decimal.Decimal) string {
	return d.StringFixed(1) + "%"
}
