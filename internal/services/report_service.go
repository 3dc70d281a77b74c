package services

import (
	"context"
	"fmt"
	"strconv"

	"budgetflow/internal/cache"
	"budgetflow/internal/core"
	"budgetflow/internal/log"

	"golang.org/x/sync/errgroup"
)

// LedgerReader is the read side of the ledger store. Every call is scoped to
// one household.
type LedgerReader interface {
	ListAccounts(ctx context.Context, householdID int64) ([]core.Account, error)
	ListTransactions(ctx context.Context, householdID int64, rng core.DateRange) ([]core.Transaction, error)
	ListIncome(ctx context.Context, householdID int64, rng core.DateRange) ([]core.Income, error)
	ListRecurringExpenses(ctx context.Context, householdID int64) ([]core.RecurringExpense, error)
}

// monthlyFanOut bounds how many months MonthlySummaries loads at once.
const monthlyFanOut = 4

// ReportService loads ledger rows for a household and runs the engine over
// them. Results are cached per household, report kind and period.
type ReportService struct {
	ledger LedgerReader
	cache  cache.Cache[any]
	logger *log.Logger
}

// NewReportService wires a report service. A nil reportCache disables caching.
func NewReportService(ledger LedgerReader, reportCache cache.Cache[any], logger *log.Logger) *ReportService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ReportService{
		ledger: ledger,
		cache:  reportCache,
		logger: logger.WithComponent(log.ComponentReports),
	}
}

// PeriodSummary builds the routing summary and totals for rng.
func (s *ReportService) PeriodSummary(ctx context.Context, householdID int64, rng core.DateRange) (core.PeriodSummary, error) {
	if err := rng.Validate(); err != nil {
		return core.PeriodSummary{}, err
	}
	return cached(s, householdID, cache.KindSummary, rng.String(), func() (core.PeriodSummary, error) {
		txs, err := s.ledger.ListTransactions(ctx, householdID, rng)
		if err != nil {
			return core.PeriodSummary{}, fmt.Errorf("load transactions: %w", err)
		}
		incomes, err := s.ledger.ListIncome(ctx, householdID, rng)
		if err != nil {
			return core.PeriodSummary{}, fmt.Errorf("load income: %w", err)
		}
		summary := BuildPeriodSummary(rng, txs, incomes)
		s.logger.DebugContext(ctx, "Period summary built",
			log.NewFields().
				WithReport(householdID, cache.KindSummary, rng.String()).
				WithAmount(summary.TotalExpense).
				ToSlice()...)
		return summary, nil
	})
}

// MonthlySummaries returns one summary per month from..to inclusive, oldest
// first. Months are loaded concurrently.
func (s *ReportService) MonthlySummaries(ctx context.Context, householdID int64, from, to core.YearMonth) ([]core.PeriodSummary, error) {
	months := core.MonthsInRange(from.Year, from.Month, to.Year, to.Month)
	out := make([]core.PeriodSummary, len(months))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(monthlyFanOut)
	for i, ym := range months {
		g.Go(func() error {
			summary, err := s.PeriodSummary(gctx, householdID, ym.Range())
			if err != nil {
				return fmt.Errorf("summarize %s: %w", ym, err)
			}
			out[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Forecast compares the static monthly budget with what was spent in ym.
func (s *ReportService) Forecast(ctx context.Context, householdID int64, ym core.YearMonth, tolerance float64) (core.ForecastResult, error) {
	period := fmt.Sprintf("%s@%g", ym, tolerance)
	return cached(s, householdID, cache.KindForecast, period, func() (core.ForecastResult, error) {
		defs, err := s.ledger.ListRecurringExpenses(ctx, householdID)
		if err != nil {
			return core.ForecastResult{}, fmt.Errorf("load recurring expenses: %w", err)
		}
		summary, err := s.PeriodSummary(ctx, householdID, ym.Range())
		if err != nil {
			return core.ForecastResult{}, err
		}
		expected := ExpectedMonthlyTotal(defs, ym.Year, ym.Month)
		result := CompareForecast(expected, summary.TotalExpense, tolerance)
		s.logger.InfoContext(ctx, "Forecast compared",
			log.FieldHouseholdID, householdID,
			log.FieldPeriod, ym.String(),
			"status", result.Status,
			"expected", expected.StringFixed(2),
			"actual", summary.TotalExpense.StringFixed(2))
		return result, nil
	})
}

// SpentButNotListed reconciles the credit accounts of a household for ym.
// Transactions of ym and the following month are loaded so payments can be
// matched.
func (s *ReportService) SpentButNotListed(ctx context.Context, householdID int64, ym core.YearMonth) (core.SBNLReport, error) {
	return cached(s, householdID, cache.KindSBNL, ym.String(), func() (core.SBNLReport, error) {
		accounts, err := s.ledger.ListAccounts(ctx, householdID)
		if err != nil {
			return core.SBNLReport{}, fmt.Errorf("load accounts: %w", err)
		}
		rng := core.DateRange{Start: ym.Range().Start, End: ym.Next().Range().End}
		txs, err := s.ledger.ListTransactions(ctx, householdID, rng)
		if err != nil {
			return core.SBNLReport{}, fmt.Errorf("load transactions: %w", err)
		}
		return ComputeSBNL(accounts, txs, ym.Year, ym.Month), nil
	})
}

// Upcoming lists the next count due dates of every active definition. The
// projection starts at each stored due date, so it only changes with the
// ledger and is cached like the other reports.
func (s *ReportService) Upcoming(ctx context.Context, householdID int64, count int) ([]UpcomingPayment, error) {
	return cached(s, householdID, cache.KindUpcoming, "next-"+strconv.Itoa(count), func() ([]UpcomingPayment, error) {
		defs, err := s.ledger.ListRecurringExpenses(ctx, householdID)
		if err != nil {
			return nil, fmt.Errorf("load recurring expenses: %w", err)
		}
		var out []UpcomingPayment
		for _, re := range defs {
			if !re.Active {
				continue
			}
			out = append(out, UpcomingPayment{Expense: re, DueDates: UpcomingDueDates(re, count)})
		}
		return out, nil
	})
}

// UpcomingPayment pairs a recurring definition with its projected due dates.
type UpcomingPayment struct {
	Expense  core.RecurringExpense
	DueDates []core.Date
}

// Invalidate drops every cached report of a household. Call it after the
// household's ledger changes.
func (s *ReportService) Invalidate(householdID int64) {
	if s.cache == nil {
		return
	}
	if n := s.cache.DeletePrefix(cache.HouseholdPrefix(householdID)); n > 0 {
		s.logger.Debug("Report cache invalidated", log.FieldHouseholdID, householdID, "entries", n)
	}
}

func cached[T any](s *ReportService, householdID int64, kind, period string, build func() (T, error)) (T, error) {
	if s.cache == nil {
		return build()
	}
	key := cache.ReportKey(householdID, kind, period)
	if v, ok := s.cache.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	v, err := build()
	if err != nil {
		return v, err
	}
	s.cache.Set(key, v)
	return v, nil
}
