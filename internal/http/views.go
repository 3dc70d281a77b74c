package http

import (
	"sort"

	"budgetflow/internal/core"
	"budgetflow/internal/services"

	"github.com/shopspring/decimal"
)

// JSON views of engine results. Money is always a string with two decimals.
type (
	summaryView struct {
		Start            string                       `json:"start"`
		End              string                       `json:"end"`
		Routing          map[string]map[string]string `json:"routing"`
		RoutingTotals    map[string]string            `json:"routing_totals"`
		ByMethod         map[string]string            `json:"by_method"`
		TotalIncome      string                       `json:"total_income"`
		TotalGrossIncome string                       `json:"total_gross_income"`
		TotalExpense     string                       `json:"total_expense"`
		TaxTotal         string                       `json:"tax_total"`
		Net              string                       `json:"net"`
		TransactionCount int                          `json:"transaction_count"`
		IncomeCount      int                          `json:"income_count"`
	}

	forecastView struct {
		Month             string  `json:"month"`
		Tolerance         float64 `json:"tolerance"`
		Expected          string  `json:"expected"`
		Actual            string  `json:"actual"`
		Difference        string  `json:"difference"`
		PercentDifference string  `json:"percent_difference"`
		Status            string  `json:"status"`
	}

	sbnlAccountView struct {
		AccountID         int64  `json:"account_id"`
		AccountName       string `json:"account_name"`
		TrackedExpenses   string `json:"tracked_expenses"`
		EstimatedPayment  string `json:"estimated_payment"`
		SpentButNotListed string `json:"spent_but_not_listed"`
		Percentage        string `json:"percentage"`
		PaymentSource     string `json:"payment_source"`
	}

	sbnlView struct {
		Month          string            `json:"month"`
		Accounts       []sbnlAccountView `json:"accounts"`
		TotalTracked   string            `json:"total_tracked"`
		TotalEstimated string            `json:"total_estimated"`
		TotalSBNL      string            `json:"total_sbnl"`
		Percentage     string            `json:"percentage"`
	}

	upcomingView struct {
		RecurringID int64    `json:"recurring_id"`
		Description string   `json:"description"`
		Amount      string   `json:"amount"`
		Frequency   string   `json:"frequency"`
		DueDates    []string `json:"due_dates"`
	}

	createdView struct {
		ID int64 `json:"id"`
	}
)

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func newSummaryView(s core.PeriodSummary) summaryView {
	v := summaryView{
		Start:            s.Range.Start.String(),
		End:              s.Range.End.String(),
		Routing:          make(map[string]map[string]string, len(s.Routing)),
		RoutingTotals:    make(map[string]string, len(s.Routing)),
		ByMethod:         make(map[string]string, len(s.ByMethod)),
		TotalIncome:      money(s.TotalIncome),
		TotalGrossIncome: money(s.TotalGrossIncome),
		TotalExpense:     money(s.TotalExpense),
		TaxTotal:         money(s.TaxTotal),
		Net:              money(s.Net),
		TransactionCount: s.TransactionCount,
		IncomeCount:      s.IncomeCount,
	}
	for rt, targets := range s.Routing {
		row := make(map[string]string, len(targets))
		for target, amount := range targets {
			row[target] = money(amount)
		}
		v.Routing[string(rt)] = row
		v.RoutingTotals[string(rt)] = money(s.Routing.TypeTotal(rt))
	}
	for method, amount := range s.ByMethod {
		v.ByMethod[method] = money(amount)
	}
	return v
}

func newForecastView(ym core.YearMonth, tolerance float64, f core.ForecastResult) forecastView {
	return forecastView{
		Month:             ym.String(),
		Tolerance:         tolerance,
		Expected:          money(f.Expected),
		Actual:            money(f.Actual),
		Difference:        money(f.Difference),
		PercentDifference: f.PercentDifference.StringFixed(1),
		Status:            string(f.Status),
	}
}

func newSBNLView(r core.SBNLReport) sbnlView {
	v := sbnlView{
		Month:          r.Period.String(),
		Accounts:       make([]sbnlAccountView, 0, len(r.Accounts)),
		TotalTracked:   money(r.TotalTracked),
		TotalEstimated: money(r.TotalEstimated),
		TotalSBNL:      money(r.TotalSBNL),
		Percentage:     r.Percentage.StringFixed(0),
	}
	for _, a := range r.Accounts {
		v.Accounts = append(v.Accounts, sbnlAccountView{
			AccountID:         a.AccountID,
			AccountName:       a.AccountName,
			TrackedExpenses:   money(a.TrackedExpenses),
			EstimatedPayment:  money(a.EstimatedPayment),
			SpentButNotListed: money(a.SpentButNotListed),
			Percentage:        a.Percentage.StringFixed(0),
			PaymentSource:     string(a.PaymentSource),
		})
	}
	return v
}

// newUpcomingViews orders payments by their next due date.
func newUpcomingViews(payments []services.UpcomingPayment) []upcomingView {
	out := make([]upcomingView, 0, len(payments))
	for _, p := range payments {
		dates := make([]string, len(p.DueDates))
		for i, d := range p.DueDates {
			dates[i] = d.String()
		}
		out = append(out, upcomingView{
			RecurringID: p.Expense.ID,
			Description: p.Expense.Description,
			Amount:      money(p.Expense.Amount),
			Frequency:   string(p.Expense.Frequency),
			DueDates:    dates,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i].DueDates) == 0 || len(out[j].DueDates) == 0 {
			return len(out[i].DueDates) > len(out[j].DueDates)
		}
		return out[i].DueDates[0] < out[j].DueDates[0]
	})
	return out
}
