package core

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

const (
	StatusOnTrack ForecastStatus = "on-track"
	StatusOver    ForecastStatus = "over"
	StatusUnder   ForecastStatus = "under"
)

const (
	PaymentExplicit  PaymentSource = "explicit"
	PaymentHeuristic PaymentSource = "heuristic"
	PaymentNone      PaymentSource = "none"
)

// UnspecifiedMethod buckets transactions recorded without a payment method.
const UnspecifiedMethod = "unspecified"

type (
	ForecastStatus string
	PaymentSource  string

	// RoutingSummary maps routing type -> target -> total routed amount.
	RoutingSummary map[RoutingType]map[string]decimal.Decimal

	// PeriodSummary is the money-routing report for one reporting range.
	PeriodSummary struct {
		Range            DateRange
		Routing          RoutingSummary
		ByMethod         map[string]decimal.Decimal
		TaxTotal         decimal.Decimal
		TotalIncome      decimal.Decimal // net
		TotalGrossIncome decimal.Decimal
		TotalExpense     decimal.Decimal
		Net              decimal.Decimal // TotalIncome - TotalExpense
		TransactionCount int
		IncomeCount      int
	}

	ForecastResult struct {
		Expected          decimal.Decimal
		Actual            decimal.Decimal
		Difference        decimal.Decimal
		PercentDifference decimal.Decimal
		Status            ForecastStatus
	}

	// SBNLResult is the spent-but-not-listed estimate for one credit account.
	SBNLResult struct {
		AccountID         int64
		AccountName       string
		TrackedExpenses   decimal.Decimal
		EstimatedPayment  decimal.Decimal
		SpentButNotListed decimal.Decimal
		Percentage        decimal.Decimal
		PaymentSource     PaymentSource
	}

	// SBNLReport aggregates every credit account of a household for a month.
	SBNLReport struct {
		Period         YearMonth
		Accounts       []SBNLResult
		TotalTracked   decimal.Decimal
		TotalEstimated decimal.Decimal
		TotalSBNL      decimal.Decimal
		Percentage     decimal.Decimal
	}
)

// ValidTolerance reports whether t is a finite forecast tolerance fraction
// in [0, 1).
func ValidTolerance(t float64) bool {
	return !math.IsNaN(t) && !math.IsInf(t, 0) && t >= 0 && t < 1
}

// Add accumulates amount into the type/target bucket.
func (rs RoutingSummary) Add(t RoutingType, target string, amount decimal.Decimal) {
	targets, ok := rs[t]
	if !ok {
		targets = make(map[string]decimal.Decimal)
		rs[t] = targets
	}
	targets[target] = targets[target].Add(amount)
}

// Types lists the routing types present in rs: the known types in display
// order, then any other types alphabetically.
func (rs RoutingSummary) Types() []RoutingType {
	var out []RoutingType
	for _, rt := range RoutingTypes() {
		if _, ok := rs[rt]; ok {
			out = append(out, rt)
		}
	}
	var extra []RoutingType
	for rt := range rs {
		if !rt.IsValid() {
			extra = append(extra, rt)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(out, extra...)
}

// Total sums every bucket.
func (rs RoutingSummary) Total() decimal.Decimal {
	total := decimal.Zero
	for _, targets := range rs {
		for _, amount := range targets {
			total = total.Add(amount)
		}
	}
	return total
}

// TypeTotal sums all targets of one routing type.
func (rs RoutingSummary) TypeTotal(t RoutingType) decimal.Decimal {
	total := decimal.Zero
	for _, amount := range rs[t] {
		total = total.Add(amount)
	}
	return total
}
