package services

import (
	"strings"

	"budgetflow/internal/core"

	"github.com/shopspring/decimal"
)

// ResolveSplit returns the concrete amount of a split: its fixed amount when
// it has one, otherwise its percentage of the parent amount. A split that
// declares neither contributes zero.
func ResolveSplit(split core.Split, parentAmount decimal.Decimal) decimal.Decimal {
	return split.Resolve(parentAmount)
}

// BuildPeriodSummary aggregates the transactions and income that fall inside
// rng. Rows outside the range are ignored, so callers may pass a superset.
func BuildPeriodSummary(rng core.DateRange, txs []core.Transaction, incomes []core.Income) core.PeriodSummary {
	summary := core.PeriodSummary{
		Range:            rng,
		Routing:          make(core.RoutingSummary),
		ByMethod:         make(map[string]decimal.Decimal),
		TaxTotal:         decimal.Zero,
		TotalIncome:      decimal.Zero,
		TotalGrossIncome: decimal.Zero,
		TotalExpense:     decimal.Zero,
	}

	for _, tx := range txs {
		if !rng.Contains(tx.Date) {
			continue
		}
		summary.TransactionCount++
		summary.TotalExpense = summary.TotalExpense.Add(tx.Amount)

		method := strings.TrimSpace(tx.Method)
		if method == "" {
			method = core.UnspecifiedMethod
		}
		summary.ByMethod[method] = summary.ByMethod[method].Add(tx.Amount)

		for _, split := range tx.Splits {
			amount := ResolveSplit(split, tx.Amount)
			summary.Routing.Add(split.Type, split.Target, amount)
			if split.Type == core.RoutingTax {
				summary.TaxTotal = summary.TaxTotal.Add(amount)
			}
		}
	}

	for _, inc := range incomes {
		if !rng.Contains(inc.Date) {
			continue
		}
		summary.IncomeCount++
		summary.TotalIncome = summary.TotalIncome.Add(inc.NetAmount)
		summary.TotalGrossIncome = summary.TotalGrossIncome.Add(inc.GrossAmount)
		summary.TaxTotal = summary.TaxTotal.Add(inc.Taxes)
	}

	summary.Net = summary.TotalIncome.Sub(summary.TotalExpense)
	return summary
}

// RoutingTotals collapses a routing summary to one total per routing type.
func RoutingTotals(rs core.RoutingSummary) map[core.RoutingType]decimal.Decimal {
	totals := make(map[core.RoutingType]decimal.Decimal, len(rs))
	for t := range rs {
		totals[t] = rs.TypeTotal(t)
	}
	return totals
}

// RoutingShares returns each routing type's percentage of everything routed,
// rounded to two decimals.
func RoutingShares(rs core.RoutingSummary) map[core.RoutingType]decimal.Decimal {
	total := rs.Total()
	shares := make(map[core.RoutingType]decimal.Decimal, len(rs))
	for t, amount := range RoutingTotals(rs) {
		shares[t] = core.Round(core.PercentOfTotal(amount, total), 2)
	}
	return shares
}
