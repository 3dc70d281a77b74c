package services

import (
	"math"

	"budgetflow/internal/core"

	"github.com/shopspring/decimal"
)

// ExpectedMonthlyTotal is the static monthly budget: the sum of every active
// recurring expense amount. Due dates and frequencies are not considered, so
// the year and month only identify the budget being projected.
func ExpectedMonthlyTotal(defs []core.RecurringExpense, year, month int) decimal.Decimal {
	total := decimal.Zero
	for _, re := range defs {
		if re.Active {
			total = total.Add(re.Amount)
		}
	}
	return total
}

// CompareForecast classifies actual spending against the expected total.
// tolerance is a fraction (0.15 means +/-15%) chosen by the caller.
func CompareForecast(expected, actual decimal.Decimal, tolerance float64) core.ForecastResult {
	difference := actual.Sub(expected)
	percent := core.PercentOfTotal(difference, expected)
	// NaN, infinities and negative bands collapse to an exact comparison
	if math.IsNaN(tolerance) || math.IsInf(tolerance, 0) || tolerance < 0 {
		tolerance = 0
	}
	band := decimal.NewFromFloat(tolerance).Mul(decimal.NewFromInt(100))

	status := core.StatusOnTrack
	switch {
	case percent.GreaterThan(band):
		status = core.StatusOver
	case percent.LessThan(band.Neg()):
		status = core.StatusUnder
	}

	return core.ForecastResult{
		Expected:          expected,
		Actual:            actual,
		Difference:        difference,
		PercentDifference: percent,
		Status:            status,
	}
}
