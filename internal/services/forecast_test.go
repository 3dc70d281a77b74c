package services

import (
	"math"
	"testing"

	"budgetflow/internal/core"

	"github.com/stretchr/testify/assert"
)

func TestExpectedMonthlyTotal(t *testing.T) {
	defs := []core.RecurringExpense{
		{Amount: dec("1200"), Frequency: core.Monthly, Active: true},
		{Amount: dec("15.99"), Frequency: core.Monthly, Active: true},
		{Amount: dec("120"), Frequency: core.Yearly, Active: true},
		{Amount: dec("500"), Frequency: core.Monthly, Active: false},
	}
	decEqual(t, "1335.99", ExpectedMonthlyTotal(defs, 2024, 5))
	decEqual(t, "0", ExpectedMonthlyTotal(nil, 2024, 5))
}

func TestCompareForecast(t *testing.T) {
	tests := []struct {
		name             string
		expected, actual string
		tolerance        float64
		status           core.ForecastStatus
		difference       string
		percent          string
	}{
		{"exact - on track", "1000", "1000", 0.15, core.StatusOnTrack, "0", "0"},
		{"30% over - over", "1000", "1300", 0.15, core.StatusOver, "300", "30"},
		{"30% under - under", "1000", "700", 0.15, core.StatusUnder, "-300", "-30"},
		{"at the upper band - on track", "1000", "1150", 0.15, core.StatusOnTrack, "150", "15"},
		{"at the lower band - on track", "1000", "850", 0.15, core.StatusOnTrack, "-150", "-15"},
		{"just over the band - over", "1000", "1150.01", 0.15, core.StatusOver, "150.01", "15.001"},
		{"zero expected - percent zero", "0", "250", 0.15, core.StatusOnTrack, "250", "0"},
		{"zero tolerance - any drift flags", "1000", "1000.01", 0, core.StatusOver, "0.01", "0.001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompareForecast(dec(tt.expected), dec(tt.actual), tt.tolerance)
			assert.Equal(t, tt.status, got.Status)
			decEqual(t, tt.difference, got.Difference)
			decEqual(t, tt.percent, got.PercentDifference)
			decEqual(t, tt.expected, got.Expected)
			decEqual(t, tt.actual, got.Actual)
		})
	}
}

func TestCompareForecastNonFiniteTolerance(t *testing.T) {
	for _, tol := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -0.2} {
		t.Run("exact comparison", func(t *testing.T) {
			assert.NotPanics(t, func() {
				got := CompareForecast(dec("1000"), dec("1000"), tol)
				assert.Equal(t, core.StatusOnTrack, got.Status)
			})
			got := CompareForecast(dec("1000"), dec("1000.01"), tol)
			assert.Equal(t, core.StatusOver, got.Status)
		})
	}
}
