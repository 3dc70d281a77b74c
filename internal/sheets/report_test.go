package sheets

import (
	"testing"

	"budgetflow/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleReport() (core.PeriodSummary, core.SBNLReport) {
	routing := make(core.RoutingSummary)
	routing.Add(core.RoutingWant, "games", dec("40"))
	routing.Add(core.RoutingNeed, "rent", dec("1200"))
	routing.Add(core.RoutingNeed, "food", dec("310.5"))
	routing.Add(core.RoutingType("charity"), "local", dec("5"))

	summary := core.PeriodSummary{
		Range:            core.MonthRange(2024, 3),
		Routing:          routing,
		ByMethod:         map[string]decimal.Decimal{"transfer": dec("1200"), "card": dec("355.5")},
		TaxTotal:         dec("800"),
		TotalIncome:      dec("3200"),
		TotalGrossIncome: dec("4000"),
		TotalExpense:     dec("1555.5"),
		Net:              dec("1644.5"),
	}
	sbnl := core.SBNLReport{
		Period: core.YearMonth{Year: 2024, Month: 3},
		Accounts: []core.SBNLResult{{
			AccountID: 2, AccountName: "Visa",
			TrackedExpenses: dec("500"), EstimatedPayment: dec("800"), SpentButNotListed: dec("300"),
			Percentage: dec("38"), PaymentSource: core.PaymentExplicit,
		}},
		TotalTracked: dec("500"), TotalEstimated: dec("800"), TotalSBNL: dec("300"), Percentage: dec("38"),
	}
	return summary, sbnl
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "2024-03 Report (household 7)", SheetName(7, core.YearMonth{Year: 2024, Month: 3}))
}

func TestBuildReportRows(t *testing.T) {
	summary, sbnl := sampleReport()
	rows := BuildReportRows(7, core.YearMonth{Year: 2024, Month: 3}, summary, sbnl)

	assert.Equal(t, []string{"Report", "2024-03"}, rows[0])
	assert.Equal(t, []string{"Range", "2024-03-01..2024-03-31"}, rows[2])
	assert.Contains(t, rows, []string{"Total expense", "1555.50"})

	routingStart := indexOfRow(rows, "Routing")
	require.GreaterOrEqual(t, routingStart, 0)
	assert.Equal(t, []string{"need", "food", "310.50"}, rows[routingStart+1])
	assert.Equal(t, []string{"need", "rent", "1200.00"}, rows[routingStart+2])
	assert.Equal(t, []string{"want", "games", "40.00"}, rows[routingStart+3])
	assert.Equal(t, []string{"charity", "local", "5.00"}, rows[routingStart+4])

	methodStart := indexOfRow(rows, "Method")
	assert.Equal(t, []string{"card", "355.50"}, rows[methodStart+1])

	last := rows[len(rows)-1]
	assert.Equal(t, []string{"SBNL total", "500.00", "800.00", "300.00", "38", ""}, last)
	assert.Equal(t, []string{"Visa", "500.00", "800.00", "300.00", "38", "explicit"}, rows[len(rows)-2])
}

func TestParseReportTotals(t *testing.T) {
	summary, sbnl := sampleReport()
	rows := BuildReportRows(7, core.YearMonth{Year: 2024, Month: 3}, summary, sbnl)

	totals, err := ParseReportTotals(rows)
	require.NoError(t, err)
	assert.Equal(t, core.YearMonth{Year: 2024, Month: 3}, totals.Period)
	assert.Equal(t, int64(7), totals.HouseholdID)
	assert.True(t, totals.TotalExpense.Equal(dec("1555.5")))
	assert.True(t, totals.TotalIncome.Equal(dec("3200")))
	assert.True(t, totals.Net.Equal(dec("1644.5")))
	assert.True(t, totals.TotalSBNL.Equal(dec("300")))

	_, err = ParseReportTotals([][]string{{"Total expense", "10"}})
	assert.Error(t, err)
	_, err = ParseReportTotals([][]string{{"Report", "2024-13"}})
	assert.Error(t, err)
}

func indexOfRow(rows [][]string, first string) int {
	for i, r := range rows {
		if len(r) > 0 && r[0] == first {
			return i
		}
	}
	return -1
}
