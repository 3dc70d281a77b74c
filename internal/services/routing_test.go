package services

import (
	"testing"

	"budgetflow/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decEqual(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func percentSplit(rt core.RoutingType, target, percent string) core.Split {
	return core.Split{Type: rt, Target: target, Share: core.PercentOfParent{Percent: dec(percent)}}
}

func fixedSplit(rt core.RoutingType, target, amount string) core.Split {
	return core.Split{Type: rt, Target: target, Share: core.FixedAmount{Value: dec(amount)}}
}

func TestResolveSplit(t *testing.T) {
	parent := dec("80")
	decEqual(t, "20", ResolveSplit(percentSplit(core.RoutingWant, "fun", "25"), parent))
	decEqual(t, "7.5", ResolveSplit(fixedSplit(core.RoutingNeed, "food", "7.5"), parent))
	decEqual(t, "0", ResolveSplit(core.Split{Type: core.RoutingOther, Target: "x"}, parent))
}

func TestBuildPeriodSummary(t *testing.T) {
	rng := core.MonthRange(2024, 3)
	txs := []core.Transaction{
		{
			Amount: dec("100"), Date: core.NewDate(2024, 3, 1), Method: "card",
			Splits: []core.Split{
				percentSplit(core.RoutingNeed, "groceries", "60"),
				percentSplit(core.RoutingWant, "snacks", "40"),
			},
		},
		{
			Amount: dec("250.50"), Date: core.NewDate(2024, 3, 31), Method: "transfer",
			Splits: []core.Split{
				fixedSplit(core.RoutingDebt, "visa", "200"),
				fixedSplit(core.RoutingTax, "property", "50.50"),
			},
		},
		{
			Amount: dec("30"), Date: core.NewDate(2024, 3, 15), Method: "",
			Splits: []core.Split{
				percentSplit(core.RoutingNeed, "groceries", "100"),
			},
		},
		{
			// outside the range
			Amount: dec("999"), Date: core.NewDate(2024, 4, 1), Method: "card",
			Splits: []core.Split{percentSplit(core.RoutingWant, "snacks", "100")},
		},
	}
	incomes := []core.Income{
		{GrossAmount: dec("5000"), NetAmount: dec("3800"), Taxes: dec("1200"), Date: core.NewDate(2024, 3, 25)},
		{GrossAmount: dec("100"), NetAmount: dec("100"), Taxes: dec("0"), Date: core.NewDate(2024, 2, 29)},
	}

	s := BuildPeriodSummary(rng, txs, incomes)

	assert.Equal(t, 3, s.TransactionCount)
	assert.Equal(t, 1, s.IncomeCount)
	decEqual(t, "90", s.Routing[core.RoutingNeed]["groceries"])
	decEqual(t, "40", s.Routing[core.RoutingWant]["snacks"])
	decEqual(t, "200", s.Routing[core.RoutingDebt]["visa"])
	decEqual(t, "50.50", s.Routing[core.RoutingTax]["property"])
	decEqual(t, "1250.50", s.TaxTotal)
	decEqual(t, "100", s.ByMethod["card"])
	decEqual(t, "250.50", s.ByMethod["transfer"])
	decEqual(t, "30", s.ByMethod[core.UnspecifiedMethod])
	decEqual(t, "380.50", s.TotalExpense)
	decEqual(t, "3800", s.TotalIncome)
	decEqual(t, "5000", s.TotalGrossIncome)
	decEqual(t, "3419.50", s.Net)
}

func TestBuildPeriodSummaryRoutingConservesResolvedAmounts(t *testing.T) {
	rng := core.YearRange(2024)
	var txs []core.Transaction
	resolved := decimal.Zero
	amounts := []string{"999.99", "1000.00", "0.01", "123.45", "77.77"}
	for i, a := range amounts {
		tx := core.Transaction{
			Amount: dec(a),
			Date:   core.NewDate(2024, i+1, 10),
			Splits: []core.Split{
				percentSplit(core.RoutingNeed, "rent", "33.33"),
				percentSplit(core.RoutingSavings, "rainy day", "66.67"),
				fixedSplit(core.RoutingOther, "misc", "1.10"),
				{Type: core.RoutingWant, Target: "nothing declared"},
			},
		}
		for _, sp := range tx.Splits {
			resolved = resolved.Add(ResolveSplit(sp, tx.Amount))
		}
		txs = append(txs, tx)
	}

	s := BuildPeriodSummary(rng, txs, nil)
	assert.True(t, s.Routing.Total().Equal(resolved), "routed %s, resolved %s", s.Routing.Total(), resolved)
	decEqual(t, "0", s.Routing[core.RoutingWant]["nothing declared"])
}

func TestPercentSplitsReproduceParent(t *testing.T) {
	parents := []string{"100", "999.99", "0.03", "1234.56", "7"}
	for _, p := range parents {
		tx := core.Transaction{
			Amount: dec(p),
			Date:   core.NewDate(2024, 1, 1),
			Splits: []core.Split{
				percentSplit(core.RoutingNeed, "a", "50"),
				percentSplit(core.RoutingWant, "b", "30"),
				percentSplit(core.RoutingSavings, "c", "20"),
			},
		}
		s := BuildPeriodSummary(core.MonthRange(2024, 1), []core.Transaction{tx}, nil)
		assert.True(t, core.Round(s.Routing.Total(), 2).Equal(dec(p)), "parent %s routed %s", p, s.Routing.Total())
	}
}

func TestBuildPeriodSummaryEmpty(t *testing.T) {
	s := BuildPeriodSummary(core.MonthRange(2024, 1), nil, nil)
	require.NotNil(t, s.Routing)
	require.NotNil(t, s.ByMethod)
	decEqual(t, "0", s.TotalExpense)
	decEqual(t, "0", s.TaxTotal)
	decEqual(t, "0", s.Net)
}

func TestUnknownRoutingTypeIsJustAnotherBucket(t *testing.T) {
	tx := core.Transaction{
		Amount: dec("10"),
		Date:   core.NewDate(2024, 1, 5),
		Splits: []core.Split{fixedSplit(core.RoutingType("charity"), "local", "10")},
	}
	s := BuildPeriodSummary(core.MonthRange(2024, 1), []core.Transaction{tx}, nil)
	decEqual(t, "10", s.Routing[core.RoutingType("charity")]["local"])
}

func TestRoutingTotalsAndShares(t *testing.T) {
	rs := make(core.RoutingSummary)
	rs.Add(core.RoutingNeed, "rent", dec("600"))
	rs.Add(core.RoutingNeed, "food", dec("150"))
	rs.Add(core.RoutingWant, "games", dec("250"))

	totals := RoutingTotals(rs)
	decEqual(t, "750", totals[core.RoutingNeed])
	decEqual(t, "250", totals[core.RoutingWant])

	shares := RoutingShares(rs)
	decEqual(t, "75", shares[core.RoutingNeed])
	decEqual(t, "25", shares[core.RoutingWant])

	assert.Empty(t, RoutingShares(make(core.RoutingSummary)))
}
