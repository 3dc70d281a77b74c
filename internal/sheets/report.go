package sheets

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"budgetflow/internal/core"

	"github.com/shopspring/decimal"
)

// Row labels of the report layout.
const (
	labelReport       = "Report"
	labelHousehold    = "Household"
	labelRange        = "Range"
	labelTotalIncome  = "Total income"
	labelGrossIncome  = "Gross income"
	labelTotalExpense = "Total expense"
	labelTaxTotal     = "Tax total"
	labelNet          = "Net"
	labelSBNLTotal    = "SBNL total"
)

// SheetName is the tab a household's monthly report is written to.
func SheetName(householdID int64, ym core.YearMonth) string {
	return fmt.Sprintf("%s Report (household %d)", ym, householdID)
}

// BuildReportRows lays a month's summary and SBNL report out as rows. Amounts
// are fixed two-decimal strings so the sheet stores exactly what the engine
// computed.
func BuildReportRows(householdID int64, ym core.YearMonth, summary core.PeriodSummary, sbnl core.SBNLReport) [][]string {
	rows := [][]string{
		{labelReport, ym.String()},
		{labelHousehold, strconv.FormatInt(householdID, 10)},
		{labelRange, summary.Range.String()},
		{},
		{labelTotalIncome, money(summary.TotalIncome)},
		{labelGrossIncome, money(summary.TotalGrossIncome)},
		{labelTotalExpense, money(summary.TotalExpense)},
		{labelTaxTotal, money(summary.TaxTotal)},
		{labelNet, money(summary.Net)},
		{},
		{"Routing", "Target", "Amount"},
	}

	for _, rt := range summary.Routing.Types() {
		targets := summary.Routing[rt]
		names := make([]string, 0, len(targets))
		for name := range targets {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			rows = append(rows, []string{string(rt), name, money(targets[name])})
		}
	}

	rows = append(rows, []string{}, []string{"Method", "Amount"})
	methods := make([]string, 0, len(summary.ByMethod))
	for m := range summary.ByMethod {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	for _, m := range methods {
		rows = append(rows, []string{m, money(summary.ByMethod[m])})
	}

	rows = append(rows, []string{},
		[]string{"Account", "Tracked", "Estimated payment", "Spent but not listed", "Percent", "Payment source"})
	for _, a := range sbnl.Accounts {
		rows = append(rows, []string{
			a.AccountName,
			money(a.TrackedExpenses),
			money(a.EstimatedPayment),
			money(a.SpentButNotListed),
			a.Percentage.String(),
			string(a.PaymentSource),
		})
	}
	rows = append(rows, []string{
		labelSBNLTotal,
		money(sbnl.TotalTracked),
		money(sbnl.TotalEstimated),
		money(sbnl.TotalSBNL),
		sbnl.Percentage.String(),
		"",
	})
	return rows
}

// ReportTotals are the headline numbers of an exported report.
type ReportTotals struct {
	Period       core.YearMonth
	HouseholdID  int64
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	TaxTotal     decimal.Decimal
	Net          decimal.Decimal
	TotalSBNL    decimal.Decimal
}

// ParseReportTotals reads the headline numbers back out of report rows.
func ParseReportTotals(rows [][]string) (ReportTotals, error) {
	var totals ReportTotals
	found := false
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		label, value := strings.TrimSpace(row[0]), strings.TrimSpace(row[1])
		switch label {
		case labelReport:
			ym, ok := core.ParseMonthYearKey(value)
			if !ok {
				return ReportTotals{}, fmt.Errorf("invalid report period %q", value)
			}
			totals.Period = ym
			found = true
		case labelHousehold:
			id, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return ReportTotals{}, fmt.Errorf("invalid household %q", value)
			}
			totals.HouseholdID = id
		case labelTotalIncome:
			totals.TotalIncome = core.ParseAmount(value)
		case labelTotalExpense:
			totals.TotalExpense = core.ParseAmount(value)
		case labelTaxTotal:
			totals.TaxTotal = core.ParseAmount(value)
		case labelNet:
			totals.Net = core.ParseAmount(value)
		case labelSBNLTotal:
			if len(row) >= 4 {
				totals.TotalSBNL = core.ParseAmount(row[3])
			}
		}
	}
	if !found {
		return ReportTotals{}, errors.New("missing report header row")
	}
	return totals, nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
