package services

import (
	"strings"

	"budgetflow/internal/core"

	"github.com/shopspring/decimal"
)

// ComputeSBNL estimates spent-but-not-listed money for every credit account
// in a month. Charges tracked on the account during the month are compared
// with what was paid towards it during the following month.
//
// Payments are taken from transactions whose PayingAccountID points at the
// account. Only when no such link exists for the account in the payment
// month does it fall back to matching the account name inside transaction
// descriptions. That fallback is approximate: it can miss payments with
// terse bank descriptions and can pick up unrelated rows that mention the
// name.
func ComputeSBNL(accounts []core.Account, txs []core.Transaction, year, month int) core.SBNLReport {
	period := core.YearMonth{Year: year, Month: month}
	chargeRange := period.Range()
	paymentRange := period.Next().Range()

	report := core.SBNLReport{
		Period:         period,
		TotalTracked:   decimal.Zero,
		TotalEstimated: decimal.Zero,
		TotalSBNL:      decimal.Zero,
		Percentage:     decimal.Zero,
	}

	for _, acct := range accounts {
		if !acct.IsCredit() {
			continue
		}
		result := reconcileAccount(acct, txs, chargeRange, paymentRange)
		report.Accounts = append(report.Accounts, result)
		report.TotalTracked = report.TotalTracked.Add(result.TrackedExpenses)
		report.TotalEstimated = report.TotalEstimated.Add(result.EstimatedPayment)
	}

	report.TotalSBNL = report.TotalEstimated.Sub(report.TotalTracked)
	report.Percentage = sbnlPercentage(report.TotalSBNL, report.TotalEstimated)
	return report
}

func reconcileAccount(acct core.Account, txs []core.Transaction, chargeRange, paymentRange core.DateRange) core.SBNLResult {
	tracked := decimal.Zero
	explicit := decimal.Zero
	heuristic := decimal.Zero
	hasExplicit := false
	name := strings.ToLower(strings.TrimSpace(acct.Name))

	for _, tx := range txs {
		if tx.AccountID == acct.ID && chargeRange.Contains(tx.Date) {
			tracked = tracked.Add(tx.Amount)
		}
		if !paymentRange.Contains(tx.Date) {
			continue
		}
		if tx.PayingAccountID != nil {
			if *tx.PayingAccountID == acct.ID {
				explicit = explicit.Add(tx.Amount)
				hasExplicit = true
			}
			continue
		}
		if name != "" && tx.AccountID != acct.ID &&
			strings.Contains(strings.ToLower(tx.Description), name) {
			heuristic = heuristic.Add(tx.Amount)
		}
	}

	estimated := decimal.Zero
	source := core.PaymentNone
	switch {
	case hasExplicit:
		estimated, source = explicit, core.PaymentExplicit
	case !heuristic.IsZero():
		estimated, source = heuristic, core.PaymentHeuristic
	}

	sbnl := estimated.Sub(tracked)
	return core.SBNLResult{
		AccountID:         acct.ID,
		AccountName:       acct.Name,
		TrackedExpenses:   tracked,
		EstimatedPayment:  estimated,
		SpentButNotListed: sbnl,
		Percentage:        sbnlPercentage(sbnl, estimated),
		PaymentSource:     source,
	}
}

// sbnlPercentage is the untracked share of the payment as a whole percent.
func sbnlPercentage(sbnl, estimated decimal.Decimal) decimal.Decimal {
	if !estimated.IsPositive() {
		return decimal.Zero
	}
	return core.Round(core.PercentOfTotal(sbnl, estimated), 0)
}
