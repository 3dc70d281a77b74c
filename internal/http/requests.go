package http

import (
	"fmt"
	"strings"

	"budgetflow/internal/core"
	"budgetflow/internal/services"

	"github.com/shopspring/decimal"
)

// Request bodies accepted by the ingestion endpoints. Amounts travel as
// decimal strings so cents survive JSON untouched.
type (
	splitRequest struct {
		Type    string  `json:"type"`
		Target  string  `json:"target"`
		Amount  *string `json:"amount,omitempty"`
		Percent *string `json:"percent,omitempty"`
	}

	transactionRequest struct {
		AccountID       int64          `json:"account_id"`
		PayingAccountID *int64         `json:"paying_account_id,omitempty"`
		Date            string         `json:"date"`
		Description     string         `json:"description"`
		Method          string         `json:"method"`
		Amount          string         `json:"amount"`
		Splits          []splitRequest `json:"splits"`
	}

	incomeRequest struct {
		AccountID int64  `json:"account_id"`
		Date      string `json:"date"`
		Source    string `json:"source"`
		Gross     string `json:"gross"`
		Net       string `json:"net"`
		Taxes     string `json:"taxes"`
	}

	recurringRequest struct {
		Description string `json:"description"`
		Amount      string `json:"amount"`
		Frequency   string `json:"frequency"`
		DueDay      *int   `json:"due_day,omitempty"`
		NextDueDate string `json:"next_due_date,omitempty"`
	}

	exportRequest struct {
		Month string `json:"month"`
	}
)

func (req transactionRequest) toTransaction(householdID int64) (core.Transaction, error) {
	date, ok := core.ParseLocalDate(strings.TrimSpace(req.Date))
	if !ok {
		return core.Transaction{}, fmt.Errorf("invalid date %q", req.Date)
	}
	amount, err := parseMoney("amount", req.Amount, true)
	if err != nil {
		return core.Transaction{}, err
	}
	t := core.Transaction{
		HouseholdID:     householdID,
		AccountID:       req.AccountID,
		PayingAccountID: req.PayingAccountID,
		Date:            date,
		Description:     sanitizeInput(req.Description),
		Method:          sanitizeInput(req.Method),
		Amount:          amount,
	}
	for i, s := range req.Splits {
		split, err := s.toSplit()
		if err != nil {
			return core.Transaction{}, fmt.Errorf("split %d: %w", i, err)
		}
		t.Splits = append(t.Splits, split)
	}
	return t, t.Validate()
}

func (req splitRequest) toSplit() (core.Split, error) {
	var amount, percent *decimal.Decimal
	if req.Amount != nil {
		d, err := parseMoney("amount", *req.Amount, false)
		if err != nil {
			return core.Split{}, err
		}
		amount = &d
	}
	if req.Percent != nil {
		d, err := parseDecimal("percent", *req.Percent)
		if err != nil {
			return core.Split{}, err
		}
		percent = &d
	}
	return core.Split{
		Type:   core.RoutingType(strings.ToLower(strings.TrimSpace(req.Type))),
		Target: sanitizeInput(req.Target),
		Share:  core.NewSplitShare(amount, percent),
	}, nil
}

func (req incomeRequest) toIncome(householdID int64) (core.Income, error) {
	date, ok := core.ParseLocalDate(strings.TrimSpace(req.Date))
	if !ok {
		return core.Income{}, fmt.Errorf("invalid date %q", req.Date)
	}
	gross, err := parseMoney("gross", req.Gross, false)
	if err != nil {
		return core.Income{}, err
	}
	net, err := parseMoney("net", req.Net, false)
	if err != nil {
		return core.Income{}, err
	}
	taxes := decimal.Zero
	if v := strings.TrimSpace(req.Taxes); v != "" && !isZeroAmount(v) {
		if taxes, err = parseMoney("taxes", v, false); err != nil {
			return core.Income{}, err
		}
	}
	inc := core.Income{
		HouseholdID: householdID,
		AccountID:   req.AccountID,
		Date:        date,
		Source:      sanitizeInput(req.Source),
		GrossAmount: gross,
		NetAmount:   net,
		Taxes:       taxes,
	}
	return inc, inc.Validate()
}

// toRecurringExpense builds a definition. Without next_due_date the first due
// date is projected from today.
func (req recurringRequest) toRecurringExpense(householdID int64, today core.Date) (core.RecurringExpense, error) {
	amount, err := parseMoney("amount", req.Amount, false)
	if err != nil {
		return core.RecurringExpense{}, err
	}
	re := core.RecurringExpense{
		HouseholdID: householdID,
		Description: sanitizeInput(req.Description),
		Amount:      amount,
		Frequency:   core.Frequency(strings.ToLower(strings.TrimSpace(req.Frequency))),
		DueDay:      req.DueDay,
		Active:      true,
	}
	if v := strings.TrimSpace(req.NextDueDate); v != "" {
		d, ok := core.ParseLocalDate(v)
		if !ok {
			return core.RecurringExpense{}, fmt.Errorf("invalid next_due_date %q", req.NextDueDate)
		}
		re.NextDueDate = d
	} else if re.Frequency.IsValid() {
		re.NextDueDate = services.NextDueDate(today, re.Frequency, re.DueDay)
	}
	return re, re.Validate()
}

// parseMoney reads a money amount through core.ParseDecimalToCents: digits
// with a dot or comma separator, rounded half-up to cents. signed allows a
// leading minus for refunds and corrections. Zero is rejected.
func parseMoney(field, s string, signed bool) (decimal.Decimal, error) {
	v := strings.TrimSpace(s)
	negative := false
	if signed && strings.HasPrefix(v, "-") {
		negative, v = true, v[1:]
	}
	cents, err := core.ParseDecimalToCents(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	if negative {
		cents = -cents
	}
	return core.FromCents(cents), nil
}

// isZeroAmount reports whether s spells zero, e.g. "0" or "0,00".
func isZeroAmount(s string) bool {
	return strings.Trim(s, "0.,") == ""
}

// parseDecimal parses an exact decimal value such as a split percentage.
// Unlike core.ParseAmount it rejects text it cannot read.
func parseDecimal(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q", field, s)
	}
	return d, nil
}
