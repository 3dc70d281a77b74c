package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

const (
	RoutingNeed    RoutingType = "need"
	RoutingWant    RoutingType = "want"
	RoutingDebt    RoutingType = "debt"
	RoutingTax     RoutingType = "tax"
	RoutingSavings RoutingType = "savings"
	RoutingOther   RoutingType = "other"
)

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountCreditCard AccountType = "credit_card"
	AccountCash       AccountType = "cash"
	AccountInvestment AccountType = "investment"
	AccountLoan       AccountType = "loan"
	AccountOther      AccountType = "other"
)

type (
	Frequency   string
	RoutingType string
	AccountType string

	Account struct {
		ID          int64
		HouseholdID int64
		Name        string
		Type        AccountType
	}

	Transaction struct {
		ID              int64
		HouseholdID     int64
		AccountID       int64
		PayingAccountID *int64 // Account this transaction pays down, if any
		Date            Date
		Description     string
		Method          string
		Amount          decimal.Decimal
		Splits          []Split
	}

	Income struct {
		ID          int64
		HouseholdID int64
		AccountID   int64
		Date        Date
		Source      string
		GrossAmount decimal.Decimal
		NetAmount   decimal.Decimal
		Taxes       decimal.Decimal
	}

	RecurringExpense struct {
		ID          int64
		HouseholdID int64
		Description string
		Amount      decimal.Decimal
		Frequency   Frequency
		DueDay      *int // Only meaningful for monthly frequency
		NextDueDate Date
		Active      bool
	}
)

var (
	ErrInvalidDay         = errors.New("invalid day")
	ErrInvalidMonth       = errors.New("invalid month")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidDueDay      = errors.New("due day must be between 1 and 31")
	ErrInvalidFrequency   = errors.New("invalid frequency")
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrInvalidRoutingType = errors.New("invalid routing type")
	ErrInvalidPercent     = errors.New("percent must be between 0 and 100")
	ErrEmptyDescription   = errors.New("empty description")
	ErrEmptyName          = errors.New("empty name")
	ErrMissingHousehold   = errors.New("missing household")
)

// Frequencies returns every supported recurrence frequency.
func Frequencies() []Frequency {
	return []Frequency{Daily, Weekly, Monthly, Yearly}
}

func (f Frequency) IsValid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// RoutingTypes returns the closed set of routing categories in display order.
func RoutingTypes() []RoutingType {
	return []RoutingType{RoutingNeed, RoutingWant, RoutingDebt, RoutingTax, RoutingSavings, RoutingOther}
}

func (t RoutingType) IsValid() bool {
	for _, rt := range RoutingTypes() {
		if t == rt {
			return true
		}
	}
	return false
}

func (t AccountType) IsValid() bool {
	switch t {
	case AccountChecking, AccountSavings, AccountCreditCard, AccountCash,
		AccountInvestment, AccountLoan, AccountOther:
		return true
	}
	return false
}

// IsCredit reports whether the account accrues charges that are paid off later.
func (a Account) IsCredit() bool {
	return a.Type == AccountCreditCard
}

func (a Account) Validate() error {
	if a.HouseholdID <= 0 {
		return ErrMissingHousehold
	}
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if !a.Type.IsValid() {
		return ErrInvalidAccountType
	}
	return nil
}

func (t Transaction) Validate() error {
	if t.HouseholdID <= 0 {
		return ErrMissingHousehold
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	for _, s := range t.Splits {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (i Income) Validate() error {
	if i.HouseholdID <= 0 {
		return ErrMissingHousehold
	}
	if err := i.Date.Validate(); err != nil {
		return err
	}
	if i.GrossAmount.IsNegative() || i.NetAmount.IsNegative() || i.Taxes.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

func (re RecurringExpense) Validate() error {
	if re.HouseholdID <= 0 {
		return ErrMissingHousehold
	}
	if len(strings.TrimSpace(re.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(re.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if !re.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !re.Frequency.IsValid() {
		return ErrInvalidFrequency
	}
	if re.DueDay != nil {
		if *re.DueDay < 1 || *re.DueDay > 31 {
			return ErrInvalidDueDay
		}
	}
	if err := re.NextDueDate.Validate(); err != nil {
		return errors.New("invalid next due date: " + err.Error())
	}
	return nil
}
