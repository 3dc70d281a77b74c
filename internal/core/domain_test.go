package core

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestAccountValidate(t *testing.T) {
	good := Account{HouseholdID: 1, Name: "Visa", Type: AccountCreditCard}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if !good.IsCredit() {
		t.Fatalf("credit card should be a credit account")
	}

	bads := []Account{
		{HouseholdID: 0, Name: "Visa", Type: AccountCreditCard},
		{HouseholdID: 1, Name: " ", Type: AccountChecking},
		{HouseholdID: 1, Name: "Box", Type: AccountType("mattress")},
	}
	for i, a := range bads {
		if err := a.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestRecurringExpenseValidate(t *testing.T) {
	day := func(d int) *int { return &d }
	good := RecurringExpense{
		HouseholdID: 1,
		Description: "Rent",
		Amount:      decimal.NewFromInt(1200),
		Frequency:   Monthly,
		DueDay:      day(1),
		NextDueDate: NewDate(2025, 2, 1),
		Active:      true,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []RecurringExpense{
		{HouseholdID: 1, Description: "", Amount: decimal.NewFromInt(1), Frequency: Monthly, NextDueDate: NewDate(2025, 1, 1)},
		{HouseholdID: 1, Description: "a", Amount: decimal.Zero, Frequency: Monthly, NextDueDate: NewDate(2025, 1, 1)},
		{HouseholdID: 1, Description: "a", Amount: decimal.NewFromInt(1), Frequency: Frequency("biweekly"), NextDueDate: NewDate(2025, 1, 1)},
		{HouseholdID: 1, Description: "a", Amount: decimal.NewFromInt(1), Frequency: Monthly, DueDay: day(32), NextDueDate: NewDate(2025, 1, 1)},
		{HouseholdID: 1, Description: "a", Amount: decimal.NewFromInt(1), Frequency: Monthly},
	}
	for i, re := range bads {
		if err := re.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestTransactionValidateChecksSplits(t *testing.T) {
	tx := Transaction{
		HouseholdID: 1,
		Date:        NewDate(2025, 3, 4),
		Amount:      decimal.NewFromInt(10),
		Splits: []Split{
			{Type: RoutingNeed, Target: "groceries", Share: PercentOfParent{Percent: decimal.NewFromInt(120)}},
		},
	}
	if err := tx.Validate(); err == nil {
		t.Fatalf("expected error for percent above 100")
	}

	tx.Splits[0].Share = PercentOfParent{Percent: decimal.NewFromInt(100)}
	if err := tx.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	tx.Splits[0].Type = RoutingType("fun")
	if err := tx.Validate(); err == nil {
		t.Fatalf("expected error for unknown routing type")
	}
}

func TestValidTolerance(t *testing.T) {
	cases := []struct {
		tol float64
		ok  bool
	}{
		{0, true},
		{0.15, true},
		{0.999, true},
		{1, false},
		{-0.01, false},
		{math.NaN(), false},
		{math.Inf(1), false},
		{math.Inf(-1), false},
	}
	for i, tc := range cases {
		if got := ValidTolerance(tc.tol); got != tc.ok {
			t.Errorf("case %d ValidTolerance(%v) = %v, want %v", i, tc.tol, got, tc.ok)
		}
	}
}
