package storage

import "database/sql"

type Household struct {
	ID   int64
	Name string
}

type Account struct {
	ID          int64
	HouseholdID int64
	Name        string
	Type        string
}

type Transaction struct {
	ID              int64
	HouseholdID     int64
	AccountID       int64
	PayingAccountID sql.NullInt64
	Date            string
	Description     string
	Method          string
	AmountCents     int64
}

type TransactionSplit struct {
	ID            int64
	TransactionID int64
	RoutingType   string
	Target        string
	AmountCents   sql.NullInt64
	Percent       sql.NullString
}

type Income struct {
	ID          int64
	HouseholdID int64
	AccountID   sql.NullInt64
	Date        string
	Source      string
	GrossCents  int64
	NetCents    int64
	TaxesCents  int64
}

type RecurringExpense struct {
	ID          int64
	HouseholdID int64
	Description string
	AmountCents int64
	Frequency   string
	DueDay      sql.NullInt64
	NextDueDate string
	Active      bool
}
