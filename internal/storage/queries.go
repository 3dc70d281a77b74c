package storage

import (
	"context"
	"database/sql"
)

const createHousehold = `-- name: CreateHousehold :one
INSERT INTO households (name) VALUES (?)
RETURNING id, name
`

func (q *Queries) CreateHousehold(ctx context.Context, name string) (Household, error) {
	row := q.db.QueryRowContext(ctx, createHousehold, name)
	var i Household
	err := row.Scan(&i.ID, &i.Name)
	return i, err
}

const listHouseholds = `-- name: ListHouseholds :many
SELECT id, name FROM households ORDER BY id
`

func (q *Queries) ListHouseholds(ctx context.Context) ([]Household, error) {
	rows, err := q.db.QueryContext(ctx, listHouseholds)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Household
	for rows.Next() {
		var i Household
		if err := rows.Scan(&i.ID, &i.Name); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createAccount = `-- name: CreateAccount :one
INSERT INTO accounts (household_id, name, type) VALUES (?, ?, ?)
RETURNING id, household_id, name, type
`

type CreateAccountParams struct {
	HouseholdID int64
	Name        string
	Type        string
}

func (q *Queries) CreateAccount(ctx context.Context, arg CreateAccountParams) (Account, error) {
	row := q.db.QueryRowContext(ctx, createAccount, arg.HouseholdID, arg.Name, arg.Type)
	var i Account
	err := row.Scan(&i.ID, &i.HouseholdID, &i.Name, &i.Type)
	return i, err
}

const listAccounts = `-- name: ListAccounts :many
SELECT id, household_id, name, type FROM accounts
WHERE household_id = ?
ORDER BY id
`

func (q *Queries) ListAccounts(ctx context.Context, householdID int64) ([]Account, error) {
	rows, err := q.db.QueryContext(ctx, listAccounts, householdID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Account
	for rows.Next() {
		var i Account
		if err := rows.Scan(&i.ID, &i.HouseholdID, &i.Name, &i.Type); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createTransaction = `-- name: CreateTransaction :one
INSERT INTO transactions (household_id, account_id, paying_account_id, date, description, method, amount_cents)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id
`

type CreateTransactionParams struct {
	HouseholdID     int64
	AccountID       int64
	PayingAccountID sql.NullInt64
	Date            string
	Description     string
	Method          string
	AmountCents     int64
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createTransaction,
		arg.HouseholdID,
		arg.AccountID,
		arg.PayingAccountID,
		arg.Date,
		arg.Description,
		arg.Method,
		arg.AmountCents,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const createTransactionSplit = `-- name: CreateTransactionSplit :exec
INSERT INTO transaction_splits (transaction_id, routing_type, target, amount_cents, percent)
VALUES (?, ?, ?, ?, ?)
`

type CreateTransactionSplitParams struct {
	TransactionID int64
	RoutingType   string
	Target        string
	AmountCents   sql.NullInt64
	Percent       sql.NullString
}

func (q *Queries) CreateTransactionSplit(ctx context.Context, arg CreateTransactionSplitParams) error {
	_, err := q.db.ExecContext(ctx, createTransactionSplit,
		arg.TransactionID,
		arg.RoutingType,
		arg.Target,
		arg.AmountCents,
		arg.Percent,
	)
	return err
}

const listTransactionsByRange = `-- name: ListTransactionsByRange :many
SELECT id, household_id, account_id, paying_account_id, date, description, method, amount_cents
FROM transactions
WHERE household_id = ? AND date >= ? AND date <= ?
ORDER BY date, id
`

type DateRangeParams struct {
	HouseholdID int64
	StartDate   string
	EndDate     string
}

func (q *Queries) ListTransactionsByRange(ctx context.Context, arg DateRangeParams) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, listTransactionsByRange, arg.HouseholdID, arg.StartDate, arg.EndDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Transaction
	for rows.Next() {
		var i Transaction
		if err := rows.Scan(
			&i.ID,
			&i.HouseholdID,
			&i.AccountID,
			&i.PayingAccountID,
			&i.Date,
			&i.Description,
			&i.Method,
			&i.AmountCents,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listSplitsByRange = `-- name: ListSplitsByRange :many
SELECT s.id, s.transaction_id, s.routing_type, s.target, s.amount_cents, s.percent
FROM transaction_splits s
JOIN transactions t ON t.id = s.transaction_id
WHERE t.household_id = ? AND t.date >= ? AND t.date <= ?
ORDER BY s.transaction_id, s.id
`

func (q *Queries) ListSplitsByRange(ctx context.Context, arg DateRangeParams) ([]TransactionSplit, error) {
	rows, err := q.db.QueryContext(ctx, listSplitsByRange, arg.HouseholdID, arg.StartDate, arg.EndDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TransactionSplit
	for rows.Next() {
		var i TransactionSplit
		if err := rows.Scan(
			&i.ID,
			&i.TransactionID,
			&i.RoutingType,
			&i.Target,
			&i.AmountCents,
			&i.Percent,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createIncome = `-- name: CreateIncome :one
INSERT INTO income (household_id, account_id, date, source, gross_cents, net_cents, taxes_cents)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id
`

type CreateIncomeParams struct {
	HouseholdID int64
	AccountID   sql.NullInt64
	Date        string
	Source      string
	GrossCents  int64
	NetCents    int64
	TaxesCents  int64
}

func (q *Queries) CreateIncome(ctx context.Context, arg CreateIncomeParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createIncome,
		arg.HouseholdID,
		arg.AccountID,
		arg.Date,
		arg.Source,
		arg.GrossCents,
		arg.NetCents,
		arg.TaxesCents,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const listIncomeByRange = `-- name: ListIncomeByRange :many
SELECT id, household_id, account_id, date, source, gross_cents, net_cents, taxes_cents
FROM income
WHERE household_id = ? AND date >= ? AND date <= ?
ORDER BY date, id
`

func (q *Queries) ListIncomeByRange(ctx context.Context, arg DateRangeParams) ([]Income, error) {
	rows, err := q.db.QueryContext(ctx, listIncomeByRange, arg.HouseholdID, arg.StartDate, arg.EndDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Income
	for rows.Next() {
		var i Income
		if err := rows.Scan(
			&i.ID,
			&i.HouseholdID,
			&i.AccountID,
			&i.Date,
			&i.Source,
			&i.GrossCents,
			&i.NetCents,
			&i.TaxesCents,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createRecurringExpense = `-- name: CreateRecurringExpense :one
INSERT INTO recurring_expenses (household_id, description, amount_cents, frequency, due_day, next_due_date, active)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id
`

type CreateRecurringExpenseParams struct {
	HouseholdID int64
	Description string
	AmountCents int64
	Frequency   string
	DueDay      sql.NullInt64
	NextDueDate string
	Active      bool
}

func (q *Queries) CreateRecurringExpense(ctx context.Context, arg CreateRecurringExpenseParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createRecurringExpense,
		arg.HouseholdID,
		arg.Description,
		arg.AmountCents,
		arg.Frequency,
		arg.DueDay,
		arg.NextDueDate,
		arg.Active,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const recurringColumns = `id, household_id, description, amount_cents, frequency, due_day, next_due_date, active`

const getRecurringExpense = `-- name: GetRecurringExpense :one
SELECT ` + recurringColumns + ` FROM recurring_expenses
WHERE household_id = ? AND id = ?
`

type GetRecurringExpenseParams struct {
	HouseholdID int64
	ID          int64
}

func (q *Queries) GetRecurringExpense(ctx context.Context, arg GetRecurringExpenseParams) (RecurringExpense, error) {
	row := q.db.QueryRowContext(ctx, getRecurringExpense, arg.HouseholdID, arg.ID)
	return scanRecurringExpense(row)
}

const listRecurringExpenses = `-- name: ListRecurringExpenses :many
SELECT ` + recurringColumns + ` FROM recurring_expenses
WHERE household_id = ?
ORDER BY next_due_date, id
`

func (q *Queries) ListRecurringExpenses(ctx context.Context, householdID int64) ([]RecurringExpense, error) {
	rows, err := q.db.QueryContext(ctx, listRecurringExpenses, householdID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RecurringExpense
	for rows.Next() {
		i, err := scanRecurringExpense(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const updateRecurringNextDue = `-- name: UpdateRecurringNextDue :execrows
UPDATE recurring_expenses
SET next_due_date = ?, updated_at = CURRENT_TIMESTAMP
WHERE household_id = ? AND id = ?
`

type UpdateRecurringNextDueParams struct {
	NextDueDate string
	HouseholdID int64
	ID          int64
}

func (q *Queries) UpdateRecurringNextDue(ctx context.Context, arg UpdateRecurringNextDueParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateRecurringNextDue, arg.NextDueDate, arg.HouseholdID, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const setRecurringActive = `-- name: SetRecurringActive :execrows
UPDATE recurring_expenses
SET active = ?, updated_at = CURRENT_TIMESTAMP
WHERE household_id = ? AND id = ?
`

type SetRecurringActiveParams struct {
	Active      bool
	HouseholdID int64
	ID          int64
}

func (q *Queries) SetRecurringActive(ctx context.Context, arg SetRecurringActiveParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, setRecurringActive, arg.Active, arg.HouseholdID, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecurringExpense(row rowScanner) (RecurringExpense, error) {
	var i RecurringExpense
	err := row.Scan(
		&i.ID,
		&i.HouseholdID,
		&i.Description,
		&i.AmountCents,
		&i.Frequency,
		&i.DueDay,
		&i.NextDueDate,
		&i.Active,
	)
	return i, err
}
