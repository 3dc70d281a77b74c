package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"budgetflow/internal/core"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a record does not exist for the household.
var ErrNotFound = errors.New("not found")

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows one writer; a single connection avoids SQLITE_BUSY between
	// the worker and the API.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLiteRepository{db: db, queries: New(db)}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks the database connection.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) CreateHousehold(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, core.ErrEmptyName
	}
	h, err := r.queries.CreateHousehold(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("create household: %w", err)
	}
	slog.InfoContext(ctx, "Household created", "household_id", h.ID, "name", h.Name)
	return h.ID, nil
}

// ListHouseholds returns every household ID, oldest first.
func (r *SQLiteRepository) ListHouseholds(ctx context.Context) ([]int64, error) {
	rows, err := r.queries.ListHouseholds(ctx)
	if err != nil {
		return nil, fmt.Errorf("list households: %w", err)
	}
	ids := make([]int64, len(rows))
	for i, h := range rows {
		ids[i] = h.ID
	}
	return ids, nil
}

func (r *SQLiteRepository) CreateAccount(ctx context.Context, a core.Account) (int64, error) {
	if err := a.Validate(); err != nil {
		return 0, fmt.Errorf("validate account: %w", err)
	}
	row, err := r.queries.CreateAccount(ctx, CreateAccountParams{
		HouseholdID: a.HouseholdID,
		Name:        a.Name,
		Type:        string(a.Type),
	})
	if err != nil {
		return 0, fmt.Errorf("create account: %w", err)
	}
	return row.ID, nil
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context, householdID int64) ([]core.Account, error) {
	rows, err := r.queries.ListAccounts(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	accounts := make([]core.Account, len(rows))
	for i, a := range rows {
		accounts[i] = core.Account{
			ID:          a.ID,
			HouseholdID: a.HouseholdID,
			Name:        a.Name,
			Type:        core.AccountType(a.Type),
		}
	}
	return accounts, nil
}

// AddTransaction stores a transaction and its splits atomically.
func (r *SQLiteRepository) AddTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, fmt.Errorf("validate transaction: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	id, err := q.CreateTransaction(ctx, CreateTransactionParams{
		HouseholdID:     t.HouseholdID,
		AccountID:       t.AccountID,
		PayingAccountID: nullInt64(t.PayingAccountID),
		Date:            t.Date.String(),
		Description:     t.Description,
		Method:          t.Method,
		AmountCents:     core.ToCents(t.Amount),
	})
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}

	for _, s := range t.Splits {
		params := CreateTransactionSplitParams{
			TransactionID: id,
			RoutingType:   string(s.Type),
			Target:        s.Target,
		}
		switch share := s.Share.(type) {
		case core.FixedAmount:
			params.AmountCents = sql.NullInt64{Int64: core.ToCents(share.Value), Valid: true}
		case core.PercentOfParent:
			params.Percent = sql.NullString{String: share.Percent.String(), Valid: true}
		}
		if err := q.CreateTransactionSplit(ctx, params); err != nil {
			return 0, fmt.Errorf("insert split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	slog.DebugContext(ctx, "Transaction saved",
		"household_id", t.HouseholdID,
		"id", id,
		"amount", t.Amount.StringFixed(2),
		"splits", len(t.Splits))
	return id, nil
}

// ListTransactions returns the household's transactions dated inside rng,
// splits attached.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, householdID int64, rng core.DateRange) ([]core.Transaction, error) {
	params := DateRangeParams{
		HouseholdID: householdID,
		StartDate:   rng.Start.String(),
		EndDate:     rng.End.String(),
	}
	rows, err := r.queries.ListTransactionsByRange(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	splitRows, err := r.queries.ListSplitsByRange(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list splits: %w", err)
	}

	splits := make(map[int64][]core.Split)
	for _, s := range splitRows {
		split, err := splitFromRow(s)
		if err != nil {
			return nil, fmt.Errorf("decode split %d: %w", s.ID, err)
		}
		splits[s.TransactionID] = append(splits[s.TransactionID], split)
	}

	txs := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		date, ok := core.ParseLocalDate(row.Date)
		if !ok {
			return nil, fmt.Errorf("decode transaction %d: bad date %q", row.ID, row.Date)
		}
		t := core.Transaction{
			ID:          row.ID,
			HouseholdID: row.HouseholdID,
			AccountID:   row.AccountID,
			Date:        date,
			Description: row.Description,
			Method:      row.Method,
			Amount:      core.FromCents(row.AmountCents),
			Splits:      splits[row.ID],
		}
		if row.PayingAccountID.Valid {
			paying := row.PayingAccountID.Int64
			t.PayingAccountID = &paying
		}
		txs = append(txs, t)
	}
	return txs, nil
}

func (r *SQLiteRepository) AddIncome(ctx context.Context, inc core.Income) (int64, error) {
	if err := inc.Validate(); err != nil {
		return 0, fmt.Errorf("validate income: %w", err)
	}
	var account sql.NullInt64
	if inc.AccountID > 0 {
		account = sql.NullInt64{Int64: inc.AccountID, Valid: true}
	}
	id, err := r.queries.CreateIncome(ctx, CreateIncomeParams{
		HouseholdID: inc.HouseholdID,
		AccountID:   account,
		Date:        inc.Date.String(),
		Source:      inc.Source,
		GrossCents:  core.ToCents(inc.GrossAmount),
		NetCents:    core.ToCents(inc.NetAmount),
		TaxesCents:  core.ToCents(inc.Taxes),
	})
	if err != nil {
		return 0, fmt.Errorf("insert income: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) ListIncome(ctx context.Context, householdID int64, rng core.DateRange) ([]core.Income, error) {
	rows, err := r.queries.ListIncomeByRange(ctx, DateRangeParams{
		HouseholdID: householdID,
		StartDate:   rng.Start.String(),
		EndDate:     rng.End.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("list income: %w", err)
	}
	incomes := make([]core.Income, 0, len(rows))
	for _, row := range rows {
		date, ok := core.ParseLocalDate(row.Date)
		if !ok {
			return nil, fmt.Errorf("decode income %d: bad date %q", row.ID, row.Date)
		}
		incomes = append(incomes, core.Income{
			ID:          row.ID,
			HouseholdID: row.HouseholdID,
			AccountID:   row.AccountID.Int64,
			Date:        date,
			Source:      row.Source,
			GrossAmount: core.FromCents(row.GrossCents),
			NetAmount:   core.FromCents(row.NetCents),
			Taxes:       core.FromCents(row.TaxesCents),
		})
	}
	return incomes, nil
}

func (r *SQLiteRepository) CreateRecurringExpense(ctx context.Context, re core.RecurringExpense) (int64, error) {
	if err := re.Validate(); err != nil {
		return 0, fmt.Errorf("validate recurring expense: %w", err)
	}
	var dueDay sql.NullInt64
	if re.DueDay != nil {
		dueDay = sql.NullInt64{Int64: int64(*re.DueDay), Valid: true}
	}
	id, err := r.queries.CreateRecurringExpense(ctx, CreateRecurringExpenseParams{
		HouseholdID: re.HouseholdID,
		Description: re.Description,
		AmountCents: core.ToCents(re.Amount),
		Frequency:   string(re.Frequency),
		DueDay:      dueDay,
		NextDueDate: re.NextDueDate.String(),
		Active:      re.Active,
	})
	if err != nil {
		return 0, fmt.Errorf("insert recurring expense: %w", err)
	}
	slog.InfoContext(ctx, "Recurring expense created",
		"household_id", re.HouseholdID,
		"id", id,
		"frequency", re.Frequency,
		"next_due_date", re.NextDueDate.String())
	return id, nil
}

func (r *SQLiteRepository) GetRecurringExpense(ctx context.Context, householdID, id int64) (core.RecurringExpense, error) {
	row, err := r.queries.GetRecurringExpense(ctx, GetRecurringExpenseParams{HouseholdID: householdID, ID: id})
	if errors.Is(err, sql.ErrNoRows) {
		return core.RecurringExpense{}, ErrNotFound
	}
	if err != nil {
		return core.RecurringExpense{}, fmt.Errorf("get recurring expense: %w", err)
	}
	return recurringFromRow(row)
}

func (r *SQLiteRepository) ListRecurringExpenses(ctx context.Context, householdID int64) ([]core.RecurringExpense, error) {
	rows, err := r.queries.ListRecurringExpenses(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("list recurring expenses: %w", err)
	}
	defs := make([]core.RecurringExpense, 0, len(rows))
	for _, row := range rows {
		re, err := recurringFromRow(row)
		if err != nil {
			return nil, err
		}
		defs = append(defs, re)
	}
	return defs, nil
}

// UpdateRecurringNextDue moves a definition's next due date.
func (r *SQLiteRepository) UpdateRecurringNextDue(ctx context.Context, householdID, id int64, next core.Date) error {
	n, err := r.queries.UpdateRecurringNextDue(ctx, UpdateRecurringNextDueParams{
		NextDueDate: next.String(),
		HouseholdID: householdID,
		ID:          id,
	})
	if err != nil {
		return fmt.Errorf("update next due date: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetRecurringActive pauses or resumes a definition.
func (r *SQLiteRepository) SetRecurringActive(ctx context.Context, householdID, id int64, active bool) error {
	n, err := r.queries.SetRecurringActive(ctx, SetRecurringActiveParams{
		Active:      active,
		HouseholdID: householdID,
		ID:          id,
	})
	if err != nil {
		return fmt.Errorf("set recurring active: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func recurringFromRow(row RecurringExpense) (core.RecurringExpense, error) {
	next, ok := core.ParseLocalDate(row.NextDueDate)
	if !ok {
		return core.RecurringExpense{}, fmt.Errorf("decode recurring expense %d: bad date %q", row.ID, row.NextDueDate)
	}
	re := core.RecurringExpense{
		ID:          row.ID,
		HouseholdID: row.HouseholdID,
		Description: row.Description,
		Amount:      core.FromCents(row.AmountCents),
		Frequency:   core.Frequency(row.Frequency),
		NextDueDate: next,
		Active:      row.Active,
	}
	if row.DueDay.Valid {
		day := int(row.DueDay.Int64)
		re.DueDay = &day
	}
	return re, nil
}

func splitFromRow(row TransactionSplit) (core.Split, error) {
	var amount, percent *decimal.Decimal
	if row.AmountCents.Valid {
		a := core.FromCents(row.AmountCents.Int64)
		amount = &a
	}
	if row.Percent.Valid {
		p, err := decimal.NewFromString(row.Percent.String)
		if err != nil {
			return core.Split{}, fmt.Errorf("parse percent: %w", err)
		}
		percent = &p
	}
	return core.Split{
		Type:   core.RoutingType(row.RoutingType),
		Target: row.Target,
		Share:  core.NewSplitShare(amount, percent),
	}, nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
