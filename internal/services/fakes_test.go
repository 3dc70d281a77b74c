package services

import (
	"context"
	"errors"
	"sort"
	"sync"

	"budgetflow/internal/core"
)

type fakeLedger struct {
	mu           sync.Mutex
	accounts     map[int64][]core.Account
	transactions map[int64][]core.Transaction
	incomes      map[int64][]core.Income
	recurring    map[int64][]core.RecurringExpense
	calls        map[string]int
	failUpdate   map[int64]bool
	err          error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		accounts:     make(map[int64][]core.Account),
		transactions: make(map[int64][]core.Transaction),
		incomes:      make(map[int64][]core.Income),
		recurring:    make(map[int64][]core.RecurringExpense),
		calls:        make(map[string]int),
		failUpdate:   make(map[int64]bool),
	}
}

func (f *fakeLedger) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeLedger) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.err
}

func (f *fakeLedger) ListHouseholds(context.Context) ([]int64, error) {
	if err := f.record("households"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []int64
	for id := range f.recurring {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f *fakeLedger) ListAccounts(_ context.Context, householdID int64) ([]core.Account, error) {
	if err := f.record("accounts"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accounts[householdID], nil
}

func (f *fakeLedger) ListTransactions(_ context.Context, householdID int64, rng core.DateRange) ([]core.Transaction, error) {
	if err := f.record("transactions"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.Transaction
	for _, t := range f.transactions[householdID] {
		if rng.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeLedger) ListIncome(_ context.Context, householdID int64, rng core.DateRange) ([]core.Income, error) {
	if err := f.record("income"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.Income
	for _, inc := range f.incomes[householdID] {
		if rng.Contains(inc.Date) {
			out = append(out, inc)
		}
	}
	return out, nil
}

func (f *fakeLedger) ListRecurringExpenses(_ context.Context, householdID int64) ([]core.RecurringExpense, error) {
	if err := f.record("recurring"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]core.RecurringExpense(nil), f.recurring[householdID]...), nil
}

func (f *fakeLedger) UpdateRecurringNextDue(_ context.Context, householdID, id int64, next core.Date) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate[id] {
		return errors.New("disk full")
	}
	defs := f.recurring[householdID]
	for i := range defs {
		if defs[i].ID == id {
			defs[i].NextDueDate = next
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeLedger) AddTransaction(_ context.Context, t core.Transaction) (int64, error) {
	if err := f.record("add_transaction"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transactions[t.HouseholdID] = append(f.transactions[t.HouseholdID], t)
	return int64(len(f.transactions[t.HouseholdID])), nil
}

func (f *fakeLedger) AddIncome(_ context.Context, inc core.Income) (int64, error) {
	if err := f.record("add_income"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.incomes[inc.HouseholdID] = append(f.incomes[inc.HouseholdID], inc)
	return int64(len(f.incomes[inc.HouseholdID])), nil
}

func (f *fakeLedger) CreateRecurringExpense(_ context.Context, re core.RecurringExpense) (int64, error) {
	if err := f.record("add_recurring"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	re.ID = int64(len(f.recurring[re.HouseholdID]) + 1)
	f.recurring[re.HouseholdID] = append(f.recurring[re.HouseholdID], re)
	return re.ID, nil
}

type scheduleEvent struct {
	household, recurring int64
	next                 core.Date
}

type fakePublisher struct {
	mu      sync.Mutex
	events  []scheduleEvent
	exports []core.YearMonth
	err     error
}

func (p *fakePublisher) PublishScheduleAdvanced(_ context.Context, householdID, recurringID int64, next core.Date) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, scheduleEvent{householdID, recurringID, next})
	return nil
}

func (p *fakePublisher) PublishExportRequest(_ context.Context, _ int64, ym core.YearMonth) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.exports = append(p.exports, ym)
	return nil
}

type fakeInvalidator struct {
	households []int64
}

func (f *fakeInvalidator) Invalidate(householdID int64) {
	f.households = append(f.households, householdID)
}
