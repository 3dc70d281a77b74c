package services

import (
	"context"
	"errors"
	"testing"

	"budgetflow/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerServiceInvalidatesReports(t *testing.T) {
	ledger := newFakeLedger()
	reports := &fakeInvalidator{}
	svc := NewLedgerService(ledger, reports, nil, quietLogger())
	ctx := context.Background()

	_, err := svc.RecordTransaction(ctx, core.Transaction{HouseholdID: 4, Date: core.NewDate(2024, 1, 1), Amount: dec("1")})
	require.NoError(t, err)
	_, err = svc.RecordIncome(ctx, core.Income{HouseholdID: 5, Date: core.NewDate(2024, 1, 1)})
	require.NoError(t, err)

	assert.Equal(t, []int64{4, 5}, reports.households)
}

func TestLedgerServiceWriteFailureKeepsCache(t *testing.T) {
	ledger := newFakeLedger()
	ledger.err = errors.New("constraint failed")
	reports := &fakeInvalidator{}
	svc := NewLedgerService(ledger, reports, nil, quietLogger())

	_, err := svc.RecordTransaction(context.Background(), core.Transaction{HouseholdID: 4})
	assert.ErrorContains(t, err, "constraint failed")
	assert.Empty(t, reports.households)
}

func TestLedgerServiceProjectsMissingDueDate(t *testing.T) {
	ledger := newFakeLedger()
	svc := NewLedgerService(ledger, nil, nil, quietLogger())

	_, err := svc.AddRecurringExpense(context.Background(), core.RecurringExpense{
		HouseholdID: 1, Description: "Insurance", Amount: dec("90"), Frequency: core.Monthly, DueDay: dueDay(31), Active: true,
	}, core.NewDate(2023, 2, 10))
	require.NoError(t, err)
	assert.Equal(t, core.NewDate(2023, 2, 28), ledger.recurring[1][0].NextDueDate)
}

func TestLedgerServiceRequestExport(t *testing.T) {
	ym := core.YearMonth{Year: 2024, Month: 5}

	err := NewLedgerService(newFakeLedger(), nil, nil, quietLogger()).RequestExport(context.Background(), 1, ym)
	assert.ErrorIs(t, err, ErrExportsUnavailable)

	publisher := &fakePublisher{}
	require.NoError(t, NewLedgerService(newFakeLedger(), nil, publisher, quietLogger()).RequestExport(context.Background(), 1, ym))
	assert.Equal(t, []core.YearMonth{ym}, publisher.exports)
}
