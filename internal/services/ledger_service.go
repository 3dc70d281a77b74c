package services

import (
	"context"
	"errors"
	"fmt"

	"budgetflow/internal/core"
	"budgetflow/internal/log"
)

// ErrExportsUnavailable is returned when no export publisher is configured.
var ErrExportsUnavailable = errors.New("report exports are not configured")

// LedgerWriter is the write side of the ledger store.
type LedgerWriter interface {
	AddTransaction(ctx context.Context, t core.Transaction) (int64, error)
	AddIncome(ctx context.Context, inc core.Income) (int64, error)
	CreateRecurringExpense(ctx context.Context, re core.RecurringExpense) (int64, error)
}

// ExportPublisher queues a monthly report export.
type ExportPublisher interface {
	PublishExportRequest(ctx context.Context, householdID int64, ym core.YearMonth) error
}

// LedgerService records ledger rows and keeps cached reports consistent with
// them. It also queues report exports.
type LedgerService struct {
	writer  LedgerWriter
	reports ReportInvalidator
	exports ExportPublisher
	logger  *log.Logger
}

// NewLedgerService wires the service. reports and exports may be nil.
func NewLedgerService(writer LedgerWriter, reports ReportInvalidator, exports ExportPublisher, logger *log.Logger) *LedgerService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &LedgerService{
		writer:  writer,
		reports: reports,
		exports: exports,
		logger:  logger.WithComponent(log.ComponentStorage),
	}
}

func (s *LedgerService) RecordTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	id, err := s.writer.AddTransaction(ctx, t)
	if err != nil {
		return 0, fmt.Errorf("save transaction: %w", err)
	}
	s.invalidate(t.HouseholdID)
	s.logger.InfoContext(ctx, "Transaction recorded",
		log.NewFields().
			WithOperation(log.OpCreate).
			WithAmount(t.Amount).
			ToSlice()...)
	return id, nil
}

func (s *LedgerService) RecordIncome(ctx context.Context, inc core.Income) (int64, error) {
	id, err := s.writer.AddIncome(ctx, inc)
	if err != nil {
		return 0, fmt.Errorf("save income: %w", err)
	}
	s.invalidate(inc.HouseholdID)
	return id, nil
}

// AddRecurringExpense stores a definition. A missing next due date is
// projected from today.
func (s *LedgerService) AddRecurringExpense(ctx context.Context, re core.RecurringExpense, today core.Date) (int64, error) {
	if re.NextDueDate.IsZero() {
		re.NextDueDate = NextDueDate(today, re.Frequency, re.DueDay)
	}
	id, err := s.writer.CreateRecurringExpense(ctx, re)
	if err != nil {
		return 0, fmt.Errorf("save recurring expense: %w", err)
	}
	s.invalidate(re.HouseholdID)
	return id, nil
}

// RequestExport queues an export of ym's report for the household.
func (s *LedgerService) RequestExport(ctx context.Context, householdID int64, ym core.YearMonth) error {
	if s.exports == nil {
		return ErrExportsUnavailable
	}
	if err := s.exports.PublishExportRequest(ctx, householdID, ym); err != nil {
		return fmt.Errorf("publish export request: %w", err)
	}
	s.logger.InfoContext(ctx, "Report export requested",
		log.FieldHouseholdID, householdID,
		log.FieldPeriod, ym.String())
	return nil
}

func (s *LedgerService) invalidate(householdID int64) {
	if s.reports != nil {
		s.reports.Invalidate(householdID)
	}
}
