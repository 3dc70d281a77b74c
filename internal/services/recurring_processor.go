package services

import (
	"context"
	"fmt"
	"time"

	"budgetflow/internal/core"
	"budgetflow/internal/log"
)

// RecurringStore is the part of the ledger the processor reads and updates.
type RecurringStore interface {
	ListHouseholds(ctx context.Context) ([]int64, error)
	ListRecurringExpenses(ctx context.Context, householdID int64) ([]core.RecurringExpense, error)
	UpdateRecurringNextDue(ctx context.Context, householdID, id int64, next core.Date) error
}

// SchedulePublisher announces that a definition moved to a new due date.
type SchedulePublisher interface {
	PublishScheduleAdvanced(ctx context.Context, householdID, recurringID int64, nextDue core.Date) error
}

// ReportInvalidator drops cached reports of a household.
type ReportInvalidator interface {
	Invalidate(householdID int64)
}

// RecurringProcessor moves due recurring definitions to their next due date.
type RecurringProcessor struct {
	store     RecurringStore
	publisher SchedulePublisher
	reports   ReportInvalidator
	logger    *log.Logger
}

// NewRecurringProcessor creates a processor. publisher and reports may be nil.
func NewRecurringProcessor(store RecurringStore, publisher SchedulePublisher, reports ReportInvalidator, logger *log.Logger) *RecurringProcessor {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &RecurringProcessor{
		store:     store,
		publisher: publisher,
		reports:   reports,
		logger:    logger.WithComponent(log.ComponentRecurring),
	}
}

// AdvanceSchedules advances every active definition of the household whose
// due date is on or before now's calendar day. It returns how many moved.
// A failed update skips that definition; publishing is best-effort.
func (p *RecurringProcessor) AdvanceSchedules(ctx context.Context, householdID int64, now time.Time) (int, error) {
	if p.store == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}
	today := core.DateOf(now)

	defs, err := p.store.ListRecurringExpenses(ctx, householdID)
	if err != nil {
		return 0, fmt.Errorf("list recurring expenses: %w", err)
	}

	logger := p.logger.WithHousehold(householdID)
	advanced := 0
	for _, re := range defs {
		if !IsDue(re, today) {
			continue
		}
		next := AdvancePast(re, today)
		if err := p.store.UpdateRecurringNextDue(ctx, householdID, re.ID, next); err != nil {
			logger.ErrorContext(ctx, "Failed to advance recurring expense",
				log.FieldRecurringID, re.ID,
				log.FieldError, err)
			continue
		}
		advanced++
		logger.InfoContext(ctx, "Recurring expense advanced",
			log.FieldRecurringID, re.ID,
			"description", re.Description,
			"frequency", re.Frequency,
			"previous_due_date", re.NextDueDate.String(),
			log.FieldNextDueDate, next.String())

		if p.publisher == nil {
			logger.WarnContext(ctx, "AMQP publisher not available, skipping schedule event")
			continue
		}
		if err := p.publisher.PublishScheduleAdvanced(ctx, householdID, re.ID, next); err != nil {
			logger.ErrorContext(ctx, "Failed to publish schedule event",
				log.FieldRecurringID, re.ID,
				log.FieldError, err)
		}
	}

	if advanced > 0 && p.reports != nil {
		p.reports.Invalidate(householdID)
	}
	logger.InfoContext(ctx, "Recurring schedule pass complete",
		"advanced", advanced,
		"total_checked", len(defs),
		"processing_date", today.String())
	return advanced, nil
}

// AdvanceAll runs AdvanceSchedules for every household. Failures of one
// household do not stop the others; the first error is returned.
func (p *RecurringProcessor) AdvanceAll(ctx context.Context, now time.Time) (int, error) {
	if p.store == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}
	households, err := p.store.ListHouseholds(ctx)
	if err != nil {
		return 0, fmt.Errorf("list households: %w", err)
	}
	total := 0
	var firstErr error
	for _, h := range households {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := p.AdvanceSchedules(ctx, h, now)
		total += n
		if err != nil {
			p.logger.ErrorContext(ctx, "Household schedule pass failed", log.FieldHouseholdID, h, log.FieldError, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return total, firstErr
}
