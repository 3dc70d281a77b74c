// Package worker consumes queued broker messages: export requests that write
// monthly reports and schedule events that drop stale cached reports.
package worker

import (
	"context"
	"errors"
	"fmt"

	"budgetflow/internal/amqp"
	"budgetflow/internal/core"
	"budgetflow/internal/log"
	"budgetflow/internal/sheets"
)

// ReportSource builds the figures that go into a monthly report.
type ReportSource interface {
	PeriodSummary(ctx context.Context, householdID int64, rng core.DateRange) (core.PeriodSummary, error)
	SpentButNotListed(ctx context.Context, householdID int64, ym core.YearMonth) (core.SBNLReport, error)
	Invalidate(householdID int64)
}

// ExportWorker renders and stores monthly household reports.
type ExportWorker struct {
	reports ReportSource
	writer  sheets.ReportWriter
	logger  *log.Logger
}

func NewExportWorker(reports ReportSource, writer sheets.ReportWriter, logger *log.Logger) *ExportWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ExportWorker{
		reports: reports,
		writer:  writer,
		logger:  logger.WithComponent(log.ComponentWorker),
	}
}

// HandleExportRequest processes a single export message from AMQP.
func (w *ExportWorker) HandleExportRequest(ctx context.Context, msg *amqp.ExportRequestMessage) error {
	if msg == nil {
		return errors.New("nil export request")
	}
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("invalid export request: %w", err)
	}

	w.logger.InfoContext(ctx, "Processing export request",
		log.FieldHouseholdID, msg.HouseholdID,
		log.FieldPeriod, msg.Period().String(),
		"requested_at", msg.RequestedAt)

	_, err := w.ExportMonth(ctx, msg.HouseholdID, msg.Period())
	return err
}

// ExportMonth writes the report for one household month and returns the
// backend reference of the written report.
func (w *ExportWorker) ExportMonth(ctx context.Context, householdID int64, ym core.YearMonth) (string, error) {
	// ledger writes from other processes never reach this process's cache
	w.reports.Invalidate(householdID)

	summary, err := w.reports.PeriodSummary(ctx, householdID, ym.Range())
	if err != nil {
		return "", fmt.Errorf("build summary: %w", err)
	}
	sbnl, err := w.reports.SpentButNotListed(ctx, householdID, ym)
	if err != nil {
		return "", fmt.Errorf("build sbnl report: %w", err)
	}

	ref, err := w.writer.WriteMonthReport(ctx, householdID, ym, summary, sbnl)
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to write report",
			log.FieldHouseholdID, householdID,
			log.FieldPeriod, ym.String(),
			log.FieldError, err)
		return "", fmt.Errorf("write report: %w", err)
	}

	w.logger.InfoContext(ctx, "Report exported",
		log.FieldHouseholdID, householdID,
		log.FieldPeriod, ym.String(),
		"ref", ref,
		"transactions", summary.TransactionCount,
		"total_expense", summary.TotalExpense.StringFixed(2))
	return ref, nil
}
