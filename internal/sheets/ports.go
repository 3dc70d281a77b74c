// Package sheets renders monthly household reports as spreadsheet rows and
// defines the ports report backends implement.
package sheets

import (
	"context"
	"errors"

	"budgetflow/internal/core"
)

// ErrReportNotFound is returned when no report tab exists for the month.
var ErrReportNotFound = errors.New("report not found")

// Ports for outbound adapters.
type (
	// ReportWriter stores the monthly report of a household, replacing any
	// earlier export of the same month.
	ReportWriter interface {
		WriteMonthReport(ctx context.Context, householdID int64, ym core.YearMonth, summary core.PeriodSummary, sbnl core.SBNLReport) (ref string, err error)
	}

	// ReportReader reads back an exported report as rows of cells.
	ReportReader interface {
		ReadMonthReport(ctx context.Context, householdID int64, ym core.YearMonth) ([][]string, error)
	}

	ReportBackend interface {
		ReportWriter
		ReportReader
	}
)
