package backend

import (
	"context"
	"time"

	"budgetflow/internal/amqp"
	"budgetflow/internal/cache"
	"budgetflow/internal/services"
	"budgetflow/internal/sheets"
	"budgetflow/internal/storage"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Stack is the wired application: the ledger store and the services built on
// it. AMQP is nil when no broker is configured.
type Stack struct {
	Repo     *storage.SQLiteRepository
	Cache    *cache.LRUCache[any] // nil when caching is disabled
	Reports  *services.ReportService
	Ledger   *services.LedgerService
	Schedule *services.RecurringProcessor
	AMQP     *amqp.Client

	cleanups []CleanupFunc
}

// Factory creates stacks and export backends based on configuration
type Factory interface {
	// CreateStack opens the store and wires the services on top of it.
	CreateStack(ctx context.Context, config Config) (*Stack, error)
	// CreateReportBackend returns the configured report export target.
	CreateReportBackend(ctx context.Context, config Config) (sheets.ReportBackend, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Export target
	Export ExportType

	SQLiteDBPath string

	// AMQP is optional
	AMQPURL           string
	AMQPExchange      string
	AMQPExportQueue   string
	AMQPScheduleQueue string

	// Google Sheets specific
	GoogleSpreadsheetID      string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string

	// Report cache; size 0 disables it
	CacheSize int
	CacheTTL  time.Duration
}

// ExportType represents where monthly reports are written
type ExportType string

const (
	SheetsExport ExportType = "sheets"
	MemoryExport ExportType = "memory"
)

// String implements fmt.Stringer
func (et ExportType) String() string {
	return string(et)
}

// IsValid returns true if the export type is valid
func (et ExportType) IsValid() bool {
	switch et {
	case SheetsExport, MemoryExport:
		return true
	default:
		return false
	}
}
