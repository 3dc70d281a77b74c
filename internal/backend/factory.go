package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"budgetflow/internal/amqp"
	"budgetflow/internal/cache"
	"budgetflow/internal/log"
	"budgetflow/internal/services"
	"budgetflow/internal/sheets"
	gsheet "budgetflow/internal/sheets/google"
	"budgetflow/internal/sheets/memory"
	"budgetflow/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentApp)}
}

// CreateStack implements Factory.CreateStack
func (f *DefaultFactory) CreateStack(ctx context.Context, config Config) (*Stack, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}
	stack := &Stack{Repo: repo}
	stack.cleanups = append(stack.cleanups, repo.Close)

	var reportCache cache.Cache[any]
	if config.CacheSize > 0 {
		ttl := config.CacheTTL
		if ttl <= 0 {
			ttl = 5 * time.Minute
		}
		stack.Cache = cache.NewLRUCache[any](config.CacheSize, ttl)
		reportCache = stack.Cache
	}
	stack.Reports = services.NewReportService(repo, reportCache, f.logger)

	// AMQP is optional; without it exports and schedule events are disabled
	var (
		exports  services.ExportPublisher
		schedule services.SchedulePublisher
	)
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(amqp.Config{
			URL:           config.AMQPURL,
			Exchange:      config.AMQPExchange,
			ExportQueue:   config.AMQPExportQueue,
			ScheduleQueue: config.AMQPScheduleQueue,
		})
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without exports", log.FieldError, err)
		} else {
			stack.AMQP = client
			stack.cleanups = append(stack.cleanups, client.Close)
			exports, schedule = client, client
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"export_queue", config.AMQPExportQueue,
				"schedule_queue", config.AMQPScheduleQueue)
		}
	}

	stack.Ledger = services.NewLedgerService(repo, stack.Reports, exports, f.logger)
	stack.Schedule = services.NewRecurringProcessor(repo, schedule, stack.Reports, f.logger)

	f.logger.InfoContext(ctx, "Initialized ledger stack",
		"db_path", config.SQLiteDBPath,
		"cache_size", config.CacheSize,
		"amqp_enabled", stack.AMQP != nil)
	return stack, nil
}

// CreateReportBackend implements Factory.CreateReportBackend
func (f *DefaultFactory) CreateReportBackend(ctx context.Context, config Config) (sheets.ReportBackend, error) {
	switch config.Export {
	case SheetsExport:
		cli, err := gsheet.NewClient(ctx, gsheet.Config{
			SpreadsheetID:      config.GoogleSpreadsheetID,
			ServiceAccountFile: config.GoogleServiceAccountFile,
			ServiceAccountJSON: config.GoogleServiceAccountJSON,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
		}
		f.logger.InfoContext(ctx, "Initialized Google Sheets export", "spreadsheet_id", config.GoogleSpreadsheetID)
		return cli, nil
	case MemoryExport:
		f.logger.InfoContext(ctx, "Initialized memory export")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unsupported export backend: %s", config.Export)
	}
}

// Close releases the stack's resources in reverse order of creation.
func (s *Stack) Close() error {
	var errs []error
	for i := len(s.cleanups) - 1; i >= 0; i-- {
		if err := s.cleanups[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.cleanups = nil
	return errors.Join(errs...)
}
