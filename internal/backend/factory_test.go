package backend

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"budgetflow/internal/config"
	"budgetflow/internal/core"
	"budgetflow/internal/log"
	"budgetflow/internal/services"
	"budgetflow/internal/sheets/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietFactory() Factory {
	return NewFactory(log.New(log.Config{Output: io.Discard}))
}

func TestCreateStack(t *testing.T) {
	ctx := context.Background()
	cfg := Config{
		Export:       MemoryExport,
		SQLiteDBPath: filepath.Join(t.TempDir(), "budget.db"),
		CacheSize:    16,
		CacheTTL:     time.Minute,
	}

	stack, err := quietFactory().CreateStack(ctx, cfg)
	require.NoError(t, err)
	defer stack.Close()

	assert.NotNil(t, stack.Repo)
	assert.NotNil(t, stack.Cache)
	assert.Nil(t, stack.AMQP)

	// without a broker exports are reported as unavailable rather than panicking
	err = stack.Ledger.RequestExport(ctx, 1, core.YearMonth{Year: 2024, Month: 3})
	assert.ErrorIs(t, err, services.ErrExportsUnavailable)

	h, err := stack.Repo.CreateHousehold(ctx, "Home")
	require.NoError(t, err)
	acct, err := stack.Repo.CreateAccount(ctx, core.Account{HouseholdID: h, Name: "Checking", Type: core.AccountChecking})
	require.NoError(t, err)

	rng := core.MonthRange(2024, 3)
	before, err := stack.Reports.PeriodSummary(ctx, h, rng)
	require.NoError(t, err)
	assert.True(t, before.TotalExpense.IsZero())
	assert.Equal(t, 1, stack.Cache.Size())

	_, err = stack.Ledger.RecordTransaction(ctx, core.Transaction{
		HouseholdID: h,
		AccountID:   acct,
		Date:        core.NewDate(2024, 3, 5),
		Description: "Groceries",
		Amount:      decimal.RequireFromString("42.10"),
	})
	require.NoError(t, err)

	// recording invalidates the cached summary
	after, err := stack.Reports.PeriodSummary(ctx, h, rng)
	require.NoError(t, err)
	assert.True(t, after.TotalExpense.Equal(decimal.RequireFromString("42.10")))

	require.NoError(t, stack.Close())
	assert.NoError(t, stack.Close())
}

func TestCreateStackWithoutCache(t *testing.T) {
	stack, err := quietFactory().CreateStack(context.Background(), Config{
		Export:       MemoryExport,
		SQLiteDBPath: filepath.Join(t.TempDir(), "budget.db"),
	})
	require.NoError(t, err)
	defer stack.Close()
	assert.Nil(t, stack.Cache)
}

func TestCreateStackInvalidConfig(t *testing.T) {
	_, err := quietFactory().CreateStack(context.Background(), Config{Export: "excel", SQLiteDBPath: "x.db"})
	assert.Error(t, err)
}

func TestCreateReportBackend(t *testing.T) {
	f := quietFactory()

	b, err := f.CreateReportBackend(context.Background(), Config{Export: MemoryExport})
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, b)

	_, err = f.CreateReportBackend(context.Background(), Config{Export: SheetsExport})
	assert.ErrorContains(t, err, "failed to initialize Google Sheets client")

	_, err = f.CreateReportBackend(context.Background(), Config{Export: "excel"})
	assert.ErrorContains(t, err, "unsupported export backend")
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"memory export", Config{Export: MemoryExport, SQLiteDBPath: "a.db"}, false},
		{"sheets export with json", Config{Export: SheetsExport, SQLiteDBPath: "a.db", GoogleSpreadsheetID: "id", GoogleServiceAccountJSON: "{}"}, false},
		{"unknown export", Config{Export: "excel", SQLiteDBPath: "a.db"}, true},
		{"missing db path", Config{Export: MemoryExport}, true},
		{"sheets without spreadsheet", Config{Export: SheetsExport, SQLiteDBPath: "a.db", GoogleServiceAccountJSON: "{}"}, true},
		{"sheets without credentials", Config{Export: SheetsExport, SQLiteDBPath: "a.db", GoogleSpreadsheetID: "id"}, true},
		{"negative cache", Config{Export: MemoryExport, SQLiteDBPath: "a.db", CacheSize: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFromAppConfig(t *testing.T) {
	_, err := FromAppConfig(nil)
	assert.Error(t, err)

	app := &config.Config{
		SQLiteDBPath:        "db.sqlite",
		ExportBackend:       "sheets",
		AMQPURL:             "amqp://localhost/",
		AMQPExportQueue:     "exports",
		ReportCacheSize:     32,
		ReportCacheTTL:      time.Minute,
		GoogleSpreadsheetID: "sheet",
	}
	cfg, err := FromAppConfig(app)
	require.NoError(t, err)
	assert.Equal(t, SheetsExport, cfg.Export)
	assert.Equal(t, "exports", cfg.AMQPExportQueue)
	assert.Equal(t, 32, cfg.CacheSize)
	assert.Equal(t, "sheet", cfg.GoogleSpreadsheetID)

	app.ExportBackend = "excel"
	_, err = FromAppConfig(app)
	assert.Error(t, err)

	assert.Equal(t, []ExportType{MemoryExport, SheetsExport}, GetExportTypes())
}
