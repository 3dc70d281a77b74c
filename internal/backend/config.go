package backend

import (
	"errors"
	"fmt"

	"budgetflow/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, errors.New("app config is nil")
	}

	exportType := ExportType(appConfig.ExportBackend)
	if !exportType.IsValid() {
		return Config{}, fmt.Errorf("invalid export backend in config: %s", appConfig.ExportBackend)
	}

	return Config{
		Export:       exportType,
		SQLiteDBPath: appConfig.SQLiteDBPath,

		AMQPURL:           appConfig.AMQPURL,
		AMQPExchange:      appConfig.AMQPExchange,
		AMQPExportQueue:   appConfig.AMQPExportQueue,
		AMQPScheduleQueue: appConfig.AMQPScheduleQueue,

		GoogleSpreadsheetID:      appConfig.GoogleSpreadsheetID,
		GoogleServiceAccountFile: appConfig.GoogleServiceAccountFile,
		GoogleServiceAccountJSON: appConfig.GoogleServiceAccountJSON,

		CacheSize: appConfig.ReportCacheSize,
		CacheTTL:  appConfig.ReportCacheTTL,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Export.IsValid() {
		return fmt.Errorf("invalid export backend: %s", c.Export)
	}
	if c.SQLiteDBPath == "" {
		return errors.New("SQLite database path is required")
	}
	if c.Export == SheetsExport {
		if c.GoogleSpreadsheetID == "" {
			return errors.New("Google Spreadsheet ID is required for sheets export")
		}
		if c.GoogleServiceAccountFile == "" && c.GoogleServiceAccountJSON == "" {
			return errors.New("either GoogleServiceAccountFile or GoogleServiceAccountJSON must be provided for sheets export")
		}
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("invalid cache size: %d", c.CacheSize)
	}
	return nil
}

// GetExportTypes returns all valid export types
func GetExportTypes() []ExportType {
	return []ExportType{MemoryExport, SheetsExport}
}
