package main

import (
	"context"
	"errors"

	"budgetflow/internal/backend"
	"budgetflow/internal/cli"
	"budgetflow/internal/log"
	"budgetflow/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	cfg, err := cli.LoadConfig()
	if err != nil {
		cli.Fatal(cli.SetupLogger(log.ComponentWorker, "info"), "Configuration validation failed", err)
	}
	logger := cli.SetupLogger(log.ComponentWorker, cfg.LogLevel)
	logger.Info("Starting export-worker")

	if cfg.AMQPURL == "" {
		cli.Fatal(logger, "Export worker requires a broker", errors.New("AMQP_URL is not set"))
	}

	// every export reads the ledger fresh; writes happen in other processes
	cfg.ReportCacheSize = 0
	stack, bcfg, err := cli.OpenStack(context.Background(), logger, cfg)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize backend", err, "path", cfg.SQLiteDBPath)
	}
	defer stack.Close()
	if stack.AMQP == nil {
		cli.Fatal(logger, "Failed to connect to broker", errors.New("AMQP client unavailable"), "url_set", true)
	}

	reports, err := backend.NewFactory(logger).CreateReportBackend(context.Background(), bcfg)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize export backend", err, "backend", bcfg.Export.String())
	}

	exporter := worker.NewExportWorker(stack.Reports, reports, logger)

	ctx, done := cli.GracefulShutdown(logger, cli.DefaultShutdownTimeout, nil)

	logger.Info("Consuming export requests",
		"queue", cfg.AMQPExportQueue,
		"backend", bcfg.Export.String())
	if err := stack.AMQP.ConsumeExportRequests(ctx, exporter.HandleExportRequest); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err)
	}

	<-ctx.Done()
	<-done
	logger.Info("Export worker stopped")
}
