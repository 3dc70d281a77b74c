package main

import (
	"context"

	"budgetflow/internal/cli"
	"budgetflow/internal/log"
	"budgetflow/internal/services"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	cfg, err := cli.LoadConfig()
	if err != nil {
		cli.Fatal(cli.SetupLogger(log.ComponentWorker, "info"), "Configuration validation failed", err)
	}
	logger := cli.SetupLogger(log.ComponentWorker, cfg.LogLevel)
	logger.Info("Starting recurring-worker")

	stack, _, err := cli.OpenStack(context.Background(), logger, cfg)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize backend", err, "path", cfg.SQLiteDBPath)
	}
	defer stack.Close()

	if stack.AMQP == nil {
		logger.Info("AMQP disabled - schedule advances will not be published")
	}

	runnerCfg := services.DefaultScheduleRunnerConfig()
	runnerCfg.Interval = cfg.RecurringInterval
	runner := services.NewScheduleRunner(stack.Schedule, runnerCfg, logger)

	ctx, done := cli.GracefulShutdown(logger, cli.DefaultShutdownTimeout, func(shutdownCtx context.Context) {
		if err := runner.Stop(shutdownCtx); err != nil {
			logger.Error("Schedule runner shutdown error", log.FieldError, err)
		}
	})

	if err := runner.Start(ctx); err != nil {
		cli.Fatal(logger, "Failed to start schedule runner", err)
	}

	<-ctx.Done()
	<-done
	logger.Info("Recurring worker stopped")
}
