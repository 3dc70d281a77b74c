package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"budgetflow/internal/cache"
	"budgetflow/internal/cli"
	apphttp "budgetflow/internal/http"
	"budgetflow/internal/log"
	"budgetflow/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	cfg, err := cli.LoadConfig()
	if err != nil {
		cli.Fatal(cli.SetupLogger(log.ComponentApp, "info"), "Configuration validation failed", err)
	}
	logger := cli.SetupLogger(log.ComponentApp, cfg.LogLevel)

	stack, bcfg, err := cli.OpenStack(context.Background(), logger, cfg)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize backend", err, "path", cfg.SQLiteDBPath)
	}
	defer stack.Close()

	srv := apphttp.NewServer(":"+cfg.Port, stack.Reports, stack.Ledger, apphttp.Options{
		ForecastTolerance: cfg.ForecastTolerance,
		WritesPerMinute:   cfg.WritesPerMinute,
		ExportsPerHour:    cfg.ExportsPerHour,
		Logger:            logger,
		Ready:             stack.Repo,
	})

	ctx, done := cli.GracefulShutdown(logger, cli.DefaultShutdownTimeout, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
	})

	if stack.Cache != nil {
		manager := cache.NewManager(stack.Cache)
		manager.StartCleanup(ctx, time.Minute)
		defer manager.Wait()
	}

	if stack.AMQP != nil && cfg.AMQPScheduleQueue != "" {
		listener := worker.NewScheduleListener(stack.Reports, logger)
		go func() {
			if err := stack.AMQP.ConsumeScheduleAdvanced(ctx, listener.HandleScheduleAdvanced); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Schedule event consumption failed", log.FieldError, err)
			}
		}()
	}

	logger.Info("Starting budgetflow server",
		"port", cfg.Port,
		"export_backend", bcfg.Export.String(),
		"amqp_enabled", stack.AMQP != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		cli.Fatal(logger, "Server error", err, "port", cfg.Port)
	}

	<-ctx.Done()
	<-done
	logger.Info("Server stopped gracefully")
}
