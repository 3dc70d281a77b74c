// Package cli holds the startup steps shared by every budgetflow binary:
// env loading, logger setup, config validation, stack wiring and signal
// handling.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"budgetflow/internal/backend"
	"budgetflow/internal/config"
	"budgetflow/internal/log"

	"github.com/joho/godotenv"
)

// DefaultShutdownTimeout bounds graceful shutdown of servers and workers.
const DefaultShutdownTimeout = 30 * time.Second

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger for component at the given level
// and installs it as the slog default.
func SetupLogger(component, level string) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(level),
		Component: component,
		Output:    os.Stdout,
	})
	log.SetDefault(logger)
	return logger
}

// LoadConfig reads the environment and validates it.
func LoadConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OpenStack wires repository, caches, services and the optional broker from
// the application config.
func OpenStack(ctx context.Context, logger *log.Logger, cfg *config.Config) (*backend.Stack, backend.Config, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, backend.Config{}, err
	}
	stack, err := backend.NewFactory(logger).CreateStack(ctx, bcfg)
	if err != nil {
		return nil, backend.Config{}, fmt.Errorf("create stack: %w", err)
	}
	return stack, bcfg, nil
}

// Fatal logs err and exits with status 1.
func Fatal(logger *log.Logger, msg string, err error, args ...any) {
	logger.Error(msg, append([]any{log.FieldError, err}, args...)...)
	os.Exit(1)
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM. cleanup
// runs with a context bounded by timeout before the returned done channel
// closes.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	// registered before returning so an early signal is not lost
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer close(done)
		defer signal.Stop(sigChan)

		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()
		if cleanup != nil {
			cleanup(shutdownCtx)
		}
		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
			return
		}
		logger.Info("Shutdown complete")
	}()

	return ctx, done
}
