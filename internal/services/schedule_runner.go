package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"budgetflow/internal/log"
)

// ScheduleRunnerConfig holds configuration for the schedule runner
type ScheduleRunnerConfig struct {
	// Interval between schedule passes (default: 1h)
	Interval time.Duration

	// PassTimeout bounds a single pass over all households (default: 5m)
	PassTimeout time.Duration
}

// DefaultScheduleRunnerConfig returns the defaults used by the worker binary.
func DefaultScheduleRunnerConfig() ScheduleRunnerConfig {
	return ScheduleRunnerConfig{
		Interval:    time.Hour,
		PassTimeout: 5 * time.Minute,
	}
}

// ScheduleRunner calls RecurringProcessor.AdvanceAll on a ticker.
type ScheduleRunner struct {
	processor *RecurringProcessor
	config    ScheduleRunnerConfig
	logger    *log.Logger
	now       func() time.Time

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewScheduleRunner(processor *RecurringProcessor, config ScheduleRunnerConfig, logger *log.Logger) *ScheduleRunner {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	if config.Interval <= 0 {
		config.Interval = DefaultScheduleRunnerConfig().Interval
	}
	if config.PassTimeout <= 0 {
		config.PassTimeout = DefaultScheduleRunnerConfig().PassTimeout
	}
	return &ScheduleRunner{
		processor: processor,
		config:    config,
		logger:    logger.WithComponent(log.ComponentWorker),
		now:       time.Now,
	}
}

// Start runs one pass immediately and then one per interval until Stop is
// called or ctx is cancelled. It returns an error if already running.
func (r *ScheduleRunner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return fmt.Errorf("schedule runner is already running")
	}
	if r.processor == nil {
		return fmt.Errorf("schedule runner has no processor")
	}
	r.running = true
	r.stopCh = make(chan struct{})
	r.doneCh = make(chan struct{})

	go r.runLoop(ctx)

	r.logger.InfoContext(ctx, "Schedule runner started", "interval", r.config.Interval)
	return nil
}

// Stop signals the loop and waits for it to finish or for ctx to expire.
func (r *ScheduleRunner) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	stopCh, doneCh := r.stopCh, r.doneCh
	r.running = false
	r.mu.Unlock()

	close(stopCh)
	select {
	case <-doneCh:
		r.logger.InfoContext(ctx, "Schedule runner stopped gracefully")
		return nil
	case <-ctx.Done():
		r.logger.WarnContext(ctx, "Schedule runner stop timed out")
		return ctx.Err()
	}
}

func (r *ScheduleRunner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *ScheduleRunner) runLoop(ctx context.Context) {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	r.runPass(ctx)
	for {
		select {
		case <-r.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.runPass(ctx)
		}
	}
}

func (r *ScheduleRunner) runPass(ctx context.Context) {
	passCtx, cancel := context.WithTimeout(ctx, r.config.PassTimeout)
	defer cancel()

	start := time.Now()
	n, err := r.processor.AdvanceAll(passCtx, r.now())
	if err != nil {
		r.logger.ErrorContext(ctx, "Schedule pass failed", log.FieldError, err, "advanced", n)
		return
	}
	r.logger.InfoContext(ctx, "Schedule pass finished",
		"advanced", n,
		log.FieldDuration, time.Since(start).Milliseconds())
}
