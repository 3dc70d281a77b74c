package worker

import (
	"context"
	"errors"
	"fmt"

	"budgetflow/internal/amqp"
	"budgetflow/internal/log"
)

// CacheInvalidator drops cached reports for a household.
type CacheInvalidator interface {
	Invalidate(householdID int64)
}

// ScheduleListener drops a household's cached reports when another process
// advances one of its recurring schedules.
type ScheduleListener struct {
	reports CacheInvalidator
	logger  *log.Logger
}

func NewScheduleListener(reports CacheInvalidator, logger *log.Logger) *ScheduleListener {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ScheduleListener{
		reports: reports,
		logger:  logger.WithComponent(log.ComponentWorker),
	}
}

// HandleScheduleAdvanced processes a single schedule-advanced event.
func (l *ScheduleListener) HandleScheduleAdvanced(ctx context.Context, msg *amqp.ScheduleAdvancedMessage) error {
	if msg == nil {
		return errors.New("nil schedule event")
	}
	next, err := msg.DueDate()
	if err != nil {
		return fmt.Errorf("invalid schedule event: %w", err)
	}
	l.reports.Invalidate(msg.HouseholdID)
	l.logger.DebugContext(ctx, "Schedule advanced elsewhere, cache dropped",
		log.FieldHouseholdID, msg.HouseholdID,
		"recurring_id", msg.RecurringID,
		"next_due", next.String())
	return nil
}
