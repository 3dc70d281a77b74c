package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"budgetflow/internal/core"
)

// ExportRequestMessage asks the export worker to write one month's report for
// a household. The worker rebuilds the report from the ledger.
type ExportRequestMessage struct {
	HouseholdID int64     `json:"household_id"`
	Year        int       `json:"year"`
	Month       int       `json:"month"`
	RequestedAt time.Time `json:"requested_at"`
}

// ScheduleAdvancedMessage announces a recurring expense's new due date.
type ScheduleAdvancedMessage struct {
	HouseholdID int64     `json:"household_id"`
	RecurringID int64     `json:"recurring_id"`
	NextDueDate string    `json:"next_due_date"` // YYYY-MM-DD
	Timestamp   time.Time `json:"timestamp"`
}

func NewExportRequestMessage(householdID int64, ym core.YearMonth) *ExportRequestMessage {
	return &ExportRequestMessage{
		HouseholdID: householdID,
		Year:        ym.Year,
		Month:       ym.Month,
		RequestedAt: time.Now().UTC(),
	}
}

func NewScheduleAdvancedMessage(householdID, recurringID int64, next core.Date) *ScheduleAdvancedMessage {
	return &ScheduleAdvancedMessage{
		HouseholdID: householdID,
		RecurringID: recurringID,
		NextDueDate: next.String(),
		Timestamp:   time.Now().UTC(),
	}
}

// Period returns the requested month.
func (m *ExportRequestMessage) Period() core.YearMonth {
	return core.YearMonth{Year: m.Year, Month: m.Month}
}

func (m *ExportRequestMessage) Validate() error {
	if m.HouseholdID <= 0 {
		return core.ErrMissingHousehold
	}
	if m.Month < 1 || m.Month > 12 {
		return core.ErrInvalidMonth
	}
	if m.Year < 1 {
		return errors.New("invalid year")
	}
	return nil
}

// DueDate parses NextDueDate.
func (m *ScheduleAdvancedMessage) DueDate() (core.Date, error) {
	d, ok := core.ParseLocalDate(m.NextDueDate)
	if !ok {
		return core.Date{}, fmt.Errorf("invalid next_due_date %q", m.NextDueDate)
	}
	return d, nil
}

func (m *ExportRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func (m *ScheduleAdvancedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExportRequestMessageFromJSON decodes and validates an export request.
func ExportRequestMessageFromJSON(data []byte) (*ExportRequestMessage, error) {
	var msg ExportRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, fmt.Errorf("validate export request: %w", err)
	}
	return &msg, nil
}

func ScheduleAdvancedMessageFromJSON(data []byte) (*ScheduleAdvancedMessage, error) {
	var msg ScheduleAdvancedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if _, err := msg.DueDate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
