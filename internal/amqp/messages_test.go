package amqp

import (
	"testing"
	"time"

	"budgetflow/internal/core"
)

func TestExportRequestMessageJSON(t *testing.T) {
	before := time.Now().UTC()
	msg := NewExportRequestMessage(3, core.YearMonth{Year: 2025, Month: 1})
	if msg.RequestedAt.Before(before) {
		t.Errorf("RequestedAt %v should not be before %v", msg.RequestedAt, before)
	}

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	got, err := ExportRequestMessageFromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if got.HouseholdID != 3 || got.Period() != (core.YearMonth{Year: 2025, Month: 1}) {
		t.Errorf("unexpected message %+v", got)
	}
}

func TestExportRequestMessageValidate(t *testing.T) {
	tests := []struct {
		name    string
		msg     ExportRequestMessage
		wantErr bool
	}{
		{"valid - ok", ExportRequestMessage{HouseholdID: 1, Year: 2024, Month: 2}, false},
		{"missing household - error", ExportRequestMessage{Year: 2024, Month: 2}, true},
		{"month zero - error", ExportRequestMessage{HouseholdID: 1, Year: 2024}, true},
		{"year zero - error", ExportRequestMessage{HouseholdID: 1, Month: 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.msg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestScheduleAdvancedMessage(t *testing.T) {
	msg := NewScheduleAdvancedMessage(1, 9, core.NewDate(2024, 2, 29))
	if msg.NextDueDate != "2024-02-29" {
		t.Errorf("NextDueDate = %q", msg.NextDueDate)
	}
	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	got, err := ScheduleAdvancedMessageFromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	due, _ := got.DueDate()
	if !due.Equal(core.NewDate(2024, 2, 29)) || got.RecurringID != 9 {
		t.Errorf("unexpected message %+v", got)
	}

	if _, err := ScheduleAdvancedMessageFromJSON([]byte(`{"next_due_date":"2024-02-30"}`)); err == nil {
		t.Error("expected error for impossible date")
	}
	if _, err := ScheduleAdvancedMessageFromJSON([]byte(`not json`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
