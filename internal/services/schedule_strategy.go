// Package services provides business logic and orchestration services.
//
// This file implements the Strategy Pattern for recurring expense schedules.
// Each frequency type (daily, weekly, monthly, yearly) has its own strategy
// that computes the next due date from a reference day.

package services

import (
	"budgetflow/internal/core"
)

// ScheduleStrategy computes due dates for one recurrence frequency.
type ScheduleStrategy interface {
	// Next returns the first due date strictly after from. dueDay anchors
	// the day of month where the frequency supports it.
	Next(from core.Date, dueDay *int) core.Date
}

// DailySchedule implements ScheduleStrategy for daily recurring expenses.
type DailySchedule struct{}

// Next returns the following day.
func (DailySchedule) Next(from core.Date, _ *int) core.Date {
	return from.AddDays(1)
}

// WeeklySchedule implements ScheduleStrategy for weekly recurring expenses.
type WeeklySchedule struct{}

// Next returns the same weekday one week later.
func (WeeklySchedule) Next(from core.Date, _ *int) core.Date {
	return from.AddDays(7)
}

// MonthlySchedule implements ScheduleStrategy for monthly recurring expenses.
// Days past the end of a month clamp to its last day, so a due day of 31 lands
// on Apr 30 and Feb 28/29.
type MonthlySchedule struct{}

// Next returns the due day in from's month if it is still ahead, otherwise
// the due day of the following month. Without a due day it moves one month
// forward keeping the day of month.
func (MonthlySchedule) Next(from core.Date, dueDay *int) core.Date {
	if dueDay == nil {
		return addMonthsClamped(from, 1, from.Day())
	}
	candidate := core.NewDate(from.Year(), from.Month(), core.ClampDay(from.Year(), from.Month(), *dueDay))
	if candidate.After(from) {
		return candidate
	}
	return addMonthsClamped(from, 1, *dueDay)
}

// YearlySchedule implements ScheduleStrategy for yearly recurring expenses.
type YearlySchedule struct{}

// Next returns the same month and day one year later. Feb 29 becomes Feb 28
// in non-leap years.
func (YearlySchedule) Next(from core.Date, _ *int) core.Date {
	return addMonthsClamped(from, 12, from.Day())
}

// addMonthsClamped moves n months forward from d and places day in that month,
// clamped to the month length.
func addMonthsClamped(d core.Date, n, day int) core.Date {
	first := core.NewDate(d.Year(), d.Month()+n, 1)
	return core.NewDate(first.Year(), first.Month(), core.ClampDay(first.Year(), first.Month(), day))
}

// scheduleStrategies maps frequencies to their strategies.
var scheduleStrategies = map[core.Frequency]ScheduleStrategy{
	core.Daily:   DailySchedule{},
	core.Weekly:  WeeklySchedule{},
	core.Monthly: MonthlySchedule{},
	core.Yearly:  YearlySchedule{},
}

// GetScheduleStrategy returns the strategy for a frequency. Unknown
// frequencies get the monthly strategy.
func GetScheduleStrategy(frequency core.Frequency) ScheduleStrategy {
	if s, ok := scheduleStrategies[frequency]; ok {
		return s
	}
	return MonthlySchedule{}
}

// RegisterScheduleStrategy allows registering custom strategies for new frequency types.
func RegisterScheduleStrategy(frequency core.Frequency, strategy ScheduleStrategy) {
	scheduleStrategies[frequency] = strategy
}

// NextDueDate computes the next due date relative to today. The result is
// always strictly after today and depends only on the arguments. dueDay is
// ignored for frequencies other than monthly, including unknown ones.
func NextDueDate(today core.Date, frequency core.Frequency, dueDay *int) core.Date {
	if frequency != core.Monthly {
		dueDay = nil
	}
	return GetScheduleStrategy(frequency).Next(today, dueDay)
}

// IsDue reports whether a definition's due date has arrived.
func IsDue(re core.RecurringExpense, today core.Date) bool {
	return re.Active && !re.NextDueDate.After(today)
}

// AdvancePast steps a definition forward from its stored due date until the
// due date is strictly after today. Stepping from the stored date keeps the
// cadence (weekday, day of month) instead of restarting it from today.
func AdvancePast(re core.RecurringExpense, today core.Date) core.Date {
	next := re.NextDueDate
	if next.IsZero() {
		return NextDueDate(today, re.Frequency, re.DueDay)
	}
	anchor := scheduleAnchor(re)
	strategy := GetScheduleStrategy(re.Frequency)
	for !next.After(today) {
		next = strategy.Next(next, anchor)
	}
	return next
}

// UpcomingDueDates projects the next count due dates of a definition,
// starting at its stored due date.
func UpcomingDueDates(re core.RecurringExpense, count int) []core.Date {
	if count <= 0 || re.NextDueDate.IsZero() {
		return nil
	}
	anchor := scheduleAnchor(re)
	strategy := GetScheduleStrategy(re.Frequency)
	out := make([]core.Date, 0, count)
	next := re.NextDueDate
	for len(out) < count {
		out = append(out, next)
		next = strategy.Next(next, anchor)
	}
	return out
}

// scheduleAnchor returns the day of month that repeated monthly steps should
// keep. Without it a Jan 31 schedule would drift to the 28th after February.
func scheduleAnchor(re core.RecurringExpense) *int {
	if re.DueDay != nil {
		return re.DueDay
	}
	if re.Frequency == core.Monthly || !re.Frequency.IsValid() {
		day := re.NextDueDate.Day()
		return &day
	}
	return nil
}
