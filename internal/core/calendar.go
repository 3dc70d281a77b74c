package core

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the ISO date-only layout used for every stored and
// transmitted calendar day.
const DateLayout = "2006-01-02"

// MonthKeyLayout is the YYYY-MM key used to address a reporting month.
const MonthKeyLayout = "2006-01"

type (
	// Date is a calendar day. It is anchored at midnight UTC so its
	// Year/Month/Day never move with the process timezone.
	Date struct {
		time.Time
	}

	// DateRange is inclusive at both ends.
	DateRange struct {
		Start Date
		End   Date
	}

	// YearMonth addresses a single calendar month.
	YearMonth struct {
		Year  int
		Month int // 1-12
	}
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day t falls on in its own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// Today returns the calendar day of now in the process timezone.
func Today() Date {
	return DateOf(time.Now())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// AddDays returns the date n days later.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// YearMonth returns the month the date belongs to.
func (d Date) YearMonth() YearMonth {
	return YearMonth{Year: d.Year(), Month: d.Month()}
}

// Before reports whether d is an earlier calendar day than other.
func (d Date) Before(other Date) bool { return d.Time.Before(other.Time) }

// After reports whether d is a later calendar day than other.
func (d Date) After(other Date) bool { return d.Time.After(other.Time) }

// Equal reports whether both dates are the same calendar day.
func (d Date) Equal(other Date) bool { return d.Time.Equal(other.Time) }

// ParseLocalDate reads a YYYY-MM-DD string as a calendar day. A full ISO
// timestamp is accepted too: only its date part is used and the time of day
// and zone are discarded, so "2025-11-13T23:00:00-05:00" is 13 November.
// Anything after the date must start with 'T' or a space.
func ParseLocalDate(s string) (Date, bool) {
	if len(s) < len(DateLayout) {
		return Date{}, false
	}
	if len(s) > len(DateLayout) && s[len(DateLayout)] != 'T' && s[len(DateLayout)] != ' ' {
		return Date{}, false
	}
	s = s[:len(DateLayout)]
	if s[4] != '-' || s[7] != '-' {
		return Date{}, false
	}
	year, okY := atoiDigits(s[0:4])
	month, okM := atoiDigits(s[5:7])
	day, okD := atoiDigits(s[8:10])
	if !okY || !okM || !okD {
		return Date{}, false
	}
	if month < 1 || month > 12 || day < 1 || day > DaysInMonth(year, month) {
		return Date{}, false
	}
	return NewDate(year, month, day), true
}

// DaysInMonth returns the number of days in a 1-indexed month.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDay returns day limited to the length of the given month.
func ClampDay(year, month, day int) int {
	if last := DaysInMonth(year, month); day > last {
		return last
	}
	if day < 1 {
		return 1
	}
	return day
}

// MonthRange returns the first and last day of a 1-indexed month.
func MonthRange(year, month int) DateRange {
	first := NewDate(year, month, 1)
	return DateRange{
		Start: first,
		End:   NewDate(first.Year(), first.Month(), DaysInMonth(first.Year(), first.Month())),
	}
}

// YearRange returns January 1 through December 31.
func YearRange(year int) DateRange {
	return DateRange{Start: NewDate(year, 1, 1), End: NewDate(year, 12, 31)}
}

// IsWithinRange reports whether d lies between start and end, both inclusive.
func IsWithinRange(d, start, end Date) bool {
	return !d.Before(start) && !d.After(end)
}

// Contains reports whether d lies in the range.
func (r DateRange) Contains(d Date) bool {
	return IsWithinRange(d, r.Start, r.End)
}

// Validate checks both bounds are set and ordered.
func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return errors.New("date range bounds cannot be zero")
	}
	if r.End.Before(r.Start) {
		return errors.New("date range end is before start")
	}
	return nil
}

func (r DateRange) String() string {
	return r.Start.String() + ".." + r.End.String()
}

// MonthsInRange lists every month from start to end inclusive, oldest first.
// It returns nil when the start month is after the end month.
func MonthsInRange(startYear, startMonth, endYear, endMonth int) []YearMonth {
	cur := YearMonth{Year: startYear, Month: startMonth}.normalize()
	end := YearMonth{Year: endYear, Month: endMonth}.normalize()
	var out []YearMonth
	for !end.Before(cur) {
		out = append(out, cur)
		cur = cur.Next()
	}
	return out
}

// FormatMonthYear returns the YYYY-MM key for a month.
func FormatMonthYear(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// ParseMonthYearKey parses a YYYY-MM key. Malformed keys and months outside
// 1-12 report false.
func ParseMonthYearKey(s string) (YearMonth, bool) {
	if len(s) != len(MonthKeyLayout) || s[4] != '-' {
		return YearMonth{}, false
	}
	year, ok := atoiDigits(s[:4])
	if !ok {
		return YearMonth{}, false
	}
	month, ok := atoiDigits(s[5:])
	if !ok || month < 1 || month > 12 {
		return YearMonth{}, false
	}
	return YearMonth{Year: year, Month: month}, true
}

// atoiDigits parses s as a non-negative decimal made only of ASCII digits.
// Signs, spaces and underscores are rejected.
func atoiDigits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

func (ym YearMonth) String() string {
	return FormatMonthYear(ym.Year, ym.Month)
}

// Range returns the calendar days of the month.
func (ym YearMonth) Range() DateRange {
	return MonthRange(ym.Year, ym.Month)
}

// Next returns the following month.
func (ym YearMonth) Next() YearMonth {
	if ym.Month >= 12 {
		return YearMonth{Year: ym.Year + 1, Month: 1}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

// MonthsUntil counts the months from ym to end inclusive. It is zero or
// negative when end is before ym.
func (ym YearMonth) MonthsUntil(end YearMonth) int {
	return (end.Year-ym.Year)*12 + end.Month - ym.Month + 1
}

// Before reports whether ym is an earlier month than other.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

func (ym YearMonth) normalize() YearMonth {
	d := NewDate(ym.Year, ym.Month, 1)
	return YearMonth{Year: d.Year(), Month: d.Month()}
}
