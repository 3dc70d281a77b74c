package cache

import (
	"strconv"
)

// Report kinds used as the middle segment of a report key.
const (
	KindSummary  = "summary"
	KindForecast = "forecast"
	KindSBNL     = "sbnl"
	KindUpcoming = "upcoming"
)

// ReportKey builds the cache key of one household report. Keys of the same
// household share the HouseholdPrefix so they can be dropped together.
func ReportKey(householdID int64, kind, period string) string {
	return HouseholdPrefix(householdID) + kind + "|" + period
}

// HouseholdPrefix is the key prefix shared by every report of a household.
func HouseholdPrefix(householdID int64) string {
	return "h" + strconv.FormatInt(householdID, 10) + "|"
}
