package analyzer

import "time"

// NYSE/NASDAQ full-day closures, keyed by ET date
var usHolidays = map[string]string{
	"2024-01-01": "New Year's Day",
	"2024-01-15": "MLK Day",
	"2024-02-19": "Presidents Day",
	"2024-03-29": "Good Friday",
	"2024-05-27": "Memorial Day",
	"2024-06-19": "Juneteenth",
	"2024-07-04": "Independence Day",
	"2024-09-02": "Labor Day",
	"2024-11-28": "Thanksgiving",
	"2024-12-25": "Christmas",

	"2025-01-01": "New Year's Day",
	"2025-01-09": "National Day of Mourning",
	"2025-01-20": "MLK Day",
	"2025-02-17": "Presidents Day",
	"2025-04-18": "Good Friday",
	"2025-05-26": "Memorial Day",
	"2025-06-19": "Juneteenth",
	"2025-07-04": "Independence Day",
	"2025-09-01": "Labor Day",
	"2025-11-27": "Thanksgiving",
	"2025-12-25": "Christmas",

	"2026-01-01": "New Year's Day",
	"2026-01-19": "MLK Day",
	"2026-02-16": "Presidents Day",
	"2026-04-03": "Good Friday",
	"2026-05-25": "Memorial Day",
	"2026-06-19": "Juneteenth",
	"2026-07-03": "Independence Day (observed)",
	"2026-09-07": "Labor Day",
	"2026-11-26": "Thanksgiving",
	"2026-12-25": "Christmas",

	"2027-01-01": "New Year's Day",
	"2027-01-18": "MLK Day",
	"2027-02-15": "Presidents Day",
	"2027-03-26": "Good Friday",
	"2027-05-31": "Memorial Day",
	"2027-06-18": "Juneteenth (observed)",
	"2027-07-05": "Independence Day (observed)",
	"2027-09-06": "Labor Day",
	"2027-11-25": "Thanksgiving",
	"2027-12-24": "Christmas (observed)",
}

// USHoliday returns the name of the market holiday on date's calendar day
func USHoliday(date time.Time) (string, bool) {
	name, ok := usHolidays[date.Format("2006-01-02")]
	return name, ok
}

// ClosedReason returns why the US market has no regular session on date's
// calendar day, or "" for a trading day. Years without a holiday table
// only get the weekend check.
func ClosedReason(date time.Time) string {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return "weekend"
	}
	if name, ok := USHoliday(date); ok {
		return "holiday: " + name
	}
	return ""
}

// IsTradingDay reports whether date's calendar day has a regular session
func IsTradingDay(date time.Time) bool {
	return ClosedReason(date) == ""
}
