package domain

import (
	"time"

	"cloud.google.com/go/civil"
)

// Today returns the calendar date of now in loc.
func Today(now time.Time, loc *time.Location) civil.Date {
	if loc == nil {
		loc = time.UTC
	}
	return civil.DateOf(now.In(loc))
}

// AgeInDays is the number of calendar days from date to today.
// A unit dated today has age 0; future dates yield a negative age.
func AgeInDays(today, date civil.Date) int {
	return today.DaysSince(date)
}

// IsSunday reports whether date falls on a Sunday.
func IsSunday(date civil.Date) bool {
	return date.In(time.UTC).Weekday() == time.Sunday
}

// DaysInMonth returns the number of days of month in year, leap years included.
func DaysInMonth(year int, month time.Month) int {
	// day 0 of the next month normalises to the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsLastDayOfMonth reports whether date is the final day of its month.
func IsLastDayOfMonth(date civil.Date) bool {
	return date.Day == DaysInMonth(date.Year, date.Month)
}
