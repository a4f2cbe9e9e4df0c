package dateutil

import (
	"fmt"
	"time"
)

// StartOfDay returns midnight of the given date in the date's own location
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// AtHour returns the given date at hh:00:00 in the date's own location
func AtHour(date time.Time, hour int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, date.Location())
}

// StartOfWeek returns the first day of the week containing date.
// weekStart selects the first weekday (time.Sunday for US-style grids).
func StartOfWeek(date time.Time, weekStart time.Weekday) time.Time {
	offset := (int(date.Weekday()) - int(weekStart) + 7) % 7
	return StartOfDay(date.AddDate(0, 0, -offset))
}

// WeekDays returns the seven consecutive days starting at StartOfWeek
func WeekDays(date time.Time, weekStart time.Weekday) []time.Time {
	first := StartOfWeek(date, weekStart)
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = first.AddDate(0, 0, i)
	}
	return days
}

// DaysInMonth returns the number of days in the given month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthDay formats date as "MM-DD" (1-based month, zero padded)
func MonthDay(date time.Time) string {
	return fmt.Sprintf("%02d-%02d", int(date.Month()), date.Day())
}

// IsSameDay returns true if two dates are on the same calendar day
func IsSameDay(date1, date2 time.Time) bool {
	return date1.Year() == date2.Year() &&
		date1.Month() == date2.Month() &&
		date1.Day() == date2.Day()
}

// IsPast reports whether date falls on a day before now's day.
// The date's wall-clock day is compared against now's day.
func IsPast(date, now time.Time) bool {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	return d.Before(StartOfDay(now))
}

// ParseDate parses a date string in one of the supported layouts.
// The result is placed in loc; a nil loc means time.Local.
func ParseDate(dateStr string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}

	formats := []string{
		"2006-01-02",
		"02.01.2006",
		"2006-01-02T15:04:05",
	}

	for _, format := range formats {
		if t, err := time.ParseInLocation(format, dateStr, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported date format: %q", dateStr)
}

// Today returns today's date (start of day) in the local zone
func Today() time.Time {
	return StartOfDay(time.Now())
}
