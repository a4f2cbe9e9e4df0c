package calendar

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/username/global-calendar/pkg/dateutil"
)

// HolidayRecord is a recurring, year-agnostic public holiday
type HolidayRecord struct {
	Name      string   `json:"name"`
	MonthDay  string   `json:"date"` // "MM-DD"
	Countries []string `json:"countries"`
}

// HasAnyCountry reports whether the record applies to any of the given codes
func (h HolidayRecord) HasAnyCountry(codes []string) bool {
	for _, c := range h.Countries {
		for _, code := range codes {
			if c == code {
				return true
			}
		}
	}
	return false
}

// Month returns the record's month and day
func (h HolidayRecord) Month() (time.Month, int) {
	month, day, _ := ParseMonthDay(h.MonthDay)
	return month, day
}

// Source provides the holiday table for a given year
type Source interface {
	// Holidays returns the records in effect for year, in table order
	Holidays(ctx context.Context, year int) ([]HolidayRecord, error)
}

// MatchHolidays returns every record in table whose month/day equals date's
// month/day and whose countries intersect countryCodes. The year is ignored.
func MatchHolidays(date time.Time, countryCodes []string, table []HolidayRecord) []HolidayRecord {
	key := dateutil.MonthDay(date)

	matches := []HolidayRecord{}
	for _, holiday := range table {
		if holiday.MonthDay == key && holiday.HasAnyCountry(countryCodes) {
			matches = append(matches, holiday)
		}
	}
	return matches
}

// Names joins the holiday names with ", " (tooltip text for a calendar cell)
func Names(records []HolidayRecord) string {
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Name
	}
	return strings.Join(names, ", ")
}

// ParseMonthDay parses and validates an "MM-DD" key
func ParseMonthDay(s string) (time.Month, int, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, 0, fmt.Errorf("invalid month-day %q: want MM-DD", s)
	}

	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid month in %q", s)
	}

	day, err := strconv.Atoi(parts[1])
	// 2024 is a leap year so 02-29 is accepted
	if err != nil || day < 1 || day > dateutil.DaysInMonth(2024, time.Month(month)) {
		return 0, 0, fmt.Errorf("invalid day in %q", s)
	}

	return time.Month(month), day, nil
}

func copyRecords(records []HolidayRecord) []HolidayRecord {
	out := make([]HolidayRecord, len(records))
	for i, r := range records {
		out[i] = HolidayRecord{
			Name:      r.Name,
			MonthDay:  r.MonthDay,
			Countries: append([]string(nil), r.Countries...),
		}
	}
	return out
}
