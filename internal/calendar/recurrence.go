package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"
)

// Occurrences expands a recurring record into the concrete dates that fall
// inside [from, to], both inclusive. Dates are midnight in from's location.
// A 02-29 record only occurs in leap years.
func Occurrences(record HolidayRecord, from, to time.Time) ([]time.Time, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("occurrences: range end %s is before start %s",
			to.Format("2006-01-02"), from.Format("2006-01-02"))
	}

	month, day, err := ParseMonthDay(record.MonthDay)
	if err != nil {
		return nil, err
	}

	loc := from.Location()
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:       rrule.YEARLY,
		Dtstart:    time.Date(from.Year(), time.January, 1, 0, 0, 0, 0, loc),
		Bymonth:    []int{int(month)},
		Bymonthday: []int{day},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build recurrence for %s: %w", record.Name, err)
	}

	return rule.Between(from, to, true), nil
}

// OccurrencesInYear lists, in date order, each table entry's date in year
// together with the record. Records that do not occur in year are skipped.
func OccurrencesInYear(table []HolidayRecord, year int, loc *time.Location) ([]Occurrence, error) {
	if loc == nil {
		loc = time.Local
	}
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, loc)

	out := []Occurrence{}
	for _, record := range table {
		dates, err := Occurrences(record, from, to)
		if err != nil {
			return nil, err
		}
		for _, d := range dates {
			out = append(out, Occurrence{Date: d, Holiday: record})
		}
	}

	sortOccurrences(out)
	return out, nil
}

// Occurrence is a holiday pinned to a concrete date
type Occurrence struct {
	Date    time.Time     `json:"date"`
	Holiday HolidayRecord `json:"holiday"`
}

func sortOccurrences(occ []Occurrence) {
	sort.SliceStable(occ, func(i, j int) bool {
		return occ[i].Date.Before(occ[j].Date)
	})
}
