// Package overlap computes which hours of a day are working hours in every
// selected timezone at once.
//
// All hours are "base hours": the wall-clock hours 0..23 of the given date in
// the date's own location. That location is the reference frame; every zone in
// a call is evaluated against the same instants, so only the relative offsets
// matter. Each conversion uses the zone's real offset at that instant, which
// means DST transition days may map to irregular local hours.
package overlap

import (
	"fmt"
	"time"

	"github.com/username/global-calendar/internal/calendar"
	"github.com/username/global-calendar/internal/zones"
	"github.com/username/global-calendar/pkg/dateutil"
)

// NoOverlap is what FormatHourRange renders for an empty hour set
const NoOverlap = "No overlap"

// Result bundles what a calendar cell needs for one date
type Result struct {
	Date     time.Time                `json:"date"`
	Hours    []int                    `json:"hours"`
	Holidays []calendar.HolidayRecord `json:"holidays"`
}

// IsHoliday reports whether any holiday matched
func (r Result) IsHoliday() bool {
	return len(r.Holidays) > 0
}

// ComputeOverlapHours returns, in ascending order, the base hours of date at
// which every zone's local hour lies inside window. An empty zone list yields
// an empty result.
func ComputeOverlapHours(date time.Time, refs []zones.TimeZoneRef, window WorkingHoursWindow) ([]int, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}

	hours := []int{}
	if len(refs) == 0 {
		return hours, nil
	}

	locs, err := resolveAll(refs)
	if err != nil {
		return nil, err
	}

	for hour := 0; hour < 24; hour++ {
		instant := dateutil.AtHour(date, hour)

		allInWorkingHours := true
		for _, loc := range locs {
			if !window.Contains(instant.In(loc).Hour()) {
				allInWorkingHours = false
				break
			}
		}

		if allInWorkingHours {
			hours = append(hours, hour)
		}
	}

	return hours, nil
}

// FormatHourRange renders hours as "HH:00 - HH:00" using the first element and
// the last element plus one. Gaps inside the set are not detected; a gapped
// set renders as one block.
func FormatHourRange(hours []int) string {
	if len(hours) == 0 {
		return NoOverlap
	}
	start := hours[0]
	end := hours[len(hours)-1] + 1
	return fmt.Sprintf("%02d:00 - %02d:00", start, end)
}

// ZoneLocalWorkingHours maps each base hour in window to ref's local hour and
// returns them as "HH:00" strings. The result always has window.Len() entries.
func ZoneLocalWorkingHours(date time.Time, ref zones.TimeZoneRef, window WorkingHoursWindow) ([]string, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}

	loc, err := Resolve(ref.IANAZone)
	if err != nil {
		return nil, fmt.Errorf("zone %s: %w", ref.DisplayName, err)
	}

	out := make([]string, 0, window.Len())
	for hour := window.StartHour; hour < window.EndHour; hour++ {
		local := dateutil.AtHour(date, hour).In(loc)
		out = append(out, fmt.Sprintf("%02d:00", local.Hour()))
	}
	return out, nil
}

// Analyze computes the overlap hours of date together with the holidays that
// match the zones' countries.
func Analyze(date time.Time, refs []zones.TimeZoneRef, window WorkingHoursWindow, table []calendar.HolidayRecord) (Result, error) {
	hours, err := ComputeOverlapHours(date, refs, window)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Date:     dateutil.StartOfDay(date),
		Hours:    hours,
		Holidays: calendar.MatchHolidays(date, zones.CountryCodes(refs), table),
	}, nil
}
