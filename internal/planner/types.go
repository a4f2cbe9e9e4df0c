package planner

import (
	"time"

	"github.com/username/global-calendar/internal/calendar"
	"github.com/username/global-calendar/internal/overlap"
	"github.com/username/global-calendar/internal/zones"
)

// DayCell represents one populated day of a calendar view
type DayCell struct {
	Date             time.Time                `json:"date"`
	Day              int                      `json:"day"`
	OverlapHours     []int                    `json:"overlap_hours"`
	Holidays         []calendar.HolidayRecord `json:"holidays,omitempty"`
	IsToday          bool                     `json:"is_today"`
	IsPast           bool                     `json:"is_past"`
	Selectable       bool                     `json:"selectable"`
	ShowOverlapBadge bool                     `json:"show_overlap_badge"`
	Appointments     int                      `json:"appointments"`
}

// IsHoliday reports whether any selected country observes a holiday
func (c *DayCell) IsHoliday() bool {
	return len(c.Holidays) > 0
}

// MonthGrid represents a Sunday-start 6x7 month grid.
// Cells outside the month are nil.
type MonthGrid struct {
	Year        int          `json:"year"`
	Month       time.Month   `json:"month"`
	Name        string       `json:"name"`
	Cells       [42]*DayCell `json:"cells"`
	OverlapDays int          `json:"overlap_days"`
	HolidayDays int          `json:"holiday_days"`
}

// ZoneHours is one zone's local rendering of the working-hours window
type ZoneHours struct {
	Zone  zones.TimeZoneRef `json:"zone"`
	Hours []string          `json:"hours"`
}

// DayAnalysis is the working-hours summary for a single date
type DayAnalysis struct {
	Date         time.Time                  `json:"date"`
	Window       overlap.WorkingHoursWindow `json:"window"`
	OverlapHours []int                      `json:"overlap_hours"`
	Range        string                     `json:"range"`
	Zones        []ZoneHours                `json:"zones"`
	Holidays     []calendar.HolidayRecord   `json:"holidays,omitempty"`
}
