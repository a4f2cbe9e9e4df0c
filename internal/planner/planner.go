package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/username/global-calendar/internal/calendar"
	"github.com/username/global-calendar/internal/overlap"
	"github.com/username/global-calendar/internal/zones"
	"github.com/username/global-calendar/pkg/dateutil"
	"go.uber.org/zap"
)

// MaxZones is the largest zone selection the planner accepts
const MaxZones = 3

var (
	ErrTooManyZones  = errors.New("too many zones selected")
	ErrDuplicateZone = errors.New("zone selected twice")
)

// AppointmentCounter reports how many appointments fall on a date
type AppointmentCounter interface {
	CountOn(date time.Time) int
}

// Planner builds calendar views on top of the overlap engine
type Planner struct {
	source       calendar.Source
	window       overlap.WorkingHoursWindow
	location     *time.Location
	appointments AppointmentCounter
	logger       *zap.Logger
}

// NewPlanner creates a new planner.
// loc is the reference frame for base hours and grid dates; nil means time.Local.
func NewPlanner(source calendar.Source, window overlap.WorkingHoursWindow, loc *time.Location, logger *zap.Logger) (*Planner, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.Local
	}

	return &Planner{
		source:   source,
		window:   window,
		location: loc,
		logger:   logger,
	}, nil
}

// WithAppointments attaches an appointment counter used for cell badges
func (p *Planner) WithAppointments(counter AppointmentCounter) *Planner {
	p.appointments = counter
	return p
}

// Window returns the configured working-hours window
func (p *Planner) Window() overlap.WorkingHoursWindow {
	return p.window
}

// Location returns the reference frame
func (p *Planner) Location() *time.Location {
	return p.location
}

// ValidateSelection checks the zone selection limits
func ValidateSelection(refs []zones.TimeZoneRef) error {
	if len(refs) > MaxZones {
		return fmt.Errorf("%w: %d, at most %d", ErrTooManyZones, len(refs), MaxZones)
	}
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		if seen[ref.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateZone, ref.DisplayName)
		}
		seen[ref.ID] = true
	}
	return nil
}

// Holidays returns the holidays on date for the zones' countries
func (p *Planner) Holidays(ctx context.Context, date time.Time, refs []zones.TimeZoneRef) ([]calendar.HolidayRecord, error) {
	table, err := p.source.Holidays(ctx, date.Year())
	if err != nil {
		return nil, fmt.Errorf("failed to load holidays: %w", err)
	}
	return calendar.MatchHolidays(date, zones.CountryCodes(refs), table), nil
}

// HolidaysInYear lists the concrete holiday dates of year for the zones' countries
func (p *Planner) HolidaysInYear(ctx context.Context, year int, refs []zones.TimeZoneRef) ([]calendar.Occurrence, error) {
	table, err := p.source.Holidays(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load holidays: %w", err)
	}

	codes := zones.CountryCodes(refs)
	relevant := []calendar.HolidayRecord{}
	for _, h := range table {
		if len(codes) == 0 || h.HasAnyCountry(codes) {
			relevant = append(relevant, h)
		}
	}

	return calendar.OccurrencesInYear(relevant, year, p.location)
}

// inFrame re-anchors date's calendar day in the planner's reference frame
func (p *Planner) inFrame(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, p.location)
}

// AnalyzeDate builds the working-hours summary shown before an appointment
// is created on date.
func (p *Planner) AnalyzeDate(ctx context.Context, date time.Time, refs []zones.TimeZoneRef) (*DayAnalysis, error) {
	if err := ValidateSelection(refs); err != nil {
		return nil, err
	}
	date = p.inFrame(date)

	table, err := p.source.Holidays(ctx, date.Year())
	if err != nil {
		return nil, fmt.Errorf("failed to load holidays: %w", err)
	}

	result, err := overlap.Analyze(date, refs, p.window, table)
	if err != nil {
		return nil, err
	}

	analysis := &DayAnalysis{
		Date:         date,
		Window:       p.window,
		OverlapHours: result.Hours,
		Range:        overlap.FormatHourRange(result.Hours),
		Holidays:     result.Holidays,
		Zones:        make([]ZoneHours, 0, len(refs)),
	}

	for _, ref := range refs {
		hours, err := overlap.ZoneLocalWorkingHours(date, ref, p.window)
		if err != nil {
			return nil, err
		}
		analysis.Zones = append(analysis.Zones, ZoneHours{Zone: ref, Hours: hours})
	}

	p.logger.Debug("Date analysed",
		zap.String("date", date.Format("2006-01-02")),
		zap.Int("zones", len(refs)),
		zap.Int("overlap_hours", len(result.Hours)),
		zap.Int("holidays", len(result.Holidays)))

	return analysis, nil
}

// dayCell computes one populated calendar cell
func (p *Planner) dayCell(date time.Time, refs []zones.TimeZoneRef, table []calendar.HolidayRecord, now time.Time) (*DayCell, error) {
	result, err := overlap.Analyze(date, refs, p.window, table)
	if err != nil {
		return nil, err
	}

	cell := &DayCell{
		Date:         date,
		Day:          date.Day(),
		OverlapHours: result.Hours,
		Holidays:     result.Holidays,
		IsToday:      dateutil.IsSameDay(date, now.In(p.location)),
		IsPast:       dateutil.IsPast(date, now.In(p.location)),
	}
	if p.appointments != nil {
		cell.Appointments = p.appointments.CountOn(date)
	}

	isHoliday := result.IsHoliday()
	cell.Selectable = !cell.IsPast && !isHoliday
	cell.ShowOverlapBadge = !isHoliday && !cell.IsPast && len(refs) > 1 && len(result.Hours) > 0

	return cell, nil
}

// MonthGrid builds the 6x7 Sunday-start grid for one month.
// now decides which cells are today or in the past.
func (p *Planner) MonthGrid(ctx context.Context, year int, month time.Month, refs []zones.TimeZoneRef, now time.Time) (*MonthGrid, error) {
	if err := ValidateSelection(refs); err != nil {
		return nil, err
	}

	table, err := p.source.Holidays(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load holidays: %w", err)
	}

	return p.monthGrid(year, month, refs, table, now)
}

func (p *Planner) monthGrid(year int, month time.Month, refs []zones.TimeZoneRef, table []calendar.HolidayRecord, now time.Time) (*MonthGrid, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, p.location)
	start := dateutil.StartOfWeek(first, time.Sunday)

	grid := &MonthGrid{
		Year:  year,
		Month: month,
		Name:  month.String(),
	}

	for i := range grid.Cells {
		date := start.AddDate(0, 0, i)
		if date.Month() != month {
			continue
		}

		cell, err := p.dayCell(date, refs, table, now)
		if err != nil {
			return nil, err
		}
		grid.Cells[i] = cell

		if len(cell.Holidays) > 0 {
			grid.HolidayDays++
		} else if len(cell.OverlapHours) > 0 {
			grid.OverlapDays++
		}
	}

	return grid, nil
}

// YearGrid builds all twelve month grids of year
func (p *Planner) YearGrid(ctx context.Context, year int, refs []zones.TimeZoneRef, now time.Time) ([]*MonthGrid, error) {
	if err := ValidateSelection(refs); err != nil {
		return nil, err
	}

	table, err := p.source.Holidays(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load holidays: %w", err)
	}

	months := make([]*MonthGrid, 0, 12)
	for m := time.January; m <= time.December; m++ {
		grid, err := p.monthGrid(year, m, refs, table, now)
		if err != nil {
			return nil, err
		}
		months = append(months, grid)
	}

	p.logger.Info("Year grid built",
		zap.Int("year", year),
		zap.Int("zones", len(refs)),
		zap.Int("holidays", len(table)))

	return months, nil
}

// Week builds the Sunday-start seven-day strip around date
func (p *Planner) Week(ctx context.Context, date time.Time, refs []zones.TimeZoneRef, now time.Time) ([]*DayCell, error) {
	if err := ValidateSelection(refs); err != nil {
		return nil, err
	}

	days := dateutil.WeekDays(p.inFrame(date), time.Sunday)

	// a week can straddle new year
	tables := make(map[int][]calendar.HolidayRecord, 2)
	cells := make([]*DayCell, 0, len(days))
	for _, day := range days {
		table, ok := tables[day.Year()]
		if !ok {
			var err error
			table, err = p.source.Holidays(ctx, day.Year())
			if err != nil {
				return nil, fmt.Errorf("failed to load holidays: %w", err)
			}
			tables[day.Year()] = table
		}

		cell, err := p.dayCell(day, refs, table, now)
		if err != nil {
			return nil, err
		}
		cells = append(cells, cell)
	}

	return cells, nil
}
