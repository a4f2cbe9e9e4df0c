package planner

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/username/global-calendar/internal/calendar"
	"github.com/username/global-calendar/internal/overlap"
	"github.com/username/global-calendar/internal/zones"
	"go.uber.org/zap"
)

type countingSource struct {
	mu    sync.Mutex
	years []int
}

func (s *countingSource) Holidays(ctx context.Context, year int) ([]calendar.HolidayRecord, error) {
	s.mu.Lock()
	s.years = append(s.years, year)
	s.mu.Unlock()
	return calendar.Builtin(), nil
}

type brokenSource struct{}

func (brokenSource) Holidays(ctx context.Context, year int) ([]calendar.HolidayRecord, error) {
	return nil, errors.New("unavailable")
}

type fixedCounter map[string]int

func (c fixedCounter) CountOn(date time.Time) int {
	return c[date.Format("2006-01-02")]
}

func mustZones(t *testing.T, names ...string) []zones.TimeZoneRef {
	t.Helper()
	refs, err := zones.LookupMany(names)
	if err != nil {
		t.Fatalf("LookupMany(%v) error = %v", names, err)
	}
	return refs
}

func newTestPlanner(t *testing.T, source calendar.Source) *Planner {
	t.Helper()
	p, err := NewPlanner(source, overlap.DefaultWindow, time.UTC, zap.NewNop())
	if err != nil {
		t.Fatalf("NewPlanner() error = %v", err)
	}
	return p
}

func TestNewPlanner_InvalidWindow(t *testing.T) {
	_, err := NewPlanner(calendar.NewStaticSource(), overlap.WorkingHoursWindow{StartHour: 17, EndHour: 9}, time.UTC, zap.NewNop())
	if !errors.Is(err, overlap.ErrInvalidWindow) {
		t.Errorf("NewPlanner() error = %v, want ErrInvalidWindow", err)
	}
}

func TestNewPlanner_DefaultsToLocal(t *testing.T) {
	p, err := NewPlanner(calendar.NewStaticSource(), overlap.DefaultWindow, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("NewPlanner() error = %v", err)
	}
	if p.Location() != time.Local {
		t.Errorf("Location() = %v, want Local", p.Location())
	}
}

func TestValidateSelection(t *testing.T) {
	tests := []struct {
		name    string
		zones   []string
		wantErr error
	}{
		{"empty", nil, nil},
		{"three zones", []string{"New York", "London", "Tokyo"}, nil},
		{"four zones", []string{"New York", "London", "Tokyo", "Paris"}, ErrTooManyZones},
		{"duplicate", []string{"London", "London"}, ErrDuplicateZone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var refs []zones.TimeZoneRef
			if len(tt.zones) > 0 {
				refs = mustZones(t, tt.zones...)
			}
			err := ValidateSelection(refs)
			if tt.wantErr == nil && err != nil {
				t.Errorf("ValidateSelection() error = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSelection() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMonthGrid_December(t *testing.T) {
	p := newTestPlanner(t, calendar.NewStaticSource())
	p.WithAppointments(fixedCounter{"2025-12-11": 2})

	refs := mustZones(t, "New York", "London")
	now := time.Date(2025, 12, 10, 12, 0, 0, 0, time.UTC)

	grid, err := p.MonthGrid(context.Background(), 2025, time.December, refs, now)
	if err != nil {
		t.Fatalf("MonthGrid() error = %v", err)
	}

	if grid.Name != "December" {
		t.Errorf("Name = %q, want December", grid.Name)
	}
	// 2025-12-01 is a Monday
	if grid.Cells[0] != nil {
		t.Errorf("Cells[0] = %+v, want padding", grid.Cells[0])
	}
	for day := 1; day <= 31; day++ {
		cell := grid.Cells[day]
		if cell == nil || cell.Day != day {
			t.Fatalf("Cells[%d] = %+v, want day %d", day, cell, day)
		}
	}
	for i := 32; i < len(grid.Cells); i++ {
		if grid.Cells[i] != nil {
			t.Errorf("Cells[%d] = %+v, want padding", i, grid.Cells[i])
		}
	}

	past := grid.Cells[9]
	if !past.IsPast || past.Selectable || past.ShowOverlapBadge {
		t.Errorf("Dec 9 = %+v, want past and not selectable", past)
	}

	today := grid.Cells[10]
	if !today.IsToday || today.IsPast || !today.Selectable {
		t.Errorf("Dec 10 = %+v, want today and selectable", today)
	}

	next := grid.Cells[11]
	if !reflect.DeepEqual(next.OverlapHours, []int{14, 15, 16}) {
		t.Errorf("Dec 11 overlap = %v, want [14 15 16]", next.OverlapHours)
	}
	if !next.ShowOverlapBadge || next.Appointments != 2 {
		t.Errorf("Dec 11 = %+v, want badge and 2 appointments", next)
	}

	christmas := grid.Cells[25]
	if !christmas.IsHoliday() || christmas.Selectable || christmas.ShowOverlapBadge {
		t.Errorf("Dec 25 = %+v, want holiday and not selectable", christmas)
	}
	if calendar.Names(christmas.Holidays) != "Christmas Day" {
		t.Errorf("Dec 25 holidays = %q", calendar.Names(christmas.Holidays))
	}

	if grid.HolidayDays != 2 {
		t.Errorf("HolidayDays = %d, want 2", grid.HolidayDays)
	}
	if grid.OverlapDays != 29 {
		t.Errorf("OverlapDays = %d, want 29", grid.OverlapDays)
	}
}

func TestMonthGrid_SingleZoneHasNoBadge(t *testing.T) {
	p := newTestPlanner(t, calendar.NewStaticSource())
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	grid, err := p.MonthGrid(context.Background(), 2025, time.March, mustZones(t, "London"), now)
	if err != nil {
		t.Fatalf("MonthGrid() error = %v", err)
	}
	for _, cell := range grid.Cells {
		if cell != nil && cell.ShowOverlapBadge {
			t.Fatalf("cell %d shows a badge with one zone", cell.Day)
		}
	}
}

func TestMonthGrid_TooManyZones(t *testing.T) {
	p := newTestPlanner(t, calendar.NewStaticSource())
	refs := mustZones(t, "New York", "London", "Tokyo", "Sydney")

	_, err := p.MonthGrid(context.Background(), 2025, time.March, refs, time.Now())
	if !errors.Is(err, ErrTooManyZones) {
		t.Errorf("MonthGrid() error = %v, want ErrTooManyZones", err)
	}
}

func TestYearGrid(t *testing.T) {
	source := &countingSource{}
	p := newTestPlanner(t, source)
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	months, err := p.YearGrid(context.Background(), 2025, mustZones(t, "New York", "London"), now)
	if err != nil {
		t.Fatalf("YearGrid() error = %v", err)
	}
	if len(months) != 12 {
		t.Fatalf("len(months) = %d, want 12", len(months))
	}
	if !reflect.DeepEqual(source.years, []int{2025}) {
		t.Errorf("source years = %v, want a single 2025 load", source.years)
	}

	// 2025-01-01 is a Wednesday
	jan := months[0]
	if jan.Cells[3] == nil || jan.Cells[3].Day != 1 {
		t.Errorf("January Cells[3] = %+v, want day 1", jan.Cells[3])
	}
	if !jan.Cells[3].IsHoliday() {
		t.Errorf("January 1 should be a holiday")
	}
	if months[11].Month != time.December {
		t.Errorf("months[11].Month = %v", months[11].Month)
	}
}

func TestYearGrid_SourceError(t *testing.T) {
	p := newTestPlanner(t, brokenSource{})
	if _, err := p.YearGrid(context.Background(), 2025, nil, time.Now()); err == nil {
		t.Error("YearGrid() expected error from source")
	}
}

func TestWeek_StraddlesNewYear(t *testing.T) {
	source := &countingSource{}
	p := newTestPlanner(t, source)
	now := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

	cells, err := p.Week(context.Background(), time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), mustZones(t, "New York", "London"), now)
	if err != nil {
		t.Fatalf("Week() error = %v", err)
	}
	if len(cells) != 7 {
		t.Fatalf("len(cells) = %d, want 7", len(cells))
	}
	if cells[0].Date.Weekday() != time.Sunday || cells[0].Day != 28 {
		t.Errorf("cells[0] = %v, want Sunday Dec 28", cells[0].Date)
	}
	if cells[4].Date.Year() != 2026 || !cells[4].IsHoliday() {
		t.Errorf("cells[4] = %+v, want New Year's Day 2026", cells[4])
	}
	if !reflect.DeepEqual(source.years, []int{2025, 2026}) {
		t.Errorf("source years = %v, want [2025 2026]", source.years)
	}
}

func TestAnalyzeDate(t *testing.T) {
	p := newTestPlanner(t, calendar.NewStaticSource())
	refs := mustZones(t, "New York", "London")

	analysis, err := p.AnalyzeDate(context.Background(), time.Date(2025, 3, 4, 15, 30, 0, 0, time.UTC), refs)
	if err != nil {
		t.Fatalf("AnalyzeDate() error = %v", err)
	}

	if !reflect.DeepEqual(analysis.OverlapHours, []int{14, 15, 16}) {
		t.Errorf("OverlapHours = %v, want [14 15 16]", analysis.OverlapHours)
	}
	if analysis.Range != "14:00 - 17:00" {
		t.Errorf("Range = %q", analysis.Range)
	}
	if len(analysis.Zones) != 2 {
		t.Fatalf("len(Zones) = %d, want 2", len(analysis.Zones))
	}

	ny := analysis.Zones[0].Hours
	wantNY := []string{"04:00", "05:00", "06:00", "07:00", "08:00", "09:00", "10:00", "11:00"}
	if !reflect.DeepEqual(ny, wantNY) {
		t.Errorf("New York hours = %v, want %v", ny, wantNY)
	}
	if analysis.Zones[1].Hours[0] != "09:00" {
		t.Errorf("London first hour = %q, want 09:00", analysis.Zones[1].Hours[0])
	}
	if len(analysis.Holidays) != 0 {
		t.Errorf("Holidays = %v, want none", analysis.Holidays)
	}
}

func TestHolidaysInYear(t *testing.T) {
	p := newTestPlanner(t, calendar.NewStaticSource())

	occ, err := p.HolidaysInYear(context.Background(), 2025, mustZones(t, "New York"))
	if err != nil {
		t.Fatalf("HolidaysInYear() error = %v", err)
	}

	var got []string
	for _, o := range occ {
		got = append(got, o.Date.Format("01-02")+" "+o.Holiday.Name)
	}
	want := []string{
		"01-01 New Year's Day",
		"07-04 Independence Day",
		"11-11 Veterans Day",
		"12-25 Christmas Day",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("HolidaysInYear() = %v, want %v", got, want)
	}
}
