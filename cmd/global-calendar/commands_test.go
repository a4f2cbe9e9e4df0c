package main

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/username/global-calendar/internal/appointment"
	"github.com/username/global-calendar/internal/calendar"
	"github.com/username/global-calendar/internal/overlap"
	"github.com/username/global-calendar/internal/planner"
	"github.com/username/global-calendar/internal/zones"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T) *app {
	t.Helper()
	logger := zap.NewNop()

	p, err := planner.NewPlanner(calendar.NewStaticSource(), overlap.DefaultWindow, time.UTC, logger)
	if err != nil {
		t.Fatalf("NewPlanner() error = %v", err)
	}
	defaults, err := zones.LookupMany([]string{"New York", "London"})
	if err != nil {
		t.Fatalf("LookupMany() error = %v", err)
	}

	return &app{
		planner:      p,
		book:         appointment.NewBook("", p, time.UTC, logger),
		defaultZones: defaults,
	}
}

func TestAppointmentRequest_NormalisesDate(t *testing.T) {
	now := time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		date string
	}{
		{"iso", "2025-12-11"},
		{"dotted", "11.12.2025"},
		{"with time", "2025-12-11T09:30:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t)

			req, date, err := a.appointmentRequest(appointment.Request{
				Title: "Planning",
				Date:  tt.date,
				Time:  "14:30",
			}, "")
			if err != nil {
				t.Fatalf("appointmentRequest(%q) error = %v", tt.date, err)
			}
			if req.Date != "2025-12-11" {
				t.Errorf("req.Date = %q, want 2025-12-11", req.Date)
			}
			if !date.Equal(time.Date(2025, 12, 11, 0, 0, 0, 0, time.UTC)) {
				t.Errorf("date = %v, want start of 2025-12-11", date)
			}

			appt, err := a.book.Create(context.Background(), req, now)
			if err != nil {
				t.Fatalf("Create() with date %q error = %v", tt.date, err)
			}
			if appt.Date != "2025-12-11" {
				t.Errorf("stored date = %q, want 2025-12-11", appt.Date)
			}
		})
	}
}

func TestAppointmentRequest_Zones(t *testing.T) {
	a := newTestApp(t)

	req, _, err := a.appointmentRequest(appointment.Request{Date: "2025-12-11"}, "")
	if err != nil {
		t.Fatalf("appointmentRequest() error = %v", err)
	}
	want := []string{a.defaultZones[0].ID, a.defaultZones[1].ID}
	if !reflect.DeepEqual(req.Zones, want) {
		t.Errorf("default zones = %v, want %v", req.Zones, want)
	}

	req, _, err = a.appointmentRequest(appointment.Request{Date: "2025-12-11"}, "Tokyo")
	if err != nil {
		t.Fatalf("appointmentRequest() error = %v", err)
	}
	if !reflect.DeepEqual(req.Zones, []string{"Tokyo"}) {
		t.Errorf("explicit zones = %v, want [Tokyo]", req.Zones)
	}

	if _, _, err := a.appointmentRequest(appointment.Request{Date: "12/11/2025"}, ""); err == nil {
		t.Error("appointmentRequest() expected error for unsupported date layout")
	}
}
