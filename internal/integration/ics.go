package integration

import (
	"fmt"
	"os"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/username/global-calendar/internal/appointment"
)

const (
	productID       = "-//global-calendar//appointments//EN"
	meetingDuration = time.Hour
)

// BuildICS renders appointments as an iCalendar document.
// Appointment times are interpreted in loc.
func BuildICS(items []appointment.Appointment, loc *time.Location) (string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName("Global Calendar")

	for _, appt := range items {
		start, err := appt.Start(loc)
		if err != nil {
			return "", fmt.Errorf("appointment %s: %w", appt.ID, err)
		}

		event := cal.AddEvent(appt.ID + "@global-calendar")
		event.SetDtStampTime(appt.CreatedAt)
		event.SetCreatedTime(appt.CreatedAt)
		event.SetStartAt(start)
		event.SetEndAt(start.Add(meetingDuration))
		event.SetSummary(appt.Title)
		event.SetURL(appointment.MeetingJoinURL)

		description := appt.Description
		if names := appt.ZoneNames(); len(names) > 0 {
			if description != "" {
				description += "\n"
			}
			description += "Time zones: " + strings.Join(names, ", ")
		}
		if description != "" {
			event.SetDescription(description)
		}
	}

	return cal.Serialize(), nil
}

// WriteICSFile writes the iCalendar rendering of items to path
func WriteICSFile(path string, items []appointment.Appointment, loc *time.Location) error {
	body, err := BuildICS(items, loc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
