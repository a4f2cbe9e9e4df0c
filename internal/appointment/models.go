package appointment

import (
	"time"

	"github.com/username/global-calendar/internal/zones"
)

// Appointment represents a scheduled meeting
type Appointment struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Date        string              `json:"date"` // YYYY-MM-DD
	Time        string              `json:"time"` // HH:MM
	Zones       []zones.TimeZoneRef `json:"zones"`
	CreatedAt   time.Time           `json:"created_at"`
}

// Request is the input for Book.Create.
// Zones holds city IDs or names.
type Request struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	Date        string   `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string   `json:"time" validate:"required,datetime=15:04"`
	Zones       []string `json:"zones" validate:"max=3,unique,dive,required"`
}

// Start returns the appointment's date and time in loc
func (a Appointment) Start(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(dateLayout+" "+timeLayout, a.Date+" "+a.Time, loc)
}

// ZoneNames returns the display names of the appointment's zones
func (a Appointment) ZoneNames() []string {
	names := make([]string, len(a.Zones))
	for i, z := range a.Zones {
		names[i] = z.DisplayName
	}
	return names
}

func (a Appointment) sortKey() string {
	return a.Date + " " + a.Time
}
