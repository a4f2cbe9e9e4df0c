package overlap

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTimezone is returned when an IANA zone name cannot be resolved
	ErrInvalidTimezone = errors.New("invalid timezone")
	// ErrInvalidWindow is returned for a malformed working-hours window
	ErrInvalidWindow = errors.New("invalid working-hours window")
)

// WorkingHoursWindow is a half-open local-hour interval [StartHour, EndHour)
type WorkingHoursWindow struct {
	StartHour int `json:"start" mapstructure:"start"`
	EndHour   int `json:"end" mapstructure:"end"`
}

// DefaultWindow is the 09:00-17:00 business day
var DefaultWindow = WorkingHoursWindow{StartHour: 9, EndHour: 17}

// Validate checks bounds and ordering. Windows are never clamped.
func (w WorkingHoursWindow) Validate() error {
	if w.StartHour < 0 || w.StartHour > 23 || w.EndHour < 0 || w.EndHour > 23 {
		return fmt.Errorf("%w: hours must be within 0..23, got %d..%d", ErrInvalidWindow, w.StartHour, w.EndHour)
	}
	if w.StartHour >= w.EndHour {
		return fmt.Errorf("%w: start %d must be before end %d", ErrInvalidWindow, w.StartHour, w.EndHour)
	}
	return nil
}

// Contains reports whether hour lies in [StartHour, EndHour)
func (w WorkingHoursWindow) Contains(hour int) bool {
	return hour >= w.StartHour && hour < w.EndHour
}

// Len returns the number of hours in the window
func (w WorkingHoursWindow) Len() int {
	return w.EndHour - w.StartHour
}

func (w WorkingHoursWindow) String() string {
	return fmt.Sprintf("%02d:00-%02d:00", w.StartHour, w.EndHour)
}
