package overlap

import (
	"fmt"
	"sync"
	"time"

	"github.com/username/global-calendar/internal/zones"
)

// locations caches resolved IANA zones; time.LoadLocation reads tzdata on every call
var locations sync.Map // string -> *time.Location

// Resolve loads the location for an IANA zone name.
// Unknown or empty names fail with ErrInvalidTimezone; there is no default.
func Resolve(name string) (*time.Location, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty zone name", ErrInvalidTimezone)
	}
	if loc, ok := locations.Load(name); ok {
		return loc.(*time.Location), nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTimezone, name, err)
	}

	actual, _ := locations.LoadOrStore(name, loc)
	return actual.(*time.Location), nil
}

// resolveAll resolves every zone up front so that a bad entry fails the whole call
func resolveAll(refs []zones.TimeZoneRef) ([]*time.Location, error) {
	locs := make([]*time.Location, len(refs))
	for i, ref := range refs {
		loc, err := Resolve(ref.IANAZone)
		if err != nil {
			return nil, fmt.Errorf("zone %s: %w", ref.DisplayName, err)
		}
		locs[i] = loc
	}
	return locs, nil
}
