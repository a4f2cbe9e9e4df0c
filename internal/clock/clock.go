// Package clock renders the world clock board.
package clock

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/username/global-calendar/internal/overlap"
	"github.com/username/global-calendar/internal/zones"
)

// Layout is the clock line format: 12-hour time, weekday and date
const Layout = "03:04:05 PM • Mon, Jan 2"

var (
	ErrLastZone       = errors.New("the board must keep at least one zone")
	ErrAlreadyShown   = errors.New("zone is already on the board")
	ErrZoneNotOnBoard = errors.New("zone is not on the board")
)

// Format renders now in ref's timezone
func Format(now time.Time, ref zones.TimeZoneRef) (string, error) {
	loc, err := overlap.Resolve(ref.IANAZone)
	if err != nil {
		return "", fmt.Errorf("zone %s: %w", ref.DisplayName, err)
	}
	return now.In(loc).Format(Layout), nil
}

// Line is one rendered row of the board
type Line struct {
	Zone zones.TimeZoneRef `json:"zone"`
	Time string            `json:"time"`
}

// String renders the line as "flag name  time"
func (l Line) String() string {
	return fmt.Sprintf("%s %-16s %s", l.Zone.Flag, l.Zone.DisplayName, l.Time)
}

// Board is the ordered set of zones shown by the world clock
type Board struct {
	mu    sync.RWMutex
	zones []zones.TimeZoneRef
}

// NewBoard creates a board; an empty list falls back to the default cities
func NewBoard(refs []zones.TimeZoneRef) (*Board, error) {
	if len(refs) == 0 {
		refs = zones.Defaults()
	}

	b := &Board{}
	for _, ref := range refs {
		if err := b.Add(ref); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Zones returns the displayed zones in order
func (b *Board) Zones() []zones.TimeZoneRef {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]zones.TimeZoneRef{}, b.zones...)
}

// Add appends ref to the board
func (b *Board) Add(ref zones.TimeZoneRef) error {
	if _, err := overlap.Resolve(ref.IANAZone); err != nil {
		return fmt.Errorf("zone %s: %w", ref.DisplayName, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, z := range b.zones {
		if z.ID == ref.ID {
			return fmt.Errorf("%w: %s", ErrAlreadyShown, ref.DisplayName)
		}
	}
	b.zones = append(b.zones, ref)
	return nil
}

// Remove drops the zone with the given ID; the last zone cannot be removed
func (b *Board) Remove(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, z := range b.zones {
		if z.ID != id {
			continue
		}
		if len(b.zones) == 1 {
			return ErrLastZone
		}
		b.zones = append(b.zones[:i:i], b.zones[i+1:]...)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrZoneNotOnBoard, id)
}

// Snapshot renders every zone at now
func (b *Board) Snapshot(now time.Time) []Line {
	b.mu.RLock()
	defer b.mu.RUnlock()

	lines := make([]Line, 0, len(b.zones))
	for _, ref := range b.zones {
		// zones are resolved on Add
		text, _ := Format(now, ref)
		lines = append(lines, Line{Zone: ref, Time: text})
	}
	return lines
}

// Render joins the snapshot lines with newlines
func (b *Board) Render(now time.Time) string {
	lines := b.Snapshot(now)
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return strings.Join(out, "\n")
}
