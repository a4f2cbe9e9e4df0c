package appointment

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/username/global-calendar/internal/calendar"
	"github.com/username/global-calendar/internal/planner"
	"github.com/username/global-calendar/internal/zones"
	"go.uber.org/zap"
)

// MeetingJoinURL is the static meeting link offered for every appointment
const MeetingJoinURL = "https://zoom.us/start/videomeeting"

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

var (
	ErrNotFound       = errors.New("appointment not found")
	ErrInvalidRequest = errors.New("invalid appointment")
	ErrPastDate       = errors.New("date is in the past")
	ErrHolidayDate    = errors.New("date is a holiday")
)

// HolidayChecker returns the holidays observed on date by the zones' countries
type HolidayChecker interface {
	Holidays(ctx context.Context, date time.Time, refs []zones.TimeZoneRef) ([]calendar.HolidayRecord, error)
}

// state is the on-disk layout of the book
type state struct {
	Appointments []Appointment `json:"appointments"`
	UpdatedAt    string        `json:"updated_at"`
}

// Book stores appointments and optionally persists them to a JSON file
type Book struct {
	mu        sync.RWMutex
	stateFile string
	items     []Appointment
	holidays  HolidayChecker
	location  *time.Location
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewBook creates an empty book.
// An empty stateFile keeps the book in memory only; a nil holidays checker
// skips the holiday check.
func NewBook(stateFile string, holidays HolidayChecker, loc *time.Location, logger *zap.Logger) *Book {
	if loc == nil {
		loc = time.Local
	}
	return &Book{
		stateFile: stateFile,
		items:     []Appointment{},
		holidays:  holidays,
		location:  loc,
		validate:  validator.New(),
		logger:    logger,
	}
}

// Load reads the book from its state file. A missing file means an empty book.
func (b *Book) Load() error {
	if b.stateFile == "" {
		return nil
	}

	data, err := os.ReadFile(b.stateFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read appointments file: %w", err)
	}

	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("failed to parse appointments file: %w", err)
	}

	b.mu.Lock()
	b.items = st.Appointments
	if b.items == nil {
		b.items = []Appointment{}
	}
	b.mu.Unlock()

	b.logger.Info("Appointments loaded",
		zap.String("file", b.stateFile),
		zap.Int("count", len(st.Appointments)))

	return nil
}

// save writes the book; callers hold b.mu
func (b *Book) save() error {
	if b.stateFile == "" {
		return nil
	}

	data, err := json.MarshalIndent(state{
		Appointments: b.items,
		UpdatedAt:    time.Now().Format(time.RFC3339),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal appointments: %w", err)
	}

	if err := os.WriteFile(b.stateFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write appointments file: %w", err)
	}

	b.logger.Debug("Appointments saved",
		zap.String("file", b.stateFile),
		zap.Int("count", len(b.items)))

	return nil
}

// Create validates req and adds a new appointment.
// now decides whether the date is already in the past.
func (b *Book) Create(ctx context.Context, req Request, now time.Time) (Appointment, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)

	if err := b.validate.Struct(req); err != nil {
		return Appointment{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	date, err := time.ParseInLocation(dateLayout, req.Date, b.location)
	if err != nil {
		return Appointment{}, fmt.Errorf("%w: date %q: %v", ErrInvalidRequest, req.Date, err)
	}

	today := now.In(b.location)
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, b.location)
	if date.Before(today) {
		return Appointment{}, fmt.Errorf("%w: %s", ErrPastDate, req.Date)
	}

	refs, err := zones.LookupMany(req.Zones)
	if err != nil {
		return Appointment{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if err := planner.ValidateSelection(refs); err != nil {
		return Appointment{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	if b.holidays != nil && len(refs) > 0 {
		holidays, err := b.holidays.Holidays(ctx, date, refs)
		if err != nil {
			return Appointment{}, fmt.Errorf("failed to check holidays: %w", err)
		}
		if len(holidays) > 0 {
			return Appointment{}, fmt.Errorf("%w: %s (%s)", ErrHolidayDate, req.Date, calendar.Names(holidays))
		}
	}

	appt := Appointment{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		Zones:       refs,
		CreatedAt:   now.UTC(),
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.items = append(b.items, appt)
	if err := b.save(); err != nil {
		b.items = b.items[:len(b.items)-1]
		return Appointment{}, err
	}

	b.logger.Info("Appointment created",
		zap.String("id", appt.ID),
		zap.String("title", appt.Title),
		zap.String("date", appt.Date),
		zap.String("time", appt.Time))

	return appt, nil
}

// Delete removes the appointment with the given ID
func (b *Book) Delete(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, appt := range b.items {
		if appt.ID != id {
			continue
		}

		previous := b.items
		b.items = append(append([]Appointment{}, b.items[:i]...), b.items[i+1:]...)
		if err := b.save(); err != nil {
			b.items = previous
			return err
		}

		b.logger.Info("Appointment deleted", zap.String("id", id))
		return nil
	}

	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Get returns the appointment with the given ID
func (b *Book) Get(id string) (Appointment, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, appt := range b.items {
		if appt.ID == id {
			return appt, nil
		}
	}
	return Appointment{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// All returns every appointment in creation order
func (b *Book) All() []Appointment {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return append([]Appointment{}, b.items...)
}

// OnDate returns the appointments scheduled on date's calendar day, by time
func (b *Book) OnDate(date time.Time) []Appointment {
	key := date.Format(dateLayout)

	b.mu.RLock()
	out := []Appointment{}
	for _, appt := range b.items {
		if appt.Date == key {
			out = append(out, appt)
		}
	}
	b.mu.RUnlock()

	sortAscending(out)
	return out
}

// CountOn returns how many appointments are scheduled on date
func (b *Book) CountOn(date time.Time) int {
	key := date.Format(dateLayout)

	b.mu.RLock()
	defer b.mu.RUnlock()

	count := 0
	for _, appt := range b.items {
		if appt.Date == key {
			count++
		}
	}
	return count
}

// Upcoming returns appointments dated today or later, soonest first
func (b *Book) Upcoming(now time.Time) []Appointment {
	today := now.In(b.location).Format(dateLayout)

	b.mu.RLock()
	out := []Appointment{}
	for _, appt := range b.items {
		if appt.Date >= today {
			out = append(out, appt)
		}
	}
	b.mu.RUnlock()

	sortAscending(out)
	return out
}

// Past returns appointments dated before today, most recent first
func (b *Book) Past(now time.Time) []Appointment {
	today := now.In(b.location).Format(dateLayout)

	b.mu.RLock()
	out := []Appointment{}
	for _, appt := range b.items {
		if appt.Date < today {
			out = append(out, appt)
		}
	}
	b.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[j].sortKey() < out[i].sortKey()
	})
	return out
}

func sortAscending(items []Appointment) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].sortKey() < items[j].sortKey()
	})
}
