package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/username/global-calendar/internal/appointment"
	"github.com/username/global-calendar/internal/calendar"
	"github.com/username/global-calendar/internal/clock"
	"github.com/username/global-calendar/internal/integration"
	"github.com/username/global-calendar/internal/overlap"
	"github.com/username/global-calendar/internal/planner"
	"github.com/username/global-calendar/internal/zones"
	"github.com/username/global-calendar/pkg/dateutil"
	"go.uber.org/zap"
)

type handler struct {
	planner      *planner.Planner
	holidays     calendar.Source
	book         *appointment.Book
	connector    *integration.Connector
	defaultZones []zones.TimeZoneRef
	logger       *zap.Logger
	now          func() time.Time
}

// zoneParam parses ?zones=1,8,23; a missing parameter yields the defaults
func (h *handler) zoneParam(r *http.Request) ([]zones.TimeZoneRef, error) {
	if !r.URL.Query().Has("zones") {
		return append([]zones.TimeZoneRef{}, h.defaultZones...), nil
	}
	return zones.ParseList(r.URL.Query().Get("zones"))
}

// dateParam parses ?date=YYYY-MM-DD in the planner's frame; missing means today
func (h *handler) dateParam(r *http.Request) (time.Time, error) {
	loc := h.planner.Location()
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return dateutil.StartOfDay(h.now().In(loc)), nil
	}
	date, err := dateutil.ParseDate(raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", errBadInput, err)
	}
	return dateutil.StartOfDay(date), nil
}

// windowParam parses ?start=&end=, each defaulting to the configured window
func (h *handler) windowParam(r *http.Request) (overlap.WorkingHoursWindow, error) {
	window := h.planner.Window()
	for name, dst := range map[string]*int{"start": &window.StartHour, "end": &window.EndHour} {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return window, fmt.Errorf("%w: %s must be an integer hour", errBadInput, name)
		}
		*dst = v
	}
	if err := window.Validate(); err != nil {
		return window, err
	}
	return window, nil
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) cities(w http.ResponseWriter, r *http.Request) {
	exclude := r.URL.Query().Get("exclude")
	if exclude == "" {
		writeJSON(w, http.StatusOK, zones.All())
		return
	}

	selected, err := zones.ParseList(exclude)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, zones.Exclude(selected))
}

type overlapResponse struct {
	Date   string                     `json:"date"`
	Window overlap.WorkingHoursWindow `json:"window"`
	Hours  []int                      `json:"hours"`
	Range  string                     `json:"range"`
	Zones  []planner.ZoneHours        `json:"zones"`
}

func (h *handler) overlap(w http.ResponseWriter, r *http.Request) {
	date, err := h.dateParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	refs, err := h.zoneParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	window, err := h.windowParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	hours, err := overlap.ComputeOverlapHours(date, refs, window)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp := overlapResponse{
		Date:   date.Format("2006-01-02"),
		Window: window,
		Hours:  hours,
		Range:  overlap.FormatHourRange(hours),
		Zones:  make([]planner.ZoneHours, 0, len(refs)),
	}
	for _, ref := range refs {
		local, err := overlap.ZoneLocalWorkingHours(date, ref, window)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		resp.Zones = append(resp.Zones, planner.ZoneHours{Zone: ref, Hours: local})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) holidayList(w http.ResponseWriter, r *http.Request) {
	date, err := h.dateParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var codes []string
	if raw := r.URL.Query().Get("countries"); raw != "" {
		for _, c := range strings.Split(raw, ",") {
			if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
				codes = append(codes, c)
			}
		}
	} else {
		refs, err := h.zoneParam(r)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		codes = zones.CountryCodes(refs)
	}

	table, err := h.holidays.Holidays(r.Context(), date.Year())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"date":      date.Format("2006-01-02"),
		"countries": codes,
		"holidays":  calendar.MatchHolidays(date, codes, table),
	})
}

func (h *handler) calendarYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 || year > 9999 {
		h.fail(w, r, fmt.Errorf("%w: invalid year %q", errBadInput, chi.URLParam(r, "year")))
		return
	}
	refs, err := h.zoneParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if raw := r.URL.Query().Get("month"); raw != "" {
		month, err := strconv.Atoi(raw)
		if err != nil || month < 1 || month > 12 {
			h.fail(w, r, fmt.Errorf("%w: invalid month %q", errBadInput, raw))
			return
		}
		grid, err := h.planner.MonthGrid(r.Context(), year, time.Month(month), refs, h.now())
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, grid)
		return
	}

	months, err := h.planner.YearGrid(r.Context(), year, refs, h.now())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"year":   year,
		"zones":  refs,
		"months": months,
	})
}

func (h *handler) week(w http.ResponseWriter, r *http.Request) {
	date, err := h.dateParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	refs, err := h.zoneParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	days, err := h.planner.Week(r.Context(), date, refs, h.now())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"zones": refs,
		"days":  days,
	})
}

func (h *handler) analysis(w http.ResponseWriter, r *http.Request) {
	date, err := h.dateParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	refs, err := h.zoneParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.planner.AnalyzeDate(r.Context(), date, refs)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) clock(w http.ResponseWriter, r *http.Request) {
	refs, err := h.zoneParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	board, err := clock.NewBoard(refs)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, board.Snapshot(h.now()))
}

type appointmentsResponse struct {
	Upcoming []appointment.Appointment `json:"upcoming"`
	Past     []appointment.Appointment `json:"past"`
	JoinURL  string                    `json:"join_url"`
}

func (h *handler) listAppointments(w http.ResponseWriter, r *http.Request) {
	now := h.now()

	if raw := r.URL.Query().Get("date"); raw != "" {
		date, err := h.dateParam(r)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, h.book.OnDate(date))
		return
	}

	writeJSON(w, http.StatusOK, appointmentsResponse{
		Upcoming: h.book.Upcoming(now),
		Past:     h.book.Past(now),
		JoinURL:  appointment.MeetingJoinURL,
	})
}

func (h *handler) createAppointment(w http.ResponseWriter, r *http.Request) {
	var req appointment.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, r, fmt.Errorf("%w: invalid JSON body: %v", errBadInput, err))
		return
	}

	appt, err := h.book.Create(r.Context(), req, h.now())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, appt)
}

func (h *handler) getAppointment(w http.ResponseWriter, r *http.Request) {
	appt, err := h.book.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

func (h *handler) deleteAppointment(w http.ResponseWriter, r *http.Request) {
	if err := h.book.Delete(chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) integrationStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.connector.Status())
}

func (h *handler) integrationAction(w http.ResponseWriter, r *http.Request) {
	var err error
	switch action := chi.URLParam(r, "action"); action {
	case "connect":
		err = h.connector.Connect(r.Context())
	case "sync":
		err = h.connector.Sync(r.Context())
	case "disconnect":
		h.connector.Disconnect()
	default:
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown integration action %q", action))
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.connector.Status())
}

func (h *handler) setAutoSync(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Enabled *bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Enabled == nil {
		h.fail(w, r, fmt.Errorf("%w: body must be {\"enabled\": true|false}", errBadInput))
		return
	}

	if err := h.connector.SetAutoSync(*body.Enabled); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.connector.Status())
}
