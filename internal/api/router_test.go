package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/username/global-calendar/internal/appointment"
	"github.com/username/global-calendar/internal/calendar"
	"github.com/username/global-calendar/internal/integration"
	"github.com/username/global-calendar/internal/overlap"
	"github.com/username/global-calendar/internal/planner"
	"github.com/username/global-calendar/internal/zones"
	"go.uber.org/zap"
)

var testNow = time.Date(2025, 12, 10, 12, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T, rateLimit int) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	source := calendar.NewStaticSource()

	p, err := planner.NewPlanner(source, overlap.DefaultWindow, time.UTC, logger)
	if err != nil {
		t.Fatalf("NewPlanner() error = %v", err)
	}
	book := appointment.NewBook("", p, time.UTC, logger)
	p.WithAppointments(book)

	defaults, err := zones.LookupMany([]string{"New York", "London"})
	if err != nil {
		t.Fatalf("LookupMany() error = %v", err)
	}

	return NewRouter(RouterConfig{
		Planner:      p,
		Holidays:     source,
		Book:         book,
		Connector:    integration.NewConnector(integration.Options{Location: time.UTC}, book, logger),
		DefaultZones: defaults,
		RateLimit:    rateLimit,
		RateWindow:   time.Minute,
		Logger:       logger,
		Now:          func() time.Time { return testNow },
	})
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode %q: %v", rec.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(t, 0), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestOverlap(t *testing.T) {
	router := newTestRouter(t, 0)

	rec := do(t, router, http.MethodGet, "/api/overlap?date=2025-03-04&zones=1,8", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp overlapResponse
	decode(t, rec, &resp)
	if !reflect.DeepEqual(resp.Hours, []int{14, 15, 16}) {
		t.Errorf("hours = %v, want [14 15 16]", resp.Hours)
	}
	if resp.Range != "14:00 - 17:00" {
		t.Errorf("range = %q", resp.Range)
	}
	if len(resp.Zones) != 2 || len(resp.Zones[0].Hours) != 8 {
		t.Errorf("zones = %+v", resp.Zones)
	}
}

func TestOverlap_Errors(t *testing.T) {
	router := newTestRouter(t, 0)

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"inverted window", "/api/overlap?zones=1,8&start=17&end=9", http.StatusBadRequest},
		{"non numeric hour", "/api/overlap?zones=1&start=nine", http.StatusBadRequest},
		{"unknown city", "/api/overlap?zones=999", http.StatusBadRequest},
		{"bad date", "/api/overlap?date=yesterday", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodGet, tt.target, "")
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
			var body errorResponse
			decode(t, rec, &body)
			if body.Error == "" {
				t.Error("error body is empty")
			}
		})
	}
}

func TestOverlap_EmptyZones(t *testing.T) {
	rec := do(t, newTestRouter(t, 0), http.MethodGet, "/api/overlap?date=2025-03-04&zones=", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp overlapResponse
	decode(t, rec, &resp)
	if len(resp.Hours) != 0 || resp.Range != overlap.NoOverlap {
		t.Errorf("resp = %+v, want no overlap", resp)
	}
}

func TestHolidays(t *testing.T) {
	rec := do(t, newTestRouter(t, 0), http.MethodGet, "/api/holidays?date=2025-12-25&countries=us", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Holidays []calendar.HolidayRecord `json:"holidays"`
	}
	decode(t, rec, &resp)
	if len(resp.Holidays) != 1 || resp.Holidays[0].Name != "Christmas Day" {
		t.Errorf("holidays = %+v", resp.Holidays)
	}
}

func TestCalendar(t *testing.T) {
	router := newTestRouter(t, 0)

	rec := do(t, router, http.MethodGet, "/api/calendar/2025?zones=1,8", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Months []planner.MonthGrid `json:"months"`
	}
	decode(t, rec, &resp)
	if len(resp.Months) != 12 {
		t.Fatalf("months = %d, want 12", len(resp.Months))
	}
	if c := resp.Months[11].Cells[25]; c == nil || !c.IsHoliday() || c.Selectable {
		t.Errorf("Dec 25 cell = %+v", c)
	}

	rec = do(t, router, http.MethodGet, "/api/calendar/2025?zones=1,8&month=3", "")
	var grid planner.MonthGrid
	decode(t, rec, &grid)
	if grid.Month != time.March {
		t.Errorf("month = %v, want March", grid.Month)
	}

	for _, target := range []string{
		"/api/calendar/abc",
		"/api/calendar/2025?month=13",
		"/api/calendar/2025?zones=1,8,23,2",
		"/api/calendar/2025?zones=1,1",
	} {
		if rec := do(t, router, http.MethodGet, target, ""); rec.Code != http.StatusBadRequest {
			t.Errorf("GET %s status = %d, want 400", target, rec.Code)
		}
	}
}

func TestWeekAndAnalysis(t *testing.T) {
	router := newTestRouter(t, 0)

	rec := do(t, router, http.MethodGet, "/api/week?date=2025-12-31", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("week status = %d", rec.Code)
	}
	var week struct {
		Days []planner.DayCell `json:"days"`
	}
	decode(t, rec, &week)
	if len(week.Days) != 7 {
		t.Errorf("week days = %d, want 7", len(week.Days))
	}

	rec = do(t, router, http.MethodGet, "/api/analysis?date=2025-03-04&zones=1,8", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("analysis status = %d", rec.Code)
	}
	var analysis planner.DayAnalysis
	decode(t, rec, &analysis)
	if analysis.Range != "14:00 - 17:00" || len(analysis.Zones) != 2 {
		t.Errorf("analysis = %+v", analysis)
	}
}

func TestAppointments(t *testing.T) {
	router := newTestRouter(t, 0)

	rec := do(t, router, http.MethodPost, "/api/appointments",
		`{"title":"Kickoff","date":"2025-12-11","time":"15:00","zones":["1","8"]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created appointment.Appointment
	decode(t, rec, &created)

	rec = do(t, router, http.MethodGet, "/api/appointments", "")
	var list appointmentsResponse
	decode(t, rec, &list)
	if len(list.Upcoming) != 1 || list.Upcoming[0].ID != created.ID {
		t.Errorf("upcoming = %+v", list.Upcoming)
	}
	if list.JoinURL != appointment.MeetingJoinURL {
		t.Errorf("join_url = %q", list.JoinURL)
	}

	rec = do(t, router, http.MethodGet, "/api/calendar/2025?zones=1,8&month=12", "")
	var grid planner.MonthGrid
	decode(t, rec, &grid)
	if grid.Cells[11].Appointments != 1 {
		t.Errorf("Dec 11 appointments = %d, want 1", grid.Cells[11].Appointments)
	}

	if rec := do(t, router, http.MethodGet, "/api/appointments/"+created.ID, ""); rec.Code != http.StatusOK {
		t.Errorf("get status = %d", rec.Code)
	}
	if rec := do(t, router, http.MethodDelete, "/api/appointments/"+created.ID, ""); rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rec.Code)
	}
	if rec := do(t, router, http.MethodDelete, "/api/appointments/"+created.ID, ""); rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestAppointments_Rejected(t *testing.T) {
	router := newTestRouter(t, 0)

	for _, body := range []string{
		`{"title":"Xmas","date":"2025-12-25","time":"10:00","zones":["1"]}`,
		`{"title":"","date":"2025-12-11","time":"10:00"}`,
		`{"title":"Old","date":"2025-01-02","time":"10:00"}`,
		`not json`,
	} {
		rec := do(t, router, http.MethodPost, "/api/appointments", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("POST %s status = %d, want 400", body, rec.Code)
		}
	}
}

func TestIntegration(t *testing.T) {
	router := newTestRouter(t, 0)

	if rec := do(t, router, http.MethodPost, "/api/integration/sync", ""); rec.Code != http.StatusConflict {
		t.Errorf("sync before connect status = %d, want 409", rec.Code)
	}

	rec := do(t, router, http.MethodPost, "/api/integration/connect", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("connect status = %d, body %s", rec.Code, rec.Body.String())
	}
	var st integration.Status
	decode(t, rec, &st)
	if !st.Connected || st.LastSync == nil {
		t.Errorf("status after connect = %+v", st)
	}

	if rec := do(t, router, http.MethodPut, "/api/integration/auto-sync", `{"enabled":true}`); rec.Code != http.StatusOK {
		t.Errorf("auto-sync status = %d, body %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, router, http.MethodPut, "/api/integration/auto-sync", `{}`); rec.Code != http.StatusBadRequest {
		t.Errorf("auto-sync without flag status = %d, want 400", rec.Code)
	}
	if rec := do(t, router, http.MethodPost, "/api/integration/sync", ""); rec.Code != http.StatusOK {
		t.Errorf("sync status = %d", rec.Code)
	}
	if rec := do(t, router, http.MethodPost, "/api/integration/bogus", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown action status = %d, want 404", rec.Code)
	}

	rec = do(t, router, http.MethodPost, "/api/integration/disconnect", "")
	decode(t, rec, &st)
	if st.Connected {
		t.Errorf("status after disconnect = %+v", st)
	}
}

func TestStatusFor_Integration(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{integration.ErrNotConnected, http.StatusConflict},
		{integration.ErrBusy, http.StatusConflict},
		{fmt.Errorf("connect aborted: %w", integration.ErrDisconnected), http.StatusConflict},
		{fmt.Errorf("sync cancelled: %w", context.Canceled), http.StatusServiceUnavailable},
		{errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestClock(t *testing.T) {
	rec := do(t, newTestRouter(t, 0), http.MethodGet, "/api/clock?zones=8", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var lines []struct {
		Time string `json:"time"`
	}
	decode(t, rec, &lines)
	if len(lines) != 1 || lines[0].Time != "12:00:00 PM • Wed, Dec 10" {
		t.Errorf("clock = %+v", lines)
	}
}

func TestRateLimit(t *testing.T) {
	router := newTestRouter(t, 2)

	for i := 0; i < 2; i++ {
		if rec := do(t, router, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, rec.Code)
		}
	}
	rec := do(t, router, http.MethodGet, "/health", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", rec.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	rec := do(t, newTestRouter(t, 0), http.MethodGet, "/api/nothing", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
