package calendar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newHolidayServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()

	bodies := map[string]string{
		"/api/v3/PublicHolidays/2025/US": `[
			{"date":"2025-01-01","localName":"New Year's Day","name":"New Year's Day","countryCode":"US","global":true,"types":["Public"]},
			{"date":"2025-07-04","localName":"Independence Day","name":"Independence Day","countryCode":"US","global":true,"types":["Public"]}
		]`,
		"/api/v3/PublicHolidays/2025/GB": `[
			{"date":"2025-01-01","localName":"New Year's Day","name":"New Year's Day","countryCode":"GB","global":false,"types":["Public"]},
			{"date":"2025-12-26","localName":"Boxing Day","name":"St. Stephen's Day","countryCode":"GB","global":false,"types":["Public"]}
		]`,
		"/api/v3/PublicHolidays/2025/DE": `[
			{"date":"2025-01-01","localName":"Neujahr","name":"New Year's Day","countryCode":"DE","global":true,"types":["Public"]},
			{"date":"2025-01-06","localName":"Heilige Drei Könige","name":"Epiphany","countryCode":"DE","global":false,"counties":["DE-BW","DE-BY","DE-ST"],"types":["Public"]},
			{"date":"2025-10-03","localName":"Tag der Deutschen Einheit","name":"German Unity Day","countryCode":"DE","global":true,"types":["Public"]},
			{"date":"2025-10-03","localName":"Tag der Deutschen Einheit","name":"German Unity Day","countryCode":"DE","global":true,"types":["Public"]}
		]`,
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		body, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
}

func TestRemoteSource_Holidays(t *testing.T) {
	var hits int32
	srv := newHolidayServer(t, &hits)
	defer srv.Close()

	src := NewRemoteSource(srv.URL, []string{"US", "UK"}, time.Hour, zap.NewNop())

	records, err := src.Holidays(context.Background(), 2025)
	if err != nil {
		t.Fatalf("Holidays() error = %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("Holidays() len = %d, want 3: %v", len(records), records)
	}

	newYear := records[0]
	if newYear.MonthDay != "01-01" || len(newYear.Countries) != 2 || newYear.Countries[1] != "UK" {
		t.Errorf("merged New Year record = %+v, want countries [US UK]", newYear)
	}

	matches := MatchHolidays(time.Date(2025, 12, 26, 0, 0, 0, 0, time.UTC), []string{"UK"}, records)
	if len(matches) != 1 {
		t.Errorf("MatchHolidays(12-26, UK) = %v, want one record", matches)
	}
}

func TestRemoteSource_RegionalHolidays(t *testing.T) {
	var hits int32
	srv := newHolidayServer(t, &hits)
	defer srv.Close()

	src := NewRemoteSource(srv.URL, []string{"DE", "UK"}, time.Hour, zap.NewNop())

	records, err := src.Holidays(context.Background(), 2025)
	if err != nil {
		t.Fatalf("Holidays() error = %v", err)
	}

	tests := []struct {
		name      string
		date      time.Time
		countries []string
		want      int
	}{
		{"regional DE holiday skipped", time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), []string{"DE"}, 0},
		{"nationwide DE holiday kept", time.Date(2025, 10, 3, 0, 0, 0, 0, time.UTC), []string{"DE"}, 1},
		{"regional UK holiday kept", time.Date(2025, 12, 26, 0, 0, 0, 0, time.UTC), []string{"UK"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchHolidays(tt.date, tt.countries, records); len(got) != tt.want {
				t.Errorf("MatchHolidays(%s, %v) = %v, want %d records", tt.date.Format("01-02"), tt.countries, got, tt.want)
			}
		})
	}

	unity := MatchHolidays(time.Date(2025, 10, 3, 0, 0, 0, 0, time.UTC), []string{"DE"}, records)
	if len(unity) == 1 && len(unity[0].Countries) != 1 {
		t.Errorf("duplicate entry countries = %v, want [DE]", unity[0].Countries)
	}
}

func TestRemoteSource_Cache(t *testing.T) {
	var hits int32
	srv := newHolidayServer(t, &hits)
	defer srv.Close()

	src := NewRemoteSource(srv.URL, []string{"US"}, time.Hour, zap.NewNop())

	for i := 0; i < 3; i++ {
		if _, err := src.Holidays(context.Background(), 2025); err != nil {
			t.Fatalf("Holidays() error = %v", err)
		}
	}

	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("server hits = %d, want 1 (cached)", got)
	}

	src.ClearCache()
	if _, err := src.Holidays(context.Background(), 2025); err != nil {
		t.Fatalf("Holidays() error = %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Errorf("server hits after ClearCache = %d, want 2", got)
	}
}

func TestRemoteSource_ErrorStatus(t *testing.T) {
	var hits int32
	srv := newHolidayServer(t, &hits)
	defer srv.Close()

	src := NewRemoteSource(srv.URL, []string{"FR"}, time.Hour, zap.NewNop())

	if _, err := src.Holidays(context.Background(), 2025); err == nil {
		t.Error("Holidays() expected error for 404, got nil")
	}
}

func TestRemoteSource_FallsBackThroughComposite(t *testing.T) {
	var hits int32
	srv := newHolidayServer(t, &hits)
	defer srv.Close()

	remote := NewRemoteSource(srv.URL, []string{"FR"}, time.Hour, zap.NewNop())
	cs := NewCompositeSource(remote, NewStaticSource(), zap.NewNop())

	records, err := cs.Holidays(context.Background(), 2025)
	if err != nil {
		t.Fatalf("Holidays() error = %v", err)
	}
	if len(records) != len(Builtin()) {
		t.Errorf("Holidays() len = %d, want builtin table", len(records))
	}
}
