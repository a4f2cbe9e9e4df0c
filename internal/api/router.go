// Package api serves the calendar over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/username/global-calendar/internal/appointment"
	"github.com/username/global-calendar/internal/calendar"
	"github.com/username/global-calendar/internal/integration"
	"github.com/username/global-calendar/internal/planner"
	"github.com/username/global-calendar/internal/zones"
	"go.uber.org/zap"
)

// RouterConfig holds the router's collaborators
type RouterConfig struct {
	Planner      *planner.Planner
	Holidays     calendar.Source
	Book         *appointment.Book
	Connector    *integration.Connector
	DefaultZones []zones.TimeZoneRef
	RateLimit    int // requests per RateWindow per IP; 0 disables limiting
	RateWindow   time.Duration
	Logger       *zap.Logger
	Now          func() time.Time
}

// NewRouter creates a chi router with all API routes configured
func NewRouter(cfg RouterConfig) *chi.Mux {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	h := &handler{
		planner:      cfg.Planner,
		holidays:     cfg.Holidays,
		book:         cfg.Book,
		connector:    cfg.Connector,
		defaultZones: cfg.DefaultZones,
		logger:       cfg.Logger,
		now:          cfg.Now,
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(cfg.Logger))
	r.Use(recoverer(cfg.Logger))
	if cfg.RateLimit > 0 {
		r.Use(rateLimitByIP(cfg.RateLimit, cfg.RateWindow))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/cities", h.cities)
		r.Get("/overlap", h.overlap)
		r.Get("/holidays", h.holidayList)
		r.Get("/calendar/{year}", h.calendarYear)
		r.Get("/week", h.week)
		r.Get("/analysis", h.analysis)
		r.Get("/clock", h.clock)

		r.Route("/appointments", func(r chi.Router) {
			r.Get("/", h.listAppointments)
			r.Post("/", h.createAppointment)
			r.Get("/{id}", h.getAppointment)
			r.Delete("/{id}", h.deleteAppointment)
		})

		r.Route("/integration", func(r chi.Router) {
			r.Get("/", h.integrationStatus)
			r.Put("/auto-sync", h.setAutoSync)
			r.Post("/{action}", h.integrationAction)
		})
	})

	return r
}
