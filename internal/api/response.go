package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/username/global-calendar/internal/appointment"
	"github.com/username/global-calendar/internal/integration"
	"github.com/username/global-calendar/internal/overlap"
	"github.com/username/global-calendar/internal/planner"
	"github.com/username/global-calendar/internal/zones"
	"go.uber.org/zap"
)

// errBadInput marks malformed query or body input
var errBadInput = errors.New("bad input")

// errorResponse is the body of every error reply
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, appointment.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadInput),
		errors.Is(err, overlap.ErrInvalidTimezone),
		errors.Is(err, overlap.ErrInvalidWindow),
		errors.Is(err, zones.ErrUnknownCity),
		errors.Is(err, planner.ErrTooManyZones),
		errors.Is(err, planner.ErrDuplicateZone),
		errors.Is(err, appointment.ErrInvalidRequest),
		errors.Is(err, appointment.ErrPastDate),
		errors.Is(err, appointment.ErrHolidayDate):
		return http.StatusBadRequest
	case errors.Is(err, integration.ErrNotConnected),
		errors.Is(err, integration.ErrAlreadyConnected),
		errors.Is(err, integration.ErrBusy),
		errors.Is(err, integration.ErrDisconnected):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}
