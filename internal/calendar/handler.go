package calendar

import (
	"errors"
	"net/http"

	"github.com/emersion/go-ical"
	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/meeting-assistant/pkg/logging"
)

// EventLookup finds a stored event by UID.
type EventLookup interface {
	Event(uid string) (*ical.Calendar, error)
}

// EventHandler serves GET /calendar/events/{uid} as text/calendar, which is
// where ICS booking links point.
func EventHandler(lookup EventLookup, logger *logging.Logger) http.HandlerFunc {
	if logger == nil {
		logger = logging.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		uid := chi.URLParam(r, "uid")
		cal, err := lookup.Event(uid)
		if errors.Is(err, ErrEventNotFound) {
			http.Error(w, "Event not found", http.StatusNotFound)
			return
		}
		if err != nil {
			logger.Error("failed to load calendar event", "uid", uid, "error", err)
			http.Error(w, "Failed to load event", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if err := ical.NewEncoder(w).Encode(cal); err != nil {
			logger.Error("failed to encode calendar event", "uid", uid, "error", err)
		}
	}
}
