package scheduling

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/wolfman30/meeting-assistant/pkg/logging"
)

// DefaultBookingTitle is used by the raw booking endpoint when no title is sent.
const DefaultBookingTitle = "Meeting Assistant Meeting"

// SlotsRequest is the body of POST /get-available-slots.
type SlotsRequest struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Duration int    `json:"duration"`
}

// SlotsResponse lists free slot starts as RFC3339 strings.
type SlotsResponse struct {
	Slots []string `json:"slots"`
}

// BookRequest is the body of POST /book-slot.
type BookRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Title string `json:"title"`
}

// BookResponse reports the created event link.
type BookResponse struct {
	Success   bool   `json:"success"`
	EventLink string `json:"event_link"`
}

// Handler exposes the calendar directly, without the conversational layer.
type Handler struct {
	calendar CalendarPort
	cfg      Config
	logger   *logging.Logger
}

// NewHandler creates a raw scheduling handler.
func NewHandler(calendar CalendarPort, cfg Config, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{calendar: calendar, cfg: cfg, logger: logger}
}

// AvailableSlots handles POST /get-available-slots.
func (h *Handler) AvailableSlots(w http.ResponseWriter, r *http.Request) {
	var req SlotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode slots request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	window, err := h.window(req.Start, req.End)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	duration := time.Duration(req.Duration) * time.Minute
	if req.Duration == 0 {
		duration = h.cfg.SlotDuration
	}
	if duration <= 0 {
		http.Error(w, "duration must be positive", http.StatusBadRequest)
		return
	}

	busy, err := h.calendar.ListBusy(r.Context(), window)
	if err != nil {
		h.logger.Error("failed to list busy intervals", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	slots := FindSlots(window, busy, duration)
	resp := SlotsResponse{Slots: make([]string, 0, len(slots))}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, s.In(h.cfg.Location).Format(time.RFC3339))
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// BookSlot handles POST /book-slot.
func (h *Handler) BookSlot(w http.ResponseWriter, r *http.Request) {
	var req BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode book request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	window, err := h.window(req.Start, req.End)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = DefaultBookingTitle
	}

	booking := BookingRequest{Text: title, Start: window.Start}
	link, err := h.calendar.CreateEvent(r.Context(), window, booking.Title(), booking.Description(h.cfg.AssistantName))
	if err != nil {
		h.logger.Error("failed to create event", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, BookResponse{Success: true, EventLink: link})
}

func (h *Handler) window(rawStart, rawEnd string) (TimeWindow, error) {
	if rawStart == "" || rawEnd == "" {
		return TimeWindow{}, errors.New("start and end are required")
	}
	start, err := ParseInstant(rawStart, h.cfg.Location)
	if err != nil {
		return TimeWindow{}, err
	}
	end, err := ParseInstant(rawEnd, h.cfg.Location)
	if err != nil {
		return TimeWindow{}, err
	}
	return NewTimeWindow(start, end)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
