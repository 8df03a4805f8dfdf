package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wolfman30/meeting-assistant/pkg/logging"
)

var (
	// ErrPastTime marks a resolved time that precedes now.
	ErrPastTime = errors.New("scheduling: requested time is in the past")
	// ErrNoLink marks a create call that returned no event link.
	ErrNoLink = errors.New("scheduling: calendar returned no event link")
)

// Negotiator turns a free-text request into a booking or a set of alternatives.
type Negotiator struct {
	calendar CalendarPort
	resolver TimeResolver
	cfg      Config
	logger   *logging.Logger
}

// NewNegotiator wires the calendar and resolver capabilities. A nil resolver
// gets the default English resolver for cfg.
func NewNegotiator(calendar CalendarPort, resolver TimeResolver, cfg Config, logger *logging.Logger) *Negotiator {
	if calendar == nil {
		panic("scheduling: calendar port cannot be nil")
	}
	if resolver == nil {
		resolver = NewResolver(cfg)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Negotiator{
		calendar: calendar,
		resolver: resolver,
		cfg:      cfg,
		logger:   logger,
	}
}

// Negotiate books the requested slot when it is free, otherwise proposes the
// first few free working-hours slots after it. Creating the event is the only
// side effect.
func (n *Negotiator) Negotiate(ctx context.Context, text string, now time.Time) Outcome {
	requested, working, early := n.search(ctx, text, now)
	if early != nil {
		return *early
	}
	if len(working) == 0 {
		return Outcome{Kind: OutcomeNoSlots, Requested: requested, Reason: "no working-hours slots"}
	}

	slot, ok := n.exactMatch(requested, working)
	if !ok {
		return Outcome{
			Kind:      OutcomeNearbySuggestions,
			Requested: requested,
			Slots:     firstN(working, n.cfg.MaxSuggestions),
			Reason:    "requested time unavailable",
		}
	}

	req := BookingRequest{Text: text, Start: slot}
	window := TimeWindow{Start: slot, End: slot.Add(n.cfg.SlotDuration)}
	link, err := n.calendar.CreateEvent(ctx, window, req.Title(), req.Description(n.cfg.AssistantName))
	if err != nil {
		n.logger.Error("calendar create event failed", "error", err, "slot", slot.Format(time.RFC3339))
		return Outcome{
			Kind:      OutcomeProviderFailure,
			Requested: requested,
			Slot:      slot,
			Reason:    "calendar write failed",
			Err:       fmt.Errorf("scheduling: create event: %w", err),
		}
	}
	if link == "" {
		n.logger.Warn("calendar create event returned no link", "slot", slot.Format(time.RFC3339))
		return Outcome{Kind: OutcomeBookingFailed, Requested: requested, Slot: slot, Reason: "no event link", Err: ErrNoLink}
	}

	n.logger.Info("meeting booked", "slot", slot.Format(time.RFC3339), "link", link)
	return Outcome{Kind: OutcomeBooked, Requested: requested, Slot: slot, Link: link}
}

// CheckAvailability lists the free working-hours slots around the requested time.
func (n *Negotiator) CheckAvailability(ctx context.Context, text string, now time.Time) Outcome {
	requested, working, early := n.search(ctx, text, now)
	if early != nil {
		return *early
	}
	if len(working) == 0 {
		return Outcome{Kind: OutcomeOffHoursOnly, Requested: requested, Reason: "only off-hours slots"}
	}
	return Outcome{Kind: OutcomeAvailable, Requested: requested, Slots: working}
}

// search resolves the text and computes working-hours slots in the search
// window. A non-nil Outcome ends the turn early.
func (n *Negotiator) search(ctx context.Context, text string, now time.Time) (time.Time, []time.Time, *Outcome) {
	now = now.In(n.cfg.Location)
	requested, err := n.resolver.Resolve(text, now)
	if err != nil {
		return time.Time{}, nil, &Outcome{Kind: OutcomeAskClarify, Reason: "could not understand time", Err: err}
	}
	requested = requested.In(n.cfg.Location)
	if requested.Before(now) {
		return requested, nil, &Outcome{Kind: OutcomeRejected, Requested: requested, Reason: "past time", Err: ErrPastTime}
	}

	window := TimeWindow{Start: requested, End: requested.Add(n.cfg.SearchWindow)}
	busy, err := n.calendar.ListBusy(ctx, window)
	if err != nil {
		n.logger.Error("calendar list busy failed", "error", err, "start", window.Start.Format(time.RFC3339))
		return requested, nil, &Outcome{
			Kind:      OutcomeProviderFailure,
			Requested: requested,
			Reason:    "calendar read failed",
			Err:       fmt.Errorf("scheduling: list busy: %w", err),
		}
	}

	slots := FindSlots(window, busy, n.cfg.SlotDuration)
	if len(slots) == 0 {
		return requested, nil, &Outcome{Kind: OutcomeNoSlots, Requested: requested, Reason: "calendar full"}
	}
	return requested, n.cfg.WorkingHourSlots(slots), nil
}

// exactMatch finds the first slot in the requested hour whose minute is within
// the tolerance of the requested minute.
func (n *Negotiator) exactMatch(requested time.Time, slots []time.Time) (time.Time, bool) {
	tolerance := int(n.cfg.ExactMatchTolerance / time.Minute)
	for _, s := range slots {
		if s.Hour() != requested.Hour() {
			continue
		}
		diff := s.Minute() - requested.Minute()
		if diff < 0 {
			diff = -diff
		}
		if diff <= tolerance {
			return s, true
		}
	}
	return time.Time{}, false
}

func firstN(slots []time.Time, n int) []time.Time {
	if n <= 0 || len(slots) <= n {
		return slots
	}
	return slots[:n]
}
