package scheduling

import (
	"context"
	"fmt"
	"time"
)

// TimeWindow is a half-open range [Start, End).
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewTimeWindow validates start < end.
func NewTimeWindow(start, end time.Time) (TimeWindow, error) {
	if !start.Before(end) {
		return TimeWindow{}, fmt.Errorf("scheduling: window start %s must be before end %s",
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return TimeWindow{Start: start, End: end}, nil
}

// Duration returns End - Start.
func (w TimeWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// In returns the window with both ends expressed in loc.
func (w TimeWindow) In(loc *time.Location) TimeWindow {
	return TimeWindow{Start: w.Start.In(loc), End: w.End.In(loc)}
}

// BusyInterval is an existing calendar commitment.
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether the busy interval intersects [start, end).
// Touching endpoints do not overlap.
func (b BusyInterval) Overlaps(start, end time.Time) bool {
	return b.Start.Before(end) && b.End.After(start)
}

// BookingRequest is what the negotiator hands to the calendar when it books.
type BookingRequest struct {
	Text  string
	Start time.Time
}

// Title is the provider-side event summary.
func (r BookingRequest) Title() string {
	return "📅 " + r.Text
}

// Description is the provider-side event body.
func (r BookingRequest) Description(assistantName string) string {
	return fmt.Sprintf("Scheduled via %s.\n\nUser said: %q", assistantName, r.Text)
}

// CalendarPort is the calendar provider contract the core consumes.
// Implementations must return busy intervals ordered by start time.
type CalendarPort interface {
	ListBusy(ctx context.Context, window TimeWindow) ([]BusyInterval, error)
	CreateEvent(ctx context.Context, window TimeWindow, title, description string) (string, error)
}

// ParseInstant parses RFC3339 timestamps, or naive "2006-01-02T15:04:05"
// style timestamps which are taken to be local to loc.
func ParseInstant(raw string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("scheduling: cannot parse time %q", raw)
}
