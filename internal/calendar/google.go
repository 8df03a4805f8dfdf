// Package calendar adapts calendar providers to scheduling.CalendarPort.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/meeting-assistant/internal/scheduling"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const defaultCalendarID = "primary"

// GoogleCalendar reads and writes events through the Google Calendar API.
type GoogleCalendar struct {
	svc        *gcal.Service
	calendarID string
	loc        *time.Location
}

// NewGoogleCalendar authenticates with a service account credentials file.
// Extra options are appended after the credentials, so tests can point the
// client at a fake endpoint.
func NewGoogleCalendar(ctx context.Context, credentialsPath, calendarID string, loc *time.Location, opts ...option.ClientOption) (*GoogleCalendar, error) {
	clientOpts := make([]option.ClientOption, 0, len(opts)+2)
	if strings.TrimSpace(credentialsPath) != "" {
		clientOpts = append(clientOpts,
			option.WithCredentialsFile(credentialsPath),
			option.WithScopes(gcal.CalendarScope),
		)
	}
	clientOpts = append(clientOpts, opts...)
	if len(clientOpts) == 0 {
		return nil, errors.New("calendar: google credentials path is required")
	}

	svc, err := gcal.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("calendar: create google calendar service: %w", err)
	}
	return NewGoogleCalendarWithService(svc, calendarID, loc), nil
}

func NewGoogleCalendarWithService(svc *gcal.Service, calendarID string, loc *time.Location) *GoogleCalendar {
	if svc == nil {
		panic("calendar: google calendar service cannot be nil")
	}
	if strings.TrimSpace(calendarID) == "" {
		calendarID = defaultCalendarID
	}
	if loc == nil {
		loc = time.UTC
	}
	return &GoogleCalendar{svc: svc, calendarID: calendarID, loc: loc}
}

// ListBusy returns timed events in the window ordered by start. All-day
// events carry no dateTime and are ignored.
func (g *GoogleCalendar) ListBusy(ctx context.Context, window scheduling.TimeWindow) ([]scheduling.BusyInterval, error) {
	call := g.svc.Events.List(g.calendarID).
		Context(ctx).
		TimeMin(window.Start.Format(time.RFC3339)).
		TimeMax(window.End.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime")
	if tz := ianaName(g.loc); tz != "" {
		call = call.TimeZone(tz)
	}

	var busy []scheduling.BusyInterval
	err := call.Pages(ctx, func(page *gcal.Events) error {
		for _, item := range page.Items {
			if item.Status == "cancelled" || item.Start == nil || item.End == nil || item.Start.DateTime == "" {
				continue
			}
			start, err := time.Parse(time.RFC3339, item.Start.DateTime)
			if err != nil {
				return fmt.Errorf("calendar: parse start of event %s: %w", item.Id, err)
			}
			end, err := time.Parse(time.RFC3339, item.End.DateTime)
			if err != nil {
				return fmt.Errorf("calendar: parse end of event %s: %w", item.Id, err)
			}
			busy = append(busy, scheduling.BusyInterval{Start: start.In(g.loc), End: end.In(g.loc)})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("calendar: list google events: %w", err)
	}
	return busy, nil
}

// CreateEvent inserts an event and returns its htmlLink.
func (g *GoogleCalendar) CreateEvent(ctx context.Context, window scheduling.TimeWindow, title, description string) (string, error) {
	tz := ianaName(g.loc)
	event := &gcal.Event{
		Summary:     title,
		Description: description,
		Start:       &gcal.EventDateTime{DateTime: window.Start.In(g.loc).Format(time.RFC3339), TimeZone: tz},
		End:         &gcal.EventDateTime{DateTime: window.End.In(g.loc).Format(time.RFC3339), TimeZone: tz},
	}

	created, err := g.svc.Events.Insert(g.calendarID, event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("calendar: insert google event: %w", err)
	}
	return created.HtmlLink, nil
}

// ianaName returns loc's name when Google will accept it as a timeZone.
func ianaName(loc *time.Location) string {
	name := loc.String()
	if name == "UTC" || strings.Contains(name, "/") {
		return name
	}
	return ""
}
