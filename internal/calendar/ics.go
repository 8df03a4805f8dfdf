package calendar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"github.com/wolfman30/meeting-assistant/internal/scheduling"
)

const icsProductID = "-//meeting-assistant//calendar//EN"

// ErrEventNotFound is returned by ICSCalendar.Event for unknown UIDs.
var ErrEventNotFound = errors.New("calendar: event not found")

// ICSCalendar keeps events in a local iCalendar file. Recurring events are
// expanded from their RRULE/RDATE/EXDATE properties when listing.
type ICSCalendar struct {
	path    string
	baseURL string
	loc     *time.Location

	mu sync.Mutex
}

// NewICSCalendar serves path, which need not exist yet. Links to created
// events point at baseURL when set.
func NewICSCalendar(path, baseURL string, loc *time.Location) (*ICSCalendar, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("calendar: ics path is required")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ICSCalendar{path: path, baseURL: strings.TrimRight(baseURL, "/"), loc: loc}, nil
}

// ListBusy returns timed, non-cancelled event occurrences that intersect the
// window, ordered by start.
func (c *ICSCalendar) ListBusy(_ context.Context, window scheduling.TimeWindow) ([]scheduling.BusyInterval, error) {
	c.mu.Lock()
	cal, err := c.load()
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}

	var busy []scheduling.BusyInterval
	for _, event := range cal.Events() {
		if status, _ := event.Status(); status == ical.EventCancelled {
			continue
		}
		if dtstart := event.Props.Get(ical.PropDateTimeStart); dtstart == nil || dtstart.ValueType() == ical.ValueDate {
			continue
		}
		start, err := event.DateTimeStart(c.loc)
		if err != nil {
			return nil, fmt.Errorf("calendar: event %s start: %w", eventUID(event), err)
		}
		end, err := event.DateTimeEnd(c.loc)
		if err != nil {
			return nil, fmt.Errorf("calendar: event %s end: %w", eventUID(event), err)
		}
		duration := end.Sub(start)

		set, err := event.RecurrenceSet(c.loc)
		if err != nil {
			return nil, fmt.Errorf("calendar: event %s recurrence: %w", eventUID(event), err)
		}
		for _, s := range occurrenceStarts(set, start, duration, window) {
			b := scheduling.BusyInterval{Start: s.In(c.loc), End: s.Add(duration).In(c.loc)}
			if b.Overlaps(window.Start, window.End) {
				busy = append(busy, b)
			}
		}
	}

	sort.SliceStable(busy, func(i, j int) bool { return busy[i].Start.Before(busy[j].Start) })
	return busy, nil
}

// CreateEvent appends a VEVENT and rewrites the file.
func (c *ICSCalendar) CreateEvent(_ context.Context, window scheduling.TimeWindow, title, description string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cal, err := c.load()
	if err != nil {
		return "", err
	}

	uid := uuid.NewString()
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, uid)
	event.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	event.Props.SetDateTime(ical.PropDateTimeStart, window.Start.UTC())
	event.Props.SetDateTime(ical.PropDateTimeEnd, window.End.UTC())
	event.Props.SetText(ical.PropSummary, title)
	event.Props.SetText(ical.PropDescription, description)
	event.Props.SetText(ical.PropStatus, string(ical.EventConfirmed))
	cal.Children = append(cal.Children, event.Component)

	if err := c.save(cal); err != nil {
		return "", err
	}
	return c.link(uid), nil
}

// Event returns a calendar holding only the event with uid.
func (c *ICSCalendar) Event(uid string) (*ical.Calendar, error) {
	c.mu.Lock()
	cal, err := c.load()
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	for _, event := range cal.Events() {
		if eventUID(event) == uid {
			out := newCalendar()
			out.Children = append(out.Children, event.Component)
			return out, nil
		}
	}
	return nil, ErrEventNotFound
}

func (c *ICSCalendar) link(uid string) string {
	if c.baseURL == "" {
		return "urn:uid:" + uid
	}
	return c.baseURL + "/calendar/events/" + uid
}

func (c *ICSCalendar) load() (*ical.Calendar, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) || (err == nil && len(bytes.TrimSpace(data)) == 0) {
		return newCalendar(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("calendar: read ics file: %w", err)
	}

	cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
	if err == io.EOF {
		return newCalendar(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("calendar: decode ics file: %w", err)
	}
	return cal, nil
}

func (c *ICSCalendar) save(cal *ical.Calendar) error {
	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return fmt.Errorf("calendar: encode ics: %w", err)
	}

	dir := filepath.Dir(c.path)
	tmp, err := os.CreateTemp(dir, ".calendar-*.ics")
	if err != nil {
		return fmt.Errorf("calendar: create temp ics: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("calendar: write temp ics: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("calendar: close temp ics: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("calendar: replace ics file: %w", err)
	}
	return nil
}

// occurrenceStarts lists the starts that could overlap window. A nil set is
// a one-off event.
func occurrenceStarts(set *rrule.Set, start time.Time, duration time.Duration, window scheduling.TimeWindow) []time.Time {
	if set == nil {
		return []time.Time{start}
	}
	return set.Between(window.Start.Add(-duration), window.End, true)
}

func newCalendar() *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, icsProductID)
	return cal
}

func eventUID(event ical.Event) string {
	if prop := event.Props.Get(ical.PropUID); prop != nil {
		return prop.Value
	}
	return ""
}
