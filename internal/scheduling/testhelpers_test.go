package scheduling

import (
	"context"
	"time"
)

var ist = time.FixedZone("IST", 5*60*60+30*60)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Location = ist
	return cfg
}

// monday0900 is Monday 2024-06-03 09:00 IST.
func monday0900() time.Time {
	return time.Date(2024, time.June, 3, 9, 0, 0, 0, ist)
}

func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.June, day, hour, minute, 0, 0, ist)
}

type stubCalendar struct {
	busy      []BusyInterval
	listErr   error
	link      string
	createErr error

	listCalls    int
	listWindows  []TimeWindow
	created      []TimeWindow
	titles       []string
	descriptions []string
}

func (s *stubCalendar) ListBusy(_ context.Context, window TimeWindow) ([]BusyInterval, error) {
	s.listCalls++
	s.listWindows = append(s.listWindows, window)
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.busy, nil
}

func (s *stubCalendar) CreateEvent(_ context.Context, window TimeWindow, title, description string) (string, error) {
	s.created = append(s.created, window)
	s.titles = append(s.titles, title)
	s.descriptions = append(s.descriptions, description)
	if s.createErr != nil {
		return "", s.createErr
	}
	return s.link, nil
}

type fixedResolver struct {
	at  time.Time
	err error
}

func (f fixedResolver) Resolve(string, time.Time) (time.Time, error) {
	return f.at, f.err
}
