package conversation

import (
	"context"
	"errors"
	"time"

	"github.com/wolfman30/meeting-assistant/internal/scheduling"
)

type stubLLM struct {
	resp  LLMResponse
	err   error
	calls int
	last  LLMRequest
}

func (s *stubLLM) Complete(_ context.Context, req LLMRequest) (LLMResponse, error) {
	s.calls++
	s.last = req
	return s.resp, s.err
}

var errModelDown = errors.New("model unavailable")

type stubCalendar struct {
	busy      []scheduling.BusyInterval
	link      string
	listErr   error
	listCalls int
	created   []scheduling.TimeWindow
}

func (s *stubCalendar) ListBusy(context.Context, scheduling.TimeWindow) ([]scheduling.BusyInterval, error) {
	s.listCalls++
	return s.busy, s.listErr
}

func (s *stubCalendar) CreateEvent(_ context.Context, window scheduling.TimeWindow, _, _ string) (string, error) {
	s.created = append(s.created, window)
	return s.link, nil
}

var ist = time.FixedZone("IST", 5*60*60+30*60)

// monday0900 is Monday 2024-06-03 09:00 IST.
func monday0900() time.Time {
	return time.Date(2024, time.June, 3, 9, 0, 0, 0, ist)
}
