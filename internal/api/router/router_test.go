package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wolfman30/meeting-assistant/internal/conversation"
	"github.com/wolfman30/meeting-assistant/internal/intent"
	"github.com/wolfman30/meeting-assistant/internal/scheduling"
	"github.com/wolfman30/meeting-assistant/pkg/logging"
)

type emptyCalendar struct{}

func (emptyCalendar) ListBusy(context.Context, scheduling.TimeWindow) ([]scheduling.BusyInterval, error) {
	return nil, nil
}

func (emptyCalendar) CreateEvent(context.Context, scheduling.TimeWindow, string, string) (string, error) {
	return "https://calendar.example.com/evt", nil
}

type echoAgent struct{}

func (echoAgent) Turn(_ context.Context, _ string, text string) conversation.Reply {
	return conversation.Reply{Text: "echo: " + text, Intent: intent.Unclassified}
}

func newTestConfig() *Config {
	logger := logging.Nop()
	return &Config{
		Logger:            logger,
		SchedulingHandler: scheduling.NewHandler(emptyCalendar{}, scheduling.DefaultConfig(), logger),
		ChatHandler:       conversation.NewHandler(echoAgent{}, nil, logger),
		RateLimitRPS:      100,
		RateLimitBurst:    100,
	}
}

func serve(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRouterLivenessEndpoints(t *testing.T) {
	router := New(newTestConfig())

	rr := serve(t, router, http.MethodGet, "/", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var root map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&root); err != nil {
		t.Fatalf("failed to decode root response: %v", err)
	}
	if root["message"] != rootMessage {
		t.Errorf("unexpected root message %q", root["message"])
	}

	rr = serve(t, router, http.MethodGet, "/health", "")
	var health map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&health); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	if health["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", health["status"])
	}
}

func TestRouterSchedulingEndpoints(t *testing.T) {
	router := New(newTestConfig())

	rr := serve(t, router, http.MethodPost, "/get-available-slots",
		`{"start":"2024-06-03T10:00:00","end":"2024-06-03T11:00:00"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	var slots scheduling.SlotsResponse
	if err := json.NewDecoder(rr.Body).Decode(&slots); err != nil {
		t.Fatalf("failed to decode slots: %v", err)
	}
	if len(slots.Slots) != 2 {
		t.Fatalf("expected 2 slots, got %v", slots.Slots)
	}

	rr = serve(t, router, http.MethodPost, "/book-slot",
		`{"start":"2024-06-03T10:00:00","end":"2024-06-03T10:30:00"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var booked scheduling.BookResponse
	if err := json.NewDecoder(rr.Body).Decode(&booked); err != nil {
		t.Fatalf("failed to decode booking: %v", err)
	}
	if !booked.Success || booked.EventLink != "https://calendar.example.com/evt" {
		t.Fatalf("unexpected booking response %+v", booked)
	}
}

func TestRouterChatEndpoint(t *testing.T) {
	router := New(newTestConfig())

	rr := serve(t, router, http.MethodPost, "/chat", `{"message":"hello"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var resp conversation.ChatResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode chat response: %v", err)
	}
	if resp.Response != "echo: hello" {
		t.Errorf("unexpected chat response %q", resp.Response)
	}
}

func TestRouterOptionalRoutes(t *testing.T) {
	cfg := newTestConfig()
	router := New(cfg)
	for _, path := range []string{"/metrics", "/calendar/events/abc"} {
		if rr := serve(t, router, http.MethodGet, path, ""); rr.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404 without a handler, got %d", path, rr.Code)
		}
	}

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	cfg.MetricsHandler = ok
	cfg.CalendarEvents = ok
	router = New(cfg)
	for _, path := range []string{"/metrics", "/calendar/events/abc"} {
		if rr := serve(t, router, http.MethodGet, path, ""); rr.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rr.Code)
		}
	}
}

func TestRouterRateLimitsAPIOnly(t *testing.T) {
	cfg := newTestConfig()
	cfg.RateLimitRPS = 0.001
	cfg.RateLimitBurst = 1
	router := New(cfg)

	if rr := serve(t, router, http.MethodPost, "/chat", `{"message":"hi"}`); rr.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", rr.Code)
	}
	if rr := serve(t, router, http.MethodPost, "/chat", `{"message":"hi"}`); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rr.Code)
	}
	if rr := serve(t, router, http.MethodGet, "/health", ""); rr.Code != http.StatusOK {
		t.Fatalf("expected health to bypass the limiter, got %d", rr.Code)
	}
}
