package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/wolfman30/meeting-assistant/internal/calendar"
	appconfig "github.com/wolfman30/meeting-assistant/internal/config"
	"github.com/wolfman30/meeting-assistant/internal/observability/metrics"
	"github.com/wolfman30/meeting-assistant/internal/scheduling"
	"github.com/wolfman30/meeting-assistant/pkg/logging"
)

// Calendar providers accepted by CALENDAR_PROVIDER.
const (
	CalendarGoogle = "google"
	CalendarICS    = "ics"
)

// CalendarBackend is the instrumented calendar port plus, for ICS, the
// handler that serves booking links.
type CalendarBackend struct {
	Port   scheduling.CalendarPort
	Events http.Handler
}

// BuildCalendar opens the configured calendar provider.
func BuildCalendar(ctx context.Context, cfg *appconfig.Config, sched scheduling.Config, m *metrics.AssistantMetrics, logger *logging.Logger) (CalendarBackend, error) {
	if cfg == nil {
		return CalendarBackend{}, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	switch cfg.CalendarProvider {
	case CalendarGoogle, "":
		g, err := calendar.NewGoogleCalendar(ctx, cfg.GoogleCredentialsPath, cfg.GoogleCalendarID, sched.Location)
		if err != nil {
			return CalendarBackend{}, fmt.Errorf("bootstrap: google calendar: %w", err)
		}
		logger.Info("calendar backend ready", "provider", CalendarGoogle, "calendar_id", cfg.GoogleCalendarID)
		return CalendarBackend{Port: calendar.Instrument(g, CalendarGoogle, m)}, nil
	case CalendarICS:
		ics, err := calendar.NewICSCalendar(cfg.ICSCalendarPath, cfg.PublicBaseURL, sched.Location)
		if err != nil {
			return CalendarBackend{}, fmt.Errorf("bootstrap: ics calendar: %w", err)
		}
		logger.Info("calendar backend ready", "provider", CalendarICS, "path", cfg.ICSCalendarPath)
		return CalendarBackend{
			Port:   calendar.Instrument(ics, CalendarICS, m),
			Events: calendar.EventHandler(ics, logger),
		}, nil
	default:
		return CalendarBackend{}, fmt.Errorf("bootstrap: unknown calendar provider %q", cfg.CalendarProvider)
	}
}
