package calendar

import (
	"context"
	"time"

	"github.com/wolfman30/meeting-assistant/internal/observability/metrics"
	"github.com/wolfman30/meeting-assistant/internal/scheduling"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Instrumented wraps a CalendarPort with tracing spans and latency metrics.
type Instrumented struct {
	next     scheduling.CalendarPort
	provider string
	tracer   trace.Tracer
	metrics  *metrics.AssistantMetrics
}

func Instrument(next scheduling.CalendarPort, provider string, m *metrics.AssistantMetrics) *Instrumented {
	return &Instrumented{
		next:     next,
		provider: provider,
		tracer:   otel.Tracer("assistant.internal.calendar"),
		metrics:  m,
	}
}

func (i *Instrumented) ListBusy(ctx context.Context, window scheduling.TimeWindow) ([]scheduling.BusyInterval, error) {
	ctx, span := i.tracer.Start(ctx, "calendar.list_busy", trace.WithAttributes(i.windowAttrs(window)...))
	defer span.End()

	started := time.Now()
	busy, err := i.next.ListBusy(ctx, window)
	i.finish(span, "list_busy", started, err)
	if err == nil {
		span.SetAttributes(attribute.Int("calendar.busy_count", len(busy)))
	}
	return busy, err
}

func (i *Instrumented) CreateEvent(ctx context.Context, window scheduling.TimeWindow, title, description string) (string, error) {
	ctx, span := i.tracer.Start(ctx, "calendar.create_event", trace.WithAttributes(i.windowAttrs(window)...))
	defer span.End()

	started := time.Now()
	link, err := i.next.CreateEvent(ctx, window, title, description)
	i.finish(span, "create_event", started, err)
	return link, err
}

func (i *Instrumented) windowAttrs(window scheduling.TimeWindow) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("calendar.provider", i.provider),
		attribute.String("calendar.window_start", window.Start.Format(time.RFC3339)),
		attribute.String("calendar.window_end", window.End.Format(time.RFC3339)),
	}
}

func (i *Instrumented) finish(span trace.Span, operation string, started time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	i.metrics.ObserveCalendarRequest(operation, status, time.Since(started).Seconds())
}
