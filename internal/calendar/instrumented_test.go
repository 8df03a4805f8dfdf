package calendar

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/meeting-assistant/internal/observability/metrics"
	"github.com/wolfman30/meeting-assistant/internal/scheduling"
)

type stubPort struct {
	busy      []scheduling.BusyInterval
	link      string
	createErr error
}

func (s *stubPort) ListBusy(context.Context, scheduling.TimeWindow) ([]scheduling.BusyInterval, error) {
	return s.busy, nil
}

func (s *stubPort) CreateEvent(context.Context, scheduling.TimeWindow, string, string) (string, error) {
	return s.link, s.createErr
}

func TestInstrumented_PassesThroughAndObserves(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewAssistantMetrics(reg)
	createErr := errors.New("quota")
	port := &stubPort{
		busy:      []scheduling.BusyInterval{{Start: utc(10, 0), End: utc(10, 30)}},
		createErr: createErr,
	}
	inst := Instrument(port, "ics", m)
	window := scheduling.TimeWindow{Start: utc(9, 0), End: utc(12, 0)}

	busy, err := inst.ListBusy(context.Background(), window)
	require.NoError(t, err)
	assert.Equal(t, port.busy, busy)

	_, err = inst.CreateEvent(context.Background(), window, "t", "d")
	assert.ErrorIs(t, err, createErr)

	count, err := testutil.GatherAndCount(reg, "assistant_calendar_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestInstrumented_NilMetrics(t *testing.T) {
	inst := Instrument(&stubPort{link: "l"}, "google", nil)
	link, err := inst.CreateEvent(context.Background(), scheduling.TimeWindow{Start: utc(9, 0), End: utc(9, 30)}, "t", "d")
	require.NoError(t, err)
	assert.Equal(t, "l", link)
}
