package metrics

import "github.com/prometheus/client_golang/prometheus"

// AssistantMetrics exposes counters/histograms for chat turns and their
// external calls.
type AssistantMetrics struct {
	chatTurns       *prometheus.CounterVec
	llmFallback     *prometheus.CounterVec
	calendarLatency *prometheus.HistogramVec
}

func NewAssistantMetrics(reg prometheus.Registerer) *AssistantMetrics {
	m := &AssistantMetrics{
		chatTurns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "assistant",
			Name:      "chat_turns_total",
			Help:      "Chat turns handled, by routed intent and outcome",
		}, []string{"intent", "outcome"}),
		llmFallback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "assistant",
			Name:      "llm_fallback_total",
			Help:      "Times a language model call was replaced by a fallback",
		}, []string{"reason"}),
		calendarLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "assistant",
			Name:      "calendar_request_duration_seconds",
			Help:      "Latency of calendar provider calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.chatTurns, m.llmFallback, m.calendarLatency)
	return m
}

func (m *AssistantMetrics) ObserveChatTurn(intent, outcome string) {
	if m == nil {
		return
	}
	m.chatTurns.WithLabelValues(intent, outcome).Inc()
}

func (m *AssistantMetrics) ObserveLLMFallback(reason string) {
	if m == nil {
		return
	}
	m.llmFallback.WithLabelValues(reason).Inc()
}

func (m *AssistantMetrics) ObserveCalendarRequest(operation, status string, seconds float64) {
	if m == nil {
		return
	}
	m.calendarLatency.WithLabelValues(operation, status).Observe(seconds)
}
