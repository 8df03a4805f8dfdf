package conversation

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/meeting-assistant/internal/observability/metrics"
	"github.com/wolfman30/meeting-assistant/pkg/logging"
)

func TestResponder_UsesModelReply(t *testing.T) {
	llm := &stubLLM{resp: LLMResponse{Text: "  Sure, happy to chat!  "}}
	r := NewResponder(llm, ResponderConfig{Model: "m1", SystemPrompt: "be brief", Temperature: 0.7, MaxTokens: 200}, nil, logging.Nop())

	got := r.Respond(context.Background(), "tell me a joke")

	assert.Equal(t, "Sure, happy to chat!", got)
	require.Equal(t, 1, llm.calls)
	assert.Equal(t, "m1", llm.last.Model)
	assert.Equal(t, []string{"be brief"}, llm.last.System)
	assert.Equal(t, []ChatMessage{{Role: ChatRoleUser, Content: "tell me a joke"}}, llm.last.Messages)
	assert.InDelta(t, 0.7, llm.last.Temperature, 1e-6)
	assert.Equal(t, int32(200), llm.last.MaxTokens)
}

func TestResponder_FallsBackToCannedReplies(t *testing.T) {
	tests := []struct {
		name   string
		llm    *stubLLM
		reason string
	}{
		{"model error", &stubLLM{err: errModelDown}, "model_error"},
		{"empty completion", &stubLLM{resp: LLMResponse{Text: "   "}}, "empty_completion"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := prometheus.NewRegistry()
			m := metrics.NewAssistantMetrics(reg)
			r := NewResponder(tt.llm, ResponderConfig{}, m, logging.Nop())

			assert.Equal(t, GreetingReply, r.Respond(context.Background(), "hello"))
			assert.Equal(t, 1, tt.llm.calls)

			expected := "\n# HELP assistant_llm_fallback_total Times a language model call was replaced by a fallback\n" +
				"# TYPE assistant_llm_fallback_total counter\n" +
				"assistant_llm_fallback_total{reason=\"" + tt.reason + "\"} 1\n"
			require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "assistant_llm_fallback_total"))
		})
	}
}

func TestResponder_WithoutModel(t *testing.T) {
	r := NewResponder(nil, ResponderConfig{}, nil, logging.Nop())
	assert.Equal(t, ThanksReply, r.Respond(context.Background(), "thanks!"))

	var nilResponder *Responder
	assert.Equal(t, CapabilityReply, nilResponder.Respond(context.Background(), "what?"))
}

func TestDefaultSystemPrompt(t *testing.T) {
	assert.Contains(t, DefaultSystemPrompt("Ava"), "You are Ava,")
	assert.Contains(t, DefaultSystemPrompt(""), "You are a meeting assistant,")
}
