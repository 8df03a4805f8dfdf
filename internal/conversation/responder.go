package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfman30/meeting-assistant/internal/observability/metrics"
	"github.com/wolfman30/meeting-assistant/pkg/logging"
)

// DefaultSystemPrompt introduces the assistant to the language model.
func DefaultSystemPrompt(assistantName string) string {
	if strings.TrimSpace(assistantName) == "" {
		assistantName = "a meeting assistant"
	}
	return fmt.Sprintf("You are %s, a friendly assistant that helps people manage and book meetings. "+
		"Answer briefly. If the user wants to book or check a time, tell them to say something like "+
		"'book a meeting tomorrow at 10 AM' or 'check availability this Friday'.", assistantName)
}

// ResponderConfig tunes the language model call.
type ResponderConfig struct {
	Model        string
	SystemPrompt string
	Temperature  float32
	MaxTokens    int32
}

// Responder produces general chat replies. It asks the language model first
// and falls back to canned small talk when the model is missing, errors, or
// answers with nothing.
type Responder struct {
	llm     LLMClient
	cfg     ResponderConfig
	metrics *metrics.AssistantMetrics
	logger  *logging.Logger
}

// NewResponder creates a responder. llm may be nil, in which case every reply
// is canned.
func NewResponder(llm LLMClient, cfg ResponderConfig, m *metrics.AssistantMetrics, logger *logging.Logger) *Responder {
	if logger == nil {
		logger = logging.Default()
	}
	return &Responder{llm: llm, cfg: cfg, metrics: m, logger: logger}
}

// Respond never fails outward.
func (r *Responder) Respond(ctx context.Context, text string) string {
	if r == nil || r.llm == nil {
		return CannedReply(text)
	}

	req := LLMRequest{
		Model:       r.cfg.Model,
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: text}},
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
	}
	if r.cfg.SystemPrompt != "" {
		req.System = []string{r.cfg.SystemPrompt}
	}

	resp, err := r.llm.Complete(ctx, req)
	if err != nil {
		r.logger.Warn("llm reply failed, using canned reply", "error", err)
		r.metrics.ObserveLLMFallback("model_error")
		return CannedReply(text)
	}
	reply := strings.TrimSpace(resp.Text)
	if reply == "" {
		r.logger.Warn("llm returned empty reply, using canned reply", "stop_reason", resp.StopReason)
		r.metrics.ObserveLLMFallback("empty_completion")
		return CannedReply(text)
	}
	return reply
}
