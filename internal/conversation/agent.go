package conversation

import (
	"context"
	"errors"
	"time"

	"github.com/wolfman30/meeting-assistant/internal/intent"
	"github.com/wolfman30/meeting-assistant/internal/observability/metrics"
	"github.com/wolfman30/meeting-assistant/internal/scheduling"
	"github.com/wolfman30/meeting-assistant/pkg/logging"
)

// outcomeFallback labels chat turns answered by the general responder.
const outcomeFallback = "fallback"

// Scheduler runs the booking and availability flows.
type Scheduler interface {
	Negotiate(ctx context.Context, text string, now time.Time) scheduling.Outcome
	CheckAvailability(ctx context.Context, text string, now time.Time) scheduling.Outcome
}

// TranscriptRecorder persists chat messages for display. Optional.
type TranscriptRecorder interface {
	Append(ctx context.Context, sessionID string, msgs ...TranscriptMessage) error
}

// AgentOptions wires an Agent.
type AgentOptions struct {
	Router      *intent.Router
	Scheduler   Scheduler
	Responder   *Responder
	Transcripts TranscriptRecorder
	Metrics     *metrics.AssistantMetrics
	Location    *time.Location
	Logger      *logging.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Reply is the result of one chat turn.
type Reply struct {
	Text    string              `json:"response"`
	Intent  intent.Intent       `json:"intent"`
	Outcome *scheduling.Outcome `json:"outcome,omitempty"`
}

// Agent handles one chat message at a time. Messages are independent: nothing
// carries over from an earlier turn.
type Agent struct {
	router      *intent.Router
	scheduler   Scheduler
	responder   *Responder
	transcripts TranscriptRecorder
	metrics     *metrics.AssistantMetrics
	loc         *time.Location
	logger      *logging.Logger
	now         func() time.Time
}

func NewAgent(opts AgentOptions) (*Agent, error) {
	if opts.Scheduler == nil {
		return nil, errors.New("conversation: scheduler is required")
	}
	if opts.Router == nil {
		opts.Router = intent.NewRouter()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Agent{
		router:      opts.Router,
		scheduler:   opts.Scheduler,
		responder:   opts.Responder,
		transcripts: opts.Transcripts,
		metrics:     opts.Metrics,
		loc:         opts.Location,
		logger:      opts.Logger,
		now:         opts.Now,
	}, nil
}

// HandleMessage classifies text, runs the matching flow and renders the reply.
func (a *Agent) HandleMessage(ctx context.Context, text string) Reply {
	flow := a.router.Classify(text)
	now := a.now().In(a.loc)

	var reply Reply
	switch flow {
	case intent.Book:
		out := a.scheduler.Negotiate(ctx, text, now)
		reply = Reply{Text: RenderOutcome(flow, out, a.loc), Intent: flow, Outcome: &out}
	case intent.Check:
		out := a.scheduler.CheckAvailability(ctx, text, now)
		reply = Reply{Text: RenderOutcome(flow, out, a.loc), Intent: flow, Outcome: &out}
	default:
		reply = Reply{Text: a.responder.Respond(ctx, text), Intent: intent.Unclassified}
	}

	outcome := outcomeFallback
	if reply.Outcome != nil {
		outcome = string(reply.Outcome.Kind)
		if reply.Outcome.Err != nil && reply.Outcome.IsFailure() {
			a.logger.Error("scheduling turn failed", "intent", string(flow), "outcome", outcome, "error", reply.Outcome.Err)
		}
	}
	a.metrics.ObserveChatTurn(string(reply.Intent), outcome)
	a.logger.Debug("chat turn handled", "intent", string(reply.Intent), "outcome", outcome)
	return reply
}

// Turn handles a message and, when a transcript store and session are
// present, records both sides. Transcript errors are logged and swallowed.
func (a *Agent) Turn(ctx context.Context, sessionID, text string) Reply {
	asked := a.now().UTC()
	reply := a.HandleMessage(ctx, text)
	if a.transcripts == nil || sessionID == "" {
		return reply
	}

	answer := TranscriptMessage{
		Role:      ChatRoleAssistant,
		Text:      reply.Text,
		Intent:    string(reply.Intent),
		Timestamp: a.now().UTC(),
	}
	if reply.Outcome != nil {
		answer.Outcome = string(reply.Outcome.Kind)
	}
	err := a.transcripts.Append(ctx, sessionID,
		TranscriptMessage{Role: ChatRoleUser, Text: text, Timestamp: asked},
		answer,
	)
	if err != nil {
		a.logger.Warn("failed to record chat transcript", "session_id", sessionID, "error", err)
	}
	return reply
}
