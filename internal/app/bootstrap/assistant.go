package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	appconfig "github.com/wolfman30/meeting-assistant/internal/config"
	"github.com/wolfman30/meeting-assistant/internal/conversation"
	"github.com/wolfman30/meeting-assistant/internal/intent"
	"github.com/wolfman30/meeting-assistant/internal/observability/metrics"
	"github.com/wolfman30/meeting-assistant/internal/scheduling"
	"github.com/wolfman30/meeting-assistant/pkg/logging"
)

// AssistantDeps overrides pieces of the assistant, mainly for tests. Zero
// values mean "build from config".
type AssistantDeps struct {
	Registerer prometheus.Registerer
	Calendar   scheduling.CalendarPort
	LLM        conversation.LLMClient
	Redis      *redis.Client
	LoadAWS    AWSConfigLoader
}

// Assistant is everything a binary needs to serve chat turns.
type Assistant struct {
	Scheduling     scheduling.Config
	Calendar       scheduling.CalendarPort
	CalendarEvents http.Handler
	Negotiator     *scheduling.Negotiator
	Agent          *conversation.Agent
	Transcripts    *conversation.TranscriptStore
	Metrics        *metrics.AssistantMetrics

	llm   conversation.LLMClient
	redis *redis.Client
}

// BuildAssistant wires config into a ready Agent.
func BuildAssistant(ctx context.Context, cfg *appconfig.Config, deps AssistantDeps, logger *logging.Logger) (*Assistant, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	sched, err := cfg.SchedulingConfig()
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	m := metrics.NewAssistantMetrics(deps.Registerer)

	backend := CalendarBackend{Port: deps.Calendar}
	if backend.Port == nil {
		backend, err = BuildCalendar(ctx, cfg, sched, m, logger)
		if err != nil {
			return nil, err
		}
	}

	llm := deps.LLM
	if llm == nil {
		llm, err = BuildLLMClient(ctx, cfg, deps.LoadAWS, m, logger)
		if err != nil {
			return nil, err
		}
	}

	redisClient := deps.Redis
	if redisClient == nil {
		redisClient = BuildRedisClient(ctx, cfg, logger, true)
	}
	transcripts := BuildTranscriptStore(redisClient, cfg)

	negotiator := scheduling.NewNegotiator(backend.Port, nil, sched, logger)
	responder := conversation.NewResponder(llm, conversation.ResponderConfig{
		SystemPrompt: conversation.DefaultSystemPrompt(sched.AssistantName),
		Temperature:  float32(cfg.LLMTemperature),
		MaxTokens:    int32(cfg.LLMMaxTokens),
	}, m, logger)

	opts := conversation.AgentOptions{
		Router:    intent.NewRouter(),
		Scheduler: negotiator,
		Responder: responder,
		Metrics:   m,
		Location:  sched.Location,
		Logger:    logger,
	}
	if transcripts != nil {
		opts.Transcripts = transcripts
	}
	agent, err := conversation.NewAgent(opts)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &Assistant{
		Scheduling:     sched,
		Calendar:       backend.Port,
		CalendarEvents: backend.Events,
		Negotiator:     negotiator,
		Agent:          agent,
		Transcripts:    transcripts,
		Metrics:        m,
		llm:            llm,
		redis:          redisClient,
	}, nil
}

// Close releases the Redis pool and any LLM client connection.
func (a *Assistant) Close() error {
	if a == nil {
		return nil
	}
	var errs []error
	if closer, ok := a.llm.(io.Closer); ok {
		errs = append(errs, closer.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	return errors.Join(errs...)
}
