package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	appconfig "github.com/wolfman30/meeting-assistant/internal/config"
	"github.com/wolfman30/meeting-assistant/internal/conversation"
	"github.com/wolfman30/meeting-assistant/internal/observability/metrics"
	"github.com/wolfman30/meeting-assistant/pkg/logging"
)

// Provider names accepted by LLM_PROVIDER and LLM_FALLBACK_PROVIDER.
const (
	ProviderNone    = "none"
	ProviderGemini  = "gemini"
	ProviderBedrock = "bedrock"
	ProviderOpenAI  = "openai"
)

// AWSConfigLoader resolves the shared AWS SDK config for Bedrock.
type AWSConfigLoader func(ctx context.Context) (aws.Config, error)

// BuildLLMClient wires the configured primary provider and, when set, a
// fallback behind it. A nil client with a nil error means canned replies only.
func BuildLLMClient(ctx context.Context, cfg *appconfig.Config, loadAWS AWSConfigLoader, m *metrics.AssistantMetrics, logger *logging.Logger) (conversation.LLMClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	primary, err := buildProvider(ctx, cfg.LLMProvider, cfg, loadAWS)
	if err != nil {
		return nil, err
	}
	if primary == nil {
		logger.Warn("no LLM provider configured; general chat uses canned replies")
		return nil, nil
	}

	fallbackName := cfg.LLMFallbackProvider
	if fallbackName == "" || fallbackName == cfg.LLMProvider {
		logger.Info("LLM client ready", "provider", cfg.LLMProvider)
		return primary, nil
	}
	fallback, err := buildProvider(ctx, fallbackName, cfg, loadAWS)
	if err != nil {
		logger.Warn("LLM fallback provider unavailable", "provider", fallbackName, "error", err)
		return primary, nil
	}
	if fallback == nil {
		return primary, nil
	}

	logger.Info("LLM client ready", "provider", cfg.LLMProvider, "fallback", fallbackName)
	return conversation.NewFallbackLLMClient(primary, fallback, m, logger), nil
}

func buildProvider(ctx context.Context, name string, cfg *appconfig.Config, loadAWS AWSConfigLoader) (conversation.LLMClient, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ProviderNone:
		return nil, nil
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("bootstrap: GEMINI_API_KEY is required for the gemini provider")
		}
		client, err := conversation.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: gemini client: %w", err)
		}
		return client, nil
	case ProviderBedrock:
		if cfg.BedrockModelID == "" {
			return nil, fmt.Errorf("bootstrap: BEDROCK_MODEL_ID is required for the bedrock provider")
		}
		if loadAWS == nil {
			return nil, fmt.Errorf("bootstrap: aws config loader is required for the bedrock provider")
		}
		awsCfg, err := loadAWS(ctx)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: load aws config: %w", err)
		}
		return conversation.NewBedrockLLMClient(bedrockruntime.NewFromConfig(awsCfg), cfg.BedrockModelID), nil
	case ProviderOpenAI:
		client, err := conversation.NewOpenAILLMClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: openai client: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown LLM provider %q", name)
	}
}
