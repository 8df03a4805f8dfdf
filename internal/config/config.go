package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/wolfman30/meeting-assistant/internal/scheduling"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	PublicBaseURL      string
	LogLevel           string
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int

	// Scheduling policy
	Timezone            string
	SlotDuration        time.Duration
	SearchWindow        time.Duration
	ExactMatchTolerance time.Duration
	WorkingHoursStart   int
	WorkingHoursEnd     int
	MaxSuggestions      int
	DefaultMeetingHour  int
	DateOrder           string
	AssistantName       string

	// Calendar backend
	CalendarProvider      string
	GoogleCredentialsPath string
	GoogleCalendarID      string
	ICSCalendarPath       string

	// LLM providers
	LLMProvider         string
	LLMFallbackProvider string
	LLMTemperature      float64
	LLMMaxTokens        int
	GeminiAPIKey        string
	GeminiModel         string
	OpenAIAPIKey        string
	OpenAIModel         string
	OpenAIBaseURL       string
	BedrockModelID      string
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Transcripts
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	TranscriptTTL time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	defaults := scheduling.DefaultConfig()
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		PublicBaseURL:      strings.TrimRight(getEnv("PUBLIC_BASE_URL", ""), "/"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RateLimitRPS:       getEnvAsFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),

		Timezone:            getEnv("TIMEZONE", "Asia/Kolkata"),
		SlotDuration:        getEnvAsDuration("SLOT_DURATION", defaults.SlotDuration),
		SearchWindow:        getEnvAsDuration("SEARCH_WINDOW", defaults.SearchWindow),
		ExactMatchTolerance: getEnvAsDuration("EXACT_MATCH_TOLERANCE", defaults.ExactMatchTolerance),
		WorkingHoursStart:   getEnvAsInt("WORKING_HOURS_START", defaults.WorkStartHour),
		WorkingHoursEnd:     getEnvAsInt("WORKING_HOURS_END", defaults.WorkEndHour),
		MaxSuggestions:      getEnvAsInt("MAX_SUGGESTIONS", defaults.MaxSuggestions),
		DefaultMeetingHour:  getEnvAsInt("DEFAULT_MEETING_HOUR", defaults.DefaultHour),
		DateOrder:           strings.ToUpper(strings.TrimSpace(getEnv("DATE_ORDER", string(defaults.DateOrder)))),
		AssistantName:       getEnv("ASSISTANT_NAME", defaults.AssistantName),

		CalendarProvider:      strings.ToLower(strings.TrimSpace(getEnv("CALENDAR_PROVIDER", "google"))),
		GoogleCredentialsPath: getEnv("GOOGLE_CREDENTIALS_PATH", "credentials.json"),
		GoogleCalendarID:      getEnv("GOOGLE_CALENDAR_ID", "primary"),
		ICSCalendarPath:       getEnv("ICS_CALENDAR_PATH", "calendar.ics"),

		LLMProvider:         strings.ToLower(strings.TrimSpace(getEnv("LLM_PROVIDER", "none"))),
		LLMFallbackProvider: strings.ToLower(strings.TrimSpace(getEnv("LLM_FALLBACK_PROVIDER", ""))),
		LLMTemperature:      getEnvAsFloat("LLM_TEMPERATURE", 0.7),
		LLMMaxTokens:        getEnvAsInt("LLM_MAX_TOKENS", 256),
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		GeminiModel:         getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:         getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		OpenAIBaseURL:       getEnv("OPENAI_BASE_URL", ""),
		BedrockModelID:      getEnv("BEDROCK_MODEL_ID", ""),
		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
		TranscriptTTL: getEnvAsDuration("TRANSCRIPT_TTL", 24*time.Hour),
	}
}

// SchedulingConfig builds and validates the scheduling policy.
func (c *Config) SchedulingConfig() (scheduling.Config, error) {
	loc, err := scheduling.LoadLocation(c.Timezone)
	if err != nil {
		return scheduling.Config{}, fmt.Errorf("config: TIMEZONE: %w", err)
	}
	sc := scheduling.Config{
		Location:            loc,
		SlotDuration:        c.SlotDuration,
		SearchWindow:        c.SearchWindow,
		ExactMatchTolerance: c.ExactMatchTolerance,
		WorkStartHour:       c.WorkingHoursStart,
		WorkEndHour:         c.WorkingHoursEnd,
		MaxSuggestions:      c.MaxSuggestions,
		DefaultHour:         c.DefaultMeetingHour,
		DateOrder:           scheduling.DateOrder(c.DateOrder),
		AssistantName:       c.AssistantName,
	}
	if err := sc.Validate(); err != nil {
		return scheduling.Config{}, err
	}
	return sc, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping empty entries.
func getEnvAsList(key string, defaultValue []string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
