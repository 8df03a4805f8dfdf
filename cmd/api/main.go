package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wolfman30/meeting-assistant/cmd/mainconfig"
	"github.com/wolfman30/meeting-assistant/internal/api/router"
	"github.com/wolfman30/meeting-assistant/internal/app/bootstrap"
	appconfig "github.com/wolfman30/meeting-assistant/internal/config"
	"github.com/wolfman30/meeting-assistant/internal/conversation"
	"github.com/wolfman30/meeting-assistant/internal/scheduling"
	"github.com/wolfman30/meeting-assistant/internal/webchat"
	"github.com/wolfman30/meeting-assistant/pkg/logging"
)

func main() {
	envErr := godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	if envErr != nil {
		logger.Debug("no .env file loaded", "error", envErr)
	}
	logger.Info("starting meeting-assistant API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"calendar", cfg.CalendarProvider,
		"llm", cfg.LLMProvider,
	)

	assistant, err := bootstrap.BuildAssistant(context.Background(), cfg, bootstrap.AssistantDeps{
		LoadAWS: mainconfig.Loader(cfg),
	}, logger)
	if err != nil {
		logger.Error("failed to build assistant", "error", err)
		os.Exit(1)
	}
	defer assistant.Close()

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newHandler(cfg, assistant, promhttp.Handler(), logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

func newHandler(cfg *appconfig.Config, assistant *bootstrap.Assistant, metricsHandler http.Handler, logger *logging.Logger) http.Handler {
	var transcripts conversation.TranscriptLister
	if assistant.Transcripts != nil {
		transcripts = assistant.Transcripts
	}
	return router.New(&router.Config{
		Logger:             logger,
		SchedulingHandler:  scheduling.NewHandler(assistant.Calendar, assistant.Scheduling, logger),
		ChatHandler:        conversation.NewHandler(assistant.Agent, transcripts, logger),
		WebChat:            webchat.NewHandler(assistant.Agent, transcripts, cfg.CORSAllowedOrigins, logger),
		CalendarEvents:     assistant.CalendarEvents,
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
	})
}
