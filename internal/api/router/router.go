package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/wolfman30/meeting-assistant/internal/conversation"
	httpmiddleware "github.com/wolfman30/meeting-assistant/internal/http/middleware"
	"github.com/wolfman30/meeting-assistant/internal/scheduling"
	"github.com/wolfman30/meeting-assistant/internal/webchat"
	"github.com/wolfman30/meeting-assistant/pkg/logging"
)

const rootMessage = "🎯 Meeting Assistant backend is live!"

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	SchedulingHandler  *scheduling.Handler
	ChatHandler        *conversation.Handler
	WebChat            *webchat.Handler
	CalendarEvents     http.Handler // set when the ICS backend serves booking links
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Liveness and scraping
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"message": rootMessage})
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}
	if cfg.CalendarEvents != nil {
		r.Handle("/calendar/events/{uid}", cfg.CalendarEvents)
	}

	// Rate-limited API
	r.Group(func(api chi.Router) {
		api.Use(httpmiddleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

		if cfg.SchedulingHandler != nil {
			api.Post("/get-available-slots", cfg.SchedulingHandler.AvailableSlots)
			api.Post("/book-slot", cfg.SchedulingHandler.BookSlot)
		}
		if cfg.ChatHandler != nil {
			api.Post("/chat", cfg.ChatHandler.Chat)
			api.Get("/chat/{sessionID}/history", cfg.ChatHandler.History)
		}
		if cfg.WebChat != nil {
			api.Get("/chat/ws", cfg.WebChat.HandleWebSocket)
		}
	})

	return r
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(payload)
}
