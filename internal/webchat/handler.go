// Package webchat serves the chat agent over a WebSocket.
package webchat

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/wolfman30/meeting-assistant/internal/conversation"
	"github.com/wolfman30/meeting-assistant/pkg/logging"
)

const (
	maxMessageBytes = 8 << 10
	historyLimit    = 50
	pongWait        = 60 * time.Second
	writeWait       = 10 * time.Second
)

// InboundMessage is what the widget sends.
type InboundMessage struct {
	Type string `json:"type"` // "message", "ping"
	Text string `json:"text"`
}

// OutboundMessage is what we send to the widget.
type OutboundMessage struct {
	Type      string           `json:"type"` // "session", "history", "message", "pong", "error"
	Text      string           `json:"text,omitempty"`
	Role      string           `json:"role,omitempty"`
	Intent    string           `json:"intent,omitempty"`
	SessionID string           `json:"session_id,omitempty"`
	Timestamp string           `json:"timestamp,omitempty"`
	Messages  []HistoryMessage `json:"messages,omitempty"`
}

// HistoryMessage is a simplified transcript entry.
type HistoryMessage struct {
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// Handler upgrades GET /chat/ws and runs one agent turn per inbound message.
type Handler struct {
	agent       conversation.TurnHandler
	transcripts conversation.TranscriptLister
	upgrader    websocket.Upgrader
	logger      *logging.Logger
}

// NewHandler creates a web chat handler. transcripts may be nil. An empty
// allowedOrigins list or a "*" entry accepts any origin.
func NewHandler(agent conversation.TurnHandler, transcripts conversation.TranscriptLister, allowedOrigins []string, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		agent:       agent,
		transcripts: transcripts,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// HandleWebSocket upgrades the connection and serves it until the client
// disconnects. The optional "session" query parameter resumes a transcript.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("webchat: upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sessionID := strings.TrimSpace(r.URL.Query().Get("session"))
	if sessionID == "" {
		sessionID = generateSessionID()
	}
	h.serve(r.Context(), conn, sessionID)
}

func (h *Handler) serve(ctx context.Context, conn *websocket.Conn, sessionID string) {
	conn.SetReadLimit(maxMessageBytes)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	if err := h.send(conn, OutboundMessage{Type: "session", SessionID: sessionID}); err != nil {
		return
	}
	if history := h.history(ctx, sessionID); len(history) > 0 {
		if err := h.send(conn, OutboundMessage{Type: "history", Messages: history}); err != nil {
			return
		}
	}

	h.logger.Info("webchat: connection opened", "session_id", sessionID)
	for {
		var msg InboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("webchat: read failed", "session_id", sessionID, "error", err)
			} else {
				h.logger.Debug("webchat: connection closed", "session_id", sessionID)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		var out OutboundMessage
		switch msg.Type {
		case "ping":
			out = OutboundMessage{Type: "pong"}
		case "message":
			if strings.TrimSpace(msg.Text) == "" {
				out = OutboundMessage{Type: "error", Text: "message text is required"}
				break
			}
			reply := h.agent.Turn(ctx, sessionID, msg.Text)
			out = OutboundMessage{
				Type:      "message",
				Role:      conversation.ChatRoleAssistant,
				Text:      reply.Text,
				Intent:    string(reply.Intent),
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			}
		default:
			out = OutboundMessage{Type: "error", Text: "unsupported message type"}
		}

		if err := h.send(conn, out); err != nil {
			h.logger.Warn("webchat: write failed", "session_id", sessionID, "error", err)
			return
		}
	}
}

func (h *Handler) send(conn *websocket.Conn, msg OutboundMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}

func (h *Handler) history(ctx context.Context, sessionID string) []HistoryMessage {
	if h.transcripts == nil {
		return nil
	}
	msgs, err := h.transcripts.List(ctx, sessionID, historyLimit)
	if err != nil {
		h.logger.Warn("webchat: failed to load history", "session_id", sessionID, "error", err)
		return nil
	}
	history := make([]HistoryMessage, 0, len(msgs))
	for _, m := range msgs {
		history = append(history, HistoryMessage{
			Role:      m.Role,
			Text:      m.Text,
			Timestamp: m.Timestamp.Format(time.RFC3339),
		})
	}
	return history
}

func originChecker(allowed []string) func(*http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		if origin != "" {
			set[strings.TrimRight(origin, "/")] = struct{}{}
		}
	}
	if len(set) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// generateSessionID creates a random session identifier.
func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return uuid.New().String()
	}
	return hex.EncodeToString(b)
}
