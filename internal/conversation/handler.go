package conversation

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/meeting-assistant/pkg/logging"
)

const defaultHistoryLimit = 100

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse is what POST /chat returns.
type ChatResponse struct {
	Response string `json:"response"`
	Intent   string `json:"intent"`
}

// HistoryResponse is what GET /chat/{sessionID}/history returns.
type HistoryResponse struct {
	SessionID string              `json:"session_id"`
	Messages  []TranscriptMessage `json:"messages"`
}

// TurnHandler runs one chat turn.
type TurnHandler interface {
	Turn(ctx context.Context, sessionID, text string) Reply
}

// TranscriptLister reads a session transcript.
type TranscriptLister interface {
	List(ctx context.Context, sessionID string, limit int64) ([]TranscriptMessage, error)
}

// Handler wires HTTP requests to the chat agent.
type Handler struct {
	agent       TurnHandler
	transcripts TranscriptLister
	logger      *logging.Logger
}

// NewHandler creates a chat handler. transcripts may be nil.
func NewHandler(agent TurnHandler, transcripts TranscriptLister, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		agent:       agent,
		transcripts: transcripts,
		logger:      logger,
	}
}

// Chat handles POST /chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode chat request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	reply := h.agent.Turn(r.Context(), strings.TrimSpace(req.SessionID), req.Message)
	h.writeJSON(w, http.StatusOK, ChatResponse{Response: reply.Text, Intent: string(reply.Intent)})
}

// History handles GET /chat/{sessionID}/history.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	if h.transcripts == nil || isNilStore(h.transcripts) {
		http.Error(w, "Chat history is not enabled", http.StatusNotFound)
		return
	}
	sessionID := strings.TrimSpace(chi.URLParam(r, "sessionID"))
	if sessionID == "" {
		http.Error(w, "session id is required", http.StatusBadRequest)
		return
	}

	limit := int64(defaultHistoryLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	msgs, err := h.transcripts.List(r.Context(), sessionID, limit)
	if err != nil {
		h.logger.Error("failed to list chat history", "session_id", sessionID, "error", err)
		http.Error(w, "Failed to load chat history", http.StatusInternalServerError)
		return
	}
	if msgs == nil {
		msgs = []TranscriptMessage{}
	}
	h.writeJSON(w, http.StatusOK, HistoryResponse{SessionID: sessionID, Messages: msgs})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}

func isNilStore(l TranscriptLister) bool {
	s, ok := l.(*TranscriptStore)
	return ok && s == nil
}
