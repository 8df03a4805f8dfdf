package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/meeting-assistant/internal/intent"
	"github.com/wolfman30/meeting-assistant/pkg/logging"
)

type stubTurns struct {
	reply     Reply
	sessionID string
	text      string
}

func (s *stubTurns) Turn(_ context.Context, sessionID, text string) Reply {
	s.sessionID, s.text = sessionID, text
	return s.reply
}

type stubLister struct {
	msgs []TranscriptMessage
	err  error
}

func (s *stubLister) List(context.Context, string, int64) ([]TranscriptMessage, error) {
	return s.msgs, s.err
}

func TestHandler_Chat(t *testing.T) {
	turns := &stubTurns{reply: Reply{Text: GreetingReply, Intent: intent.Unclassified}}
	h := NewHandler(turns, nil, logging.Nop())

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"hello","session_id":" s1 "}`))
	w := httptest.NewRecorder()
	h.Chat(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp ChatResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, GreetingReply, resp.Response)
	assert.Equal(t, "unclassified", resp.Intent)
	assert.Equal(t, "s1", turns.sessionID)
	assert.Equal(t, "hello", turns.text)
}

func TestHandler_Chat_BadRequests(t *testing.T) {
	for _, body := range []string{`{`, `{"message":"   "}`, `{}`} {
		h := NewHandler(&stubTurns{}, nil, logging.Nop())
		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
		w := httptest.NewRecorder()
		h.Chat(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func historyRequest(t *testing.T, h *Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/chat/{sessionID}/history", h.History)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHandler_History(t *testing.T) {
	lister := &stubLister{msgs: []TranscriptMessage{{Role: ChatRoleUser, Text: "hi"}}}
	h := NewHandler(&stubTurns{}, lister, logging.Nop())

	w := historyRequest(t, h, "/chat/sess-9/history?limit=10")

	require.Equal(t, http.StatusOK, w.Code)
	var resp HistoryResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "sess-9", resp.SessionID)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "hi", resp.Messages[0].Text)
}

func TestHandler_History_Errors(t *testing.T) {
	var disabled *TranscriptStore
	tests := []struct {
		name   string
		lister TranscriptLister
		target string
		want   int
	}{
		{"no store", nil, "/chat/s/history", http.StatusNotFound},
		{"nil redis store", disabled, "/chat/s/history", http.StatusNotFound},
		{"bad limit", &stubLister{}, "/chat/s/history?limit=abc", http.StatusBadRequest},
		{"store error", &stubLister{err: errors.New("redis down")}, "/chat/s/history", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&stubTurns{}, tt.lister, logging.Nop())
			w := historyRequest(t, h, tt.target)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
