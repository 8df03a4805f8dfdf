package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/wolfman30/meeting-assistant/internal/conversation"
	"github.com/wolfman30/meeting-assistant/internal/intent"
)

type recordingAgent struct {
	sessionID string
	text      string
}

func (a *recordingAgent) Turn(_ context.Context, sessionID, text string) conversation.Reply {
	a.sessionID = sessionID
	a.text = text
	return conversation.Reply{Text: "🕒 Here are your free slots: 10:00 AM", Intent: intent.Check}
}

func request(method, path, body string, base64Encoded bool) events.APIGatewayV2HTTPRequest {
	return events.APIGatewayV2HTTPRequest{
		RawPath:         path,
		Body:            body,
		IsBase64Encoded: base64Encoded,
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
				Method: method,
				Path:   path,
			},
		},
	}
}

func TestHandleHealth(t *testing.T) {
	resp, err := handle(context.Background(), &recordingAgent{}, request(http.MethodGet, "/health", "", false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK || resp.Body != "ok" {
		t.Fatalf("unexpected health response %+v", resp)
	}
}

func TestHandleChat(t *testing.T) {
	agent := &recordingAgent{}
	body := base64.StdEncoding.EncodeToString([]byte(`{"message":"check availability this Friday","session_id":"s-1"}`))

	resp, err := handle(context.Background(), agent, request(http.MethodPost, "/chat", body, true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if agent.sessionID != "s-1" || agent.text != "check availability this Friday" {
		t.Fatalf("agent got %q / %q", agent.sessionID, agent.text)
	}

	var out conversation.ChatResponse
	if err := json.Unmarshal([]byte(resp.Body), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Intent != "check" || out.Response == "" {
		t.Fatalf("unexpected chat response %+v", out)
	}
	if resp.Headers["content-type"] != "application/json" {
		t.Fatalf("expected json content type, got %q", resp.Headers["content-type"])
	}
}

func TestHandleRejects(t *testing.T) {
	tests := []struct {
		name   string
		evt    events.APIGatewayV2HTTPRequest
		status int
	}{
		{"unknown path", request(http.MethodPost, "/book-slot", "{}", false), http.StatusNotFound},
		{"wrong method", request(http.MethodGet, "/chat", "", false), http.StatusMethodNotAllowed},
		{"bad base64", request(http.MethodPost, "/chat", "%%%", true), http.StatusBadRequest},
		{"bad json", request(http.MethodPost, "/chat", "{", false), http.StatusBadRequest},
		{"empty message", request(http.MethodPost, "/chat", `{"message":"  "}`, false), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := &recordingAgent{}
			resp, err := handle(context.Background(), agent, tt.evt)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.StatusCode != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.StatusCode)
			}
			if agent.text != "" {
				t.Fatalf("agent should not run, got %q", agent.text)
			}
		})
	}
}
