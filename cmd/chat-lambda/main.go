package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	_ "time/tzdata"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/wolfman30/meeting-assistant/cmd/mainconfig"
	"github.com/wolfman30/meeting-assistant/internal/app/bootstrap"
	appconfig "github.com/wolfman30/meeting-assistant/internal/config"
	"github.com/wolfman30/meeting-assistant/internal/conversation"
	"github.com/wolfman30/meeting-assistant/pkg/logging"
)

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel).With("component", "chat-lambda")

	assistant, err := bootstrap.BuildAssistant(context.Background(), cfg, bootstrap.AssistantDeps{
		LoadAWS: mainconfig.Loader(cfg),
	}, logger)
	if err != nil {
		panic(err)
	}

	lambda.Start(func(ctx context.Context, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		return handle(ctx, assistant.Agent, evt)
	})
}

func handle(ctx context.Context, agent conversation.TurnHandler, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	method := strings.ToUpper(strings.TrimSpace(evt.RequestContext.HTTP.Method))
	path := strings.TrimSpace(evt.RawPath)
	if path == "" {
		path = strings.TrimSpace(evt.RequestContext.HTTP.Path)
	}

	switch path {
	case "/health", "/_health":
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusOK, Body: "ok"}, nil
	case "/chat":
	default:
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusNotFound}, nil
	}
	if method != http.MethodPost {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusMethodNotAllowed}, nil
	}

	body, err := decodeBody(evt)
	if err != nil {
		return textResponse(http.StatusBadRequest, "invalid body"), nil
	}
	var req conversation.ChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return textResponse(http.StatusBadRequest, "invalid body"), nil
	}
	if strings.TrimSpace(req.Message) == "" {
		return textResponse(http.StatusBadRequest, "message is required"), nil
	}

	reply := agent.Turn(ctx, req.SessionID, req.Message)
	payload, err := json.Marshal(conversation.ChatResponse{Response: reply.Text, Intent: string(reply.Intent)})
	if err != nil {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusInternalServerError}, nil
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusOK,
		Body:       string(payload),
		Headers:    map[string]string{"content-type": "application/json"},
	}, nil
}

func textResponse(status int, body string) events.APIGatewayV2HTTPResponse {
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Body:       body,
		Headers:    map[string]string{"content-type": "text/plain; charset=utf-8"},
	}
}

func decodeBody(evt events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if !evt.IsBase64Encoded {
		return []byte(evt.Body), nil
	}
	return base64.StdEncoding.DecodeString(evt.Body)
}
