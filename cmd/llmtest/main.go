package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/wolfman30/meeting-assistant/cmd/mainconfig"
	"github.com/wolfman30/meeting-assistant/internal/app/bootstrap"
	appconfig "github.com/wolfman30/meeting-assistant/internal/config"
	"github.com/wolfman30/meeting-assistant/internal/conversation"
	"github.com/wolfman30/meeting-assistant/pkg/logging"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	prompt := "hi, what can you do?"
	if len(os.Args) > 1 {
		prompt = strings.Join(os.Args[1:], " ")
	}
	divider := strings.Repeat("=", 60)

	fmt.Println(divider)
	fmt.Println("LLM Provider Test")
	fmt.Println(divider)
	fmt.Printf("primary=%q fallback=%q\n", cfg.LLMProvider, cfg.LLMFallbackProvider)

	client, err := bootstrap.BuildLLMClient(ctx, cfg, mainconfig.Loader(cfg), nil, logger)
	if err != nil {
		fmt.Printf("❌ Failed to build LLM client: %v\n", err)
		os.Exit(1)
	}
	if client == nil {
		fmt.Println("Skipping model call (LLM_PROVIDER is none); canned reply:")
		fmt.Println("    " + conversation.CannedReply(prompt))
		return
	}

	req := conversation.LLMRequest{
		System:      []string{conversation.DefaultSystemPrompt(cfg.AssistantName)},
		Messages:    []conversation.ChatMessage{{Role: conversation.ChatRoleUser, Content: prompt}},
		MaxTokens:   int32(cfg.LLMMaxTokens),
		Temperature: float32(cfg.LLMTemperature),
	}

	start := time.Now()
	resp, err := client.Complete(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		fmt.Printf("❌ Completion error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Response (%v):\n", elapsed.Round(time.Millisecond))
	fmt.Printf("    %s\n", resp.Text)
	fmt.Printf("    Tokens: in=%d, out=%d\n", resp.Usage.InputTokens, resp.Usage.OutputTokens)
}
