package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockConverse implements BedrockConverseAPI for testing.
type mockConverse struct {
	out   *bedrockruntime.ConverseOutput
	err   error
	input *bedrockruntime.ConverseInput
}

func (m *mockConverse) Converse(_ context.Context, in *bedrockruntime.ConverseInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	m.input = in
	return m.out, m.err
}

func textOutput(text string) *bedrockruntime.ConverseOutput {
	return &bedrockruntime.ConverseOutput{
		Output: &brtypes.ConverseOutputMemberMessage{
			Value: brtypes.Message{
				Role:    brtypes.ConversationRoleAssistant,
				Content: []brtypes.ContentBlock{&brtypes.ContentBlockMemberText{Value: text}},
			},
		},
		StopReason: brtypes.StopReasonEndTurn,
		Usage: &brtypes.TokenUsage{
			InputTokens:  aws.Int32(12),
			OutputTokens: aws.Int32(4),
			TotalTokens:  aws.Int32(16),
		},
	}
}

func TestBedrockLLMClient_Complete(t *testing.T) {
	api := &mockConverse{out: textOutput(" Hello there ")}
	client := NewBedrockLLMClient(api, "anthropic.claude-3-haiku")

	resp, err := client.Complete(context.Background(), LLMRequest{
		System:      []string{"be brief", " "},
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: "hi"}, {Role: ChatRoleUser, Content: "  "}},
		MaxTokens:   100,
		Temperature: 0.5,
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello there", resp.Text)
	assert.Equal(t, "end_turn", resp.StopReason)
	assert.Equal(t, TokenUsage{InputTokens: 12, OutputTokens: 4, TotalTokens: 16}, resp.Usage)

	require.NotNil(t, api.input)
	assert.Equal(t, "anthropic.claude-3-haiku", aws.ToString(api.input.ModelId))
	assert.Len(t, api.input.System, 1)
	require.Len(t, api.input.Messages, 1)
	assert.Equal(t, brtypes.ConversationRoleUser, api.input.Messages[0].Role)
	require.NotNil(t, api.input.InferenceConfig)
	assert.Equal(t, int32(100), aws.ToInt32(api.input.InferenceConfig.MaxTokens))
	assert.InDelta(t, 0.5, aws.ToFloat32(api.input.InferenceConfig.Temperature), 1e-6)
}

func TestBedrockLLMClient_Errors(t *testing.T) {
	ctx := context.Background()
	msgs := []ChatMessage{{Role: ChatRoleUser, Content: "hi"}}

	_, err := NewBedrockLLMClient(&mockConverse{}, "").Complete(ctx, LLMRequest{Messages: msgs})
	assert.ErrorContains(t, err, "model id is required")

	apiErr := errors.New("throttled")
	_, err = NewBedrockLLMClient(&mockConverse{err: apiErr}, "m").Complete(ctx, LLMRequest{Messages: msgs})
	assert.ErrorIs(t, err, apiErr)

	_, err = NewBedrockLLMClient(&mockConverse{out: textOutput("  ")}, "m").Complete(ctx, LLMRequest{Messages: msgs})
	assert.ErrorContains(t, err, "no text content")

	_, err = NewBedrockLLMClient(&mockConverse{}, "m").Complete(ctx, LLMRequest{Messages: []ChatMessage{{Role: "tool", Content: "x"}}})
	assert.ErrorContains(t, err, "unsupported role")
}
