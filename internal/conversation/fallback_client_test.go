package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/meeting-assistant/pkg/logging"
)

func TestFallbackLLMClient(t *testing.T) {
	ctx := context.Background()
	req := LLMRequest{Messages: []ChatMessage{{Role: ChatRoleUser, Content: "hi"}}}

	t.Run("primary succeeds", func(t *testing.T) {
		primary := &stubLLM{resp: LLMResponse{Text: "primary"}}
		fallback := &stubLLM{resp: LLMResponse{Text: "fallback"}}
		resp, err := NewFallbackLLMClient(primary, fallback, nil, logging.Nop()).Complete(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "primary", resp.Text)
		assert.Equal(t, 0, fallback.calls)
	})

	t.Run("fallback used after primary error", func(t *testing.T) {
		primary := &stubLLM{err: errModelDown}
		fallback := &stubLLM{resp: LLMResponse{Text: "fallback"}}
		resp, err := NewFallbackLLMClient(primary, fallback, nil, logging.Nop()).Complete(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "fallback", resp.Text)
		assert.Equal(t, req, fallback.last)
	})

	t.Run("no fallback returns primary error", func(t *testing.T) {
		primary := &stubLLM{err: errModelDown}
		_, err := NewFallbackLLMClient(primary, nil, nil, logging.Nop()).Complete(ctx, req)
		assert.ErrorIs(t, err, errModelDown)
	})

	t.Run("both fail returns fallback error", func(t *testing.T) {
		fallbackErr := errors.New("quota")
		primary := &stubLLM{err: errModelDown}
		fallback := &stubLLM{err: fallbackErr}
		_, err := NewFallbackLLMClient(primary, fallback, nil, logging.Nop()).Complete(ctx, req)
		assert.ErrorIs(t, err, fallbackErr)
	})
}
