package conversation

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTranscriptStore(t *testing.T) (*TranscriptStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewTranscriptStore(client, time.Hour), mr
}

func TestTranscriptStore_AppendAndList(t *testing.T) {
	store, mr := newTestTranscriptStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "sess-1",
		TranscriptMessage{Role: ChatRoleUser, Text: "book tomorrow at 10"},
		TranscriptMessage{Role: ChatRoleAssistant, Text: "done", Intent: "book", Outcome: "booked"},
	))
	require.NoError(t, store.Append(ctx, "sess-1", TranscriptMessage{Role: ChatRoleUser, Text: "thanks"}))

	msgs, err := store.List(ctx, "sess-1", 0)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "book tomorrow at 10", msgs[0].Text)
	assert.Equal(t, "booked", msgs[1].Outcome)
	assert.Equal(t, "thanks", msgs[2].Text)
	for _, m := range msgs {
		assert.NotEmpty(t, m.ID)
		assert.False(t, m.Timestamp.IsZero())
	}

	latest, err := store.List(ctx, "sess-1", 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "thanks", latest[0].Text)

	assert.Equal(t, time.Hour, mr.TTL(transcriptKey("sess-1")))
}

func TestTranscriptStore_TrimsToMaxMessages(t *testing.T) {
	store, _ := newTestTranscriptStore(t)
	store.maxMessages = 3
	ctx := context.Background()

	for _, text := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, store.Append(ctx, "sess", TranscriptMessage{Role: ChatRoleUser, Text: text}))
	}

	msgs, err := store.List(ctx, "sess", 0)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "c", msgs[0].Text)
	assert.Equal(t, "e", msgs[2].Text)
}

func TestTranscriptStore_EmptyAndInvalid(t *testing.T) {
	store, _ := newTestTranscriptStore(t)
	ctx := context.Background()

	msgs, err := store.List(ctx, "unknown", 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	assert.Error(t, store.Append(ctx, "", TranscriptMessage{Text: "x"}))
	_, err = store.List(ctx, "", 0)
	assert.Error(t, err)
}

func TestTranscriptStore_NilIsDisabled(t *testing.T) {
	store := NewTranscriptStore(nil, 0)
	assert.Nil(t, store)
	assert.NoError(t, store.Append(context.Background(), "sess", TranscriptMessage{Text: "x"}))
	msgs, err := store.List(context.Background(), "sess", 0)
	assert.NoError(t, err)
	assert.Nil(t, msgs)
}
