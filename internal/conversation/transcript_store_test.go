package conversation

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurelia-labs/sales-agent-platform/internal/llm"
)

func newTestTranscriptStore(t *testing.T) (*TranscriptStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewTranscriptStore(client), mr
}

func TestTranscriptStoreAppendAndLoad(t *testing.T) {
	store, _ := newTestTranscriptStore(t)
	ctx := context.Background()

	err := store.Append(ctx, "sess-1",
		llm.ChatMessage{Role: llm.ChatRoleUser, Content: "hi"},
		llm.ChatMessage{Role: llm.ChatRoleAssistant, Content: "hello"},
	)
	require.NoError(t, err)

	err = store.Append(ctx, "sess-1", llm.ChatMessage{Role: llm.ChatRoleUser, Content: "book tomorrow"})
	require.NoError(t, err)

	got, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "hi", got[0].Content)
	assert.Equal(t, "book tomorrow", got[2].Content)
}

func TestTranscriptStoreSessionIsolation(t *testing.T) {
	store, _ := newTestTranscriptStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "sess-1", llm.ChatMessage{Role: llm.ChatRoleUser, Content: "a"}))

	got, err := store.Load(ctx, "sess-2")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTranscriptStoreTTL(t *testing.T) {
	store, mr := newTestTranscriptStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "sess-1", llm.ChatMessage{Role: llm.ChatRoleUser, Content: "a"}))

	ttl := mr.TTL(transcriptKey("sess-1"))
	assert.Equal(t, transcriptTTL, ttl)

	mr.FastForward(transcriptTTL + 1)
	got, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTranscriptStoreRequiresSession(t *testing.T) {
	store, _ := newTestTranscriptStore(t)

	err := store.Append(context.Background(), "", llm.ChatMessage{Role: llm.ChatRoleUser, Content: "a"})
	assert.Error(t, err)

	_, err = store.Load(context.Background(), "")
	assert.Error(t, err)
}

func TestTranscriptStoreNilSafe(t *testing.T) {
	var store *TranscriptStore

	err := store.Append(context.Background(), "sess-1", llm.ChatMessage{Role: llm.ChatRoleUser, Content: "a"})
	assert.NoError(t, err)

	got, err := store.Load(context.Background(), "sess-1")
	assert.NoError(t, err)
	assert.Nil(t, got)

	assert.Nil(t, NewTranscriptStore(nil))
}
