package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/aurelia-labs/sales-agent-platform/internal/llm"
)

const (
	transcriptKeyPrefix = "chat_transcript:"
	transcriptTTL       = 24 * time.Hour
)

// TranscriptStore keeps per-session transcripts in Redis so clients that
// send no history still get conversational context. Conversation state itself
// is never persisted; only the visible message log is.
type TranscriptStore struct {
	redis       *redis.Client
	tracer      trace.Tracer
	maxMessages int64
}

// NewTranscriptStore returns nil when no Redis client is configured; all
// methods are nil-safe so callers need no guard.
func NewTranscriptStore(redisClient *redis.Client) *TranscriptStore {
	if redisClient == nil {
		return nil
	}
	return &TranscriptStore{
		redis:       redisClient,
		tracer:      otel.Tracer("salesagent.internal.conversation.transcript"),
		maxMessages: 250,
	}
}

// Append records the turn's messages and refreshes the session TTL.
func (s *TranscriptStore) Append(ctx context.Context, sessionID string, messages ...llm.ChatMessage) error {
	if s == nil || s.redis == nil {
		return nil
	}
	if sessionID == "" {
		return errors.New("conversation: transcript sessionID required")
	}
	if len(messages) == 0 {
		return nil
	}

	ctx, span := s.tracer.Start(ctx, "conversation.transcript.append")
	defer span.End()

	key := transcriptKey(sessionID)
	pipe := s.redis.TxPipeline()
	for _, msg := range messages {
		data, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("conversation: marshal transcript message: %w", err)
		}
		pipe.RPush(ctx, key, data)
	}
	pipe.Expire(ctx, key, transcriptTTL)
	if s.maxMessages > 0 {
		pipe.LTrim(ctx, key, -s.maxMessages, -1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: append transcript: %w", err)
	}
	return nil
}

// Load returns the session's transcript, oldest first.
func (s *TranscriptStore) Load(ctx context.Context, sessionID string) ([]llm.ChatMessage, error) {
	if s == nil || s.redis == nil {
		return nil, nil
	}
	if sessionID == "" {
		return nil, errors.New("conversation: transcript sessionID required")
	}

	ctx, span := s.tracer.Start(ctx, "conversation.transcript.load")
	defer span.End()

	raw, err := s.redis.LRange(ctx, transcriptKey(sessionID), 0, -1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("conversation: load transcript: %w", err)
	}

	out := make([]llm.ChatMessage, 0, len(raw))
	for _, item := range raw {
		var msg llm.ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			span.RecordError(err)
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}

func transcriptKey(sessionID string) string {
	return transcriptKeyPrefix + sessionID
}
