package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurelia-labs/sales-agent-platform/internal/conversation"
	"github.com/aurelia-labs/sales-agent-platform/internal/intent"
	"github.com/aurelia-labs/sales-agent-platform/internal/leads"
	"github.com/aurelia-labs/sales-agent-platform/internal/llm"
	"github.com/aurelia-labs/sales-agent-platform/internal/tenancy"
)

type fakeRunner struct {
	got    conversation.State
	mutate func(conversation.State) conversation.State
	err    error
}

func (f *fakeRunner) Run(_ context.Context, state conversation.State) (conversation.State, error) {
	f.got = state
	if f.err != nil {
		return state, f.err
	}
	if f.mutate != nil {
		return f.mutate(state), nil
	}
	return state, nil
}

func chatBody(t *testing.T, req ChatRequest) *bytes.Buffer {
	t.Helper()
	data, err := json.Marshal(req)
	require.NoError(t, err)
	return bytes.NewBuffer(data)
}

func validChatRequest(message string) ChatRequest {
	return ChatRequest{
		Context: tenancy.TenantContext{OrgID: "org-1", BranchID: "branch-1", UserSessionID: "sess-1"},
		Message: llm.ChatMessage{Role: llm.ChatRoleUser, Content: message},
	}
}

func TestChatHandlerHappyPath(t *testing.T) {
	runner := &fakeRunner{
		mutate: func(s conversation.State) conversation.State {
			s.Intent = intent.Booking
			s.AppointmentID = "ev-1"
			s.Lead = leads.LeadData{
				ProductInterest: []string{"solar panels"},
				Name:            "Jordan",
				Email:           "jordan@example.com",
			}
			s = s.Clone()
			s.History = append(s.History,
				llm.ChatMessage{Role: llm.ChatRoleAssistant, Content: "Your consultation is booked!"},
				llm.ChatMessage{Role: llm.ChatRoleSystem, Content: "calendar_event_created:ev-1"},
			)
			return s
		},
	}
	h := NewChatHandler(runner, nil, nil, nil)

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/chat", chatBody(t, validChatRequest("book tomorrow"))))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Your consultation is booked!", resp.Reply, "audit lines must not surface")
	assert.Equal(t, "BOOKING", resp.Intent)
	assert.True(t, resp.LeadCaptured)
	assert.Equal(t, "ev-1", resp.AppointmentID)

	assert.Equal(t, "book tomorrow", runner.got.UserQuery)
	assert.Equal(t, "org-1", runner.got.Context["org_id"])
}

func TestChatHandlerValidation(t *testing.T) {
	h := NewChatHandler(&fakeRunner{}, nil, nil, nil)

	t.Run("malformed body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewBufferString("{not json")))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing tenant", func(t *testing.T) {
		req := validChatRequest("hello")
		req.Context.OrgID = ""
		rec := httptest.NewRecorder()
		h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/chat", chatBody(t, req)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/chat", chatBody(t, validChatRequest("   "))))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestChatHandlerRunnerFailure(t *testing.T) {
	h := NewChatHandler(&fakeRunner{err: errors.New("index down")}, nil, nil, nil)

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/chat", chatBody(t, validChatRequest("hello"))))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestChatHandlerHydratesHistoryFromTranscripts(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := conversation.NewTranscriptStore(client)

	require.NoError(t, store.Append(context.Background(), "sess-1",
		llm.ChatMessage{Role: llm.ChatRoleUser, Content: "earlier question"},
		llm.ChatMessage{Role: llm.ChatRoleAssistant, Content: "earlier answer"},
	))

	runner := &fakeRunner{
		mutate: func(s conversation.State) conversation.State {
			return s.Clone()
		},
	}
	h := NewChatHandler(runner, store, nil, nil)

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/chat", chatBody(t, validChatRequest("next question"))))
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, runner.got.History, 2)
	assert.Equal(t, "earlier question", runner.got.History[0].Content)

	// The turn itself lands back in the transcript.
	stored, err := store.Load(context.Background(), "sess-1")
	require.NoError(t, err)
	require.Len(t, stored, 4)
	assert.Equal(t, "next question", stored[2].Content)
}

func TestChatHandlerRequestHistoryWins(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := conversation.NewTranscriptStore(client)

	require.NoError(t, store.Append(context.Background(), "sess-1",
		llm.ChatMessage{Role: llm.ChatRoleUser, Content: "stored history"}))

	runner := &fakeRunner{}
	h := NewChatHandler(runner, store, nil, nil)

	req := validChatRequest("question")
	req.History = []llm.ChatMessage{{Role: llm.ChatRoleUser, Content: "client history"}}

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/chat", chatBody(t, req)))
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, runner.got.History, 1)
	assert.Equal(t, "client history", runner.got.History[0].Content)
}
