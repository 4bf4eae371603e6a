package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/aurelia-labs/sales-agent-platform/internal/conversation"
	"github.com/aurelia-labs/sales-agent-platform/internal/llm"
	"github.com/aurelia-labs/sales-agent-platform/internal/observability/metrics"
	"github.com/aurelia-labs/sales-agent-platform/internal/tenancy"
	"github.com/aurelia-labs/sales-agent-platform/pkg/logging"
)

// Runner executes one state-machine traversal.
type Runner interface {
	Run(ctx context.Context, state conversation.State) (conversation.State, error)
}

// ChatRequest is the inbound chat payload.
type ChatRequest struct {
	Context tenancy.TenantContext `json:"context"`
	Message llm.ChatMessage       `json:"message"`
	History []llm.ChatMessage     `json:"history"`
}

// ChatResponse is the chat reply payload.
type ChatResponse struct {
	Reply         string `json:"reply"`
	Intent        string `json:"intent"`
	LeadCaptured  bool   `json:"lead_captured"`
	AppointmentID string `json:"appointment_id,omitempty"`
}

// ChatHandler drives the conversational agent over HTTP.
type ChatHandler struct {
	runner      Runner
	transcripts *conversation.TranscriptStore
	metrics     *metrics.AgentMetrics
	logger      *logging.Logger
}

// NewChatHandler wires the chat endpoint. Transcripts and metrics may be nil.
func NewChatHandler(runner Runner, transcripts *conversation.TranscriptStore, m *metrics.AgentMetrics, logger *logging.Logger) *ChatHandler {
	if runner == nil {
		panic("handlers: runner cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ChatHandler{
		runner:      runner,
		transcripts: transcripts,
		metrics:     m,
		logger:      logger,
	}
}

// Handle serves POST /api/v1/chat.
func (h *ChatHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Context.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Message.Content) == "" {
		respondError(w, http.StatusBadRequest, "message content is required")
		return
	}

	ctx := tenancy.WithTenant(r.Context(), req.Context)

	history := req.History
	if len(history) == 0 {
		stored, err := h.transcripts.Load(ctx, req.Context.UserSessionID)
		if err != nil {
			h.logger.Warn("transcript load failed", "error", err, "session_id", req.Context.UserSessionID)
		} else {
			history = stored
		}
	}

	start := time.Now()
	state := conversation.NewState(req.Context, req.Message.Content, history)
	final, err := h.runner.Run(ctx, state)
	if err != nil {
		h.logger.Error("chat run failed", "error", err, "org_id", req.Context.OrgID)
		respondError(w, http.StatusInternalServerError, "chat processing failed")
		return
	}

	reply := final.Reply()
	h.metrics.ObserveChatTurn(string(final.Intent), time.Since(start).Seconds())

	if err := h.transcripts.Append(ctx, req.Context.UserSessionID,
		llm.ChatMessage{Role: llm.ChatRoleUser, Content: req.Message.Content},
		llm.ChatMessage{Role: llm.ChatRoleAssistant, Content: reply},
	); err != nil {
		h.logger.Warn("transcript append failed", "error", err, "session_id", req.Context.UserSessionID)
	}

	respondJSON(w, http.StatusOK, ChatResponse{
		Reply:         reply,
		Intent:        string(final.Intent),
		LeadCaptured:  final.Lead.IsComplete(),
		AppointmentID: final.AppointmentID,
	})
}
