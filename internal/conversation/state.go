package conversation

import (
	"maps"
	"slices"
	"strings"

	"github.com/aurelia-labs/sales-agent-platform/internal/intent"
	"github.com/aurelia-labs/sales-agent-platform/internal/leads"
	"github.com/aurelia-labs/sales-agent-platform/internal/llm"
	"github.com/aurelia-labs/sales-agent-platform/internal/tenancy"
)

// Transcript entries whose role is system and whose content starts with one of
// these prefixes record side effects for auditing. They are never surfaced as
// the spoken reply; any new system-only annotation must follow the same
// prefix convention.
const (
	AuditLeadSavedPrefix = "Lead saved"
	AuditCalendarPrefix  = "calendar_event_"
)

// State is the value threaded through one state-machine traversal. Nodes
// never mutate their input; each receives a clone and returns the updated
// copy. History only grows within a run.
type State struct {
	Intent        intent.Intent     `json:"intent"`
	UserQuery     string            `json:"user_query"`
	Context       map[string]string `json:"context"`
	Lead          leads.LeadData    `json:"lead_data"`
	AppointmentID string            `json:"appointment_id,omitempty"`
	History       []llm.ChatMessage `json:"history"`
}

// NewState builds the initial state for one inbound message.
func NewState(tenant tenancy.TenantContext, query string, history []llm.ChatMessage) State {
	return State{
		Intent:    intent.RAGInfo,
		UserQuery: query,
		Context:   tenant.Flatten(),
		History:   slices.Clone(history),
	}
}

// Clone returns a deep copy sharing no mutable storage with the receiver.
func (s State) Clone() State {
	out := s
	out.Context = maps.Clone(s.Context)
	out.Lead = s.Lead.Clone()
	out.History = slices.Clone(s.History)
	return out
}

// Tenant rebuilds the tenant context from the flattened form.
func (s State) Tenant() tenancy.TenantContext {
	return tenancy.FromMap(s.Context)
}

// withMessage appends a transcript entry on a clone of the state.
func (s State) withMessage(role, content string) State {
	out := s.Clone()
	out.History = append(out.History, llm.ChatMessage{Role: role, Content: content})
	return out
}

// Reply extracts the user-visible reply: the last transcript entry that is
// not a system audit line, or "" when none exists.
func (s State) Reply() string {
	for i := len(s.History) - 1; i >= 0; i-- {
		msg := s.History[i]
		if isAuditEntry(msg) {
			continue
		}
		return msg.Content
	}
	return ""
}

func isAuditEntry(msg llm.ChatMessage) bool {
	if msg.Role != llm.ChatRoleSystem {
		return false
	}
	return strings.HasPrefix(msg.Content, AuditLeadSavedPrefix) ||
		strings.HasPrefix(msg.Content, AuditCalendarPrefix)
}
