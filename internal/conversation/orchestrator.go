package conversation

import (
	"context"
	"fmt"

	"github.com/aurelia-labs/sales-agent-platform/internal/booking"
	"github.com/aurelia-labs/sales-agent-platform/internal/intent"
	"github.com/aurelia-labs/sales-agent-platform/internal/leads"
	"github.com/aurelia-labs/sales-agent-platform/internal/llm"
	"github.com/aurelia-labs/sales-agent-platform/internal/observability/metrics"
	"github.com/aurelia-labs/sales-agent-platform/internal/tenancy"
	"github.com/aurelia-labs/sales-agent-platform/pkg/logging"
)

// MsgShareMore is appended when a capture turn neither prompted nor completed.
const MsgShareMore = "Thanks for the details - feel free to share more so I can complete your request."

// Answerer resolves a knowledge question for a tenant.
type Answerer interface {
	AnswerQuery(ctx context.Context, tenant tenancy.TenantContext, query string, history []llm.ChatMessage) (string, error)
}

// LeadManager is the lead-capture collaborator.
type LeadManager interface {
	CaptureStep(userQuery string, existing leads.LeadData) leads.CaptureResult
	IsComplete(lead leads.LeadData) bool
	ConfirmationMessage(lead leads.LeadData) string
	Persist(ctx context.Context, tenant tenancy.TenantContext, lead leads.LeadData) (*leads.Record, error)
}

// Booker is the calendar collaborator.
type Booker interface {
	HandleBooking(ctx context.Context, tenant tenancy.TenantContext, userQuery string, lead leads.LeadData, appointmentID string, it intent.Intent) (booking.Result, error)
}

// node names one state of the machine. The topology is small and fixed, so
// transitions are an explicit switch rather than a generic graph engine.
type node int

const (
	nodeIntentClassifier node = iota
	nodeRAGChain
	nodeLeadCapture
	nodeLeadSaver
	nodeBooking
	nodeEnd
)

// Orchestrator drives one inbound message through the state machine:
// intent_classifier routes to rag_chain, lead_capture or booking;
// lead_capture always flows into lead_saver, which hands a completed
// BOOKING-intent lead on to booking.
type Orchestrator struct {
	classifier intent.Classifier
	rag        Answerer
	leadSvc    LeadManager
	booker     Booker
	metrics    *metrics.AgentMetrics
	logger     *logging.Logger
}

// NewOrchestrator wires the state machine's collaborators.
func NewOrchestrator(classifier intent.Classifier, rag Answerer, leadSvc LeadManager, booker Booker, m *metrics.AgentMetrics, logger *logging.Logger) *Orchestrator {
	if classifier == nil {
		panic("conversation: intent classifier cannot be nil")
	}
	if rag == nil {
		panic("conversation: rag collaborator cannot be nil")
	}
	if leadSvc == nil {
		panic("conversation: lead collaborator cannot be nil")
	}
	if booker == nil {
		panic("conversation: booking collaborator cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Orchestrator{
		classifier: classifier,
		rag:        rag,
		leadSvc:    leadSvc,
		booker:     booker,
		metrics:    m,
		logger:     logger,
	}
}

// Run executes one full traversal. Collaborator failures abort the run; no
// retry happens here.
func (o *Orchestrator) Run(ctx context.Context, state State) (State, error) {
	current := nodeIntentClassifier
	var err error

	for current != nodeEnd {
		switch current {
		case nodeIntentClassifier:
			state = o.classifyNode(ctx, state)
			current = routeByIntent(state.Intent)
		case nodeRAGChain:
			state, err = o.ragNode(ctx, state)
			current = nodeEnd
		case nodeLeadCapture:
			state = o.leadCaptureNode(state)
			current = nodeLeadSaver
		case nodeLeadSaver:
			state, err = o.leadSaverNode(ctx, state)
			current = routeAfterSave(state.Intent, o.leadSvc.IsComplete(state.Lead))
		case nodeBooking:
			state, err = o.bookingNode(ctx, state)
			current = nodeEnd
		}
		if err != nil {
			return state, err
		}
	}
	return state, nil
}

// routeByIntent is the conditional edge out of intent_classifier.
func routeByIntent(it intent.Intent) node {
	switch it {
	case intent.PurchaseInterest, intent.Booking:
		return nodeLeadCapture
	case intent.CancelBooking:
		return nodeBooking
	default:
		return nodeRAGChain
	}
}

// routeAfterSave is the conditional edge out of lead_saver: a completed lead
// with booking intent continues into the booking node, everything else ends.
// Pure function of its inputs.
func routeAfterSave(it intent.Intent, leadComplete bool) node {
	if it == intent.Booking && leadComplete {
		return nodeBooking
	}
	return nodeEnd
}

func (o *Orchestrator) classifyNode(ctx context.Context, state State) State {
	updated := state.Clone()
	updated.Intent = o.classifier.Classify(ctx, updated.UserQuery)
	o.logger.Debug("intent classified", "intent", string(updated.Intent))
	return updated
}

func (o *Orchestrator) ragNode(ctx context.Context, state State) (State, error) {
	answer, err := o.rag.AnswerQuery(ctx, state.Tenant(), state.UserQuery, state.History)
	if err != nil {
		return state, fmt.Errorf("conversation: rag node failed: %w", err)
	}
	return state.withMessage(llm.ChatRoleAssistant, answer), nil
}

func (o *Orchestrator) leadCaptureNode(state State) State {
	updated := state.Clone()
	result := o.leadSvc.CaptureStep(updated.UserQuery, updated.Lead)
	updated.Lead = result.Lead

	switch {
	case result.Prompt != "":
		return updated.withMessage(llm.ChatRoleAssistant, result.Prompt)
	case o.leadSvc.IsComplete(updated.Lead):
		return updated.withMessage(llm.ChatRoleAssistant, o.leadSvc.ConfirmationMessage(updated.Lead))
	default:
		return updated.withMessage(llm.ChatRoleAssistant, MsgShareMore)
	}
}

func (o *Orchestrator) leadSaverNode(ctx context.Context, state State) (State, error) {
	if !o.leadSvc.IsComplete(state.Lead) {
		return state, nil
	}

	record, err := o.leadSvc.Persist(ctx, state.Tenant(), state.Lead)
	if err != nil {
		return state, fmt.Errorf("conversation: lead saver failed: %w", err)
	}
	o.metrics.ObserveLeadSaved()
	return state.withMessage(llm.ChatRoleSystem, fmt.Sprintf("%s: %s", AuditLeadSavedPrefix, record.ID)), nil
}

func (o *Orchestrator) bookingNode(ctx context.Context, state State) (State, error) {
	result, err := o.booker.HandleBooking(ctx, state.Tenant(), state.UserQuery, state.Lead, state.AppointmentID, state.Intent)
	if err != nil {
		return state, fmt.Errorf("conversation: booking node failed: %w", err)
	}

	updated := state.Clone()
	updated.AppointmentID = result.AppointmentID
	updated = updated.withMessage(llm.ChatRoleAssistant, result.Message)
	if result.AuditNote != "" {
		updated = updated.withMessage(llm.ChatRoleSystem, result.AuditNote)
	}
	return updated, nil
}
