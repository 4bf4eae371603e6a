package leads

import (
	"context"
	"fmt"
	"strings"

	"github.com/aurelia-labs/sales-agent-platform/internal/notify"
	"github.com/aurelia-labs/sales-agent-platform/internal/tenancy"
	"github.com/aurelia-labs/sales-agent-platform/pkg/logging"
)

const (
	thankYouSubject = "Thanks for your interest"
	thankYouBody    = "We will reach out shortly with more information."
)

// Service captures lead information turn by turn and persists completed leads.
type Service struct {
	extractor *Extractor
	repo      Repository
	email     notify.EmailSender
	logger    *logging.Logger
}

// NewService wires the lead capture service.
func NewService(repo Repository, email notify.EmailSender, logger *logging.Logger) *Service {
	if repo == nil {
		panic("leads: repository cannot be nil")
	}
	if email == nil {
		email = notify.NewStubEmailSender(logger)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		extractor: NewExtractor(),
		repo:      repo,
		email:     email,
		logger:    logger,
	}
}

// CaptureStep extracts this turn's field updates and next prompt.
func (s *Service) CaptureStep(userQuery string, existing LeadData) CaptureResult {
	return s.extractor.CaptureStep(userQuery, existing)
}

// IsComplete reports whether all required fields are filled.
func (s *Service) IsComplete(lead LeadData) bool {
	return lead.IsComplete()
}

// ConfirmationMessage summarizes a completed lead back to the user.
func (s *Service) ConfirmationMessage(lead LeadData) string {
	var pieces []string

	if len(lead.ProductInterest) > 0 {
		pieces = append(pieces, fmt.Sprintf("You're interested in %s.", strings.Join(lead.ProductInterest, ", ")))
	}
	if lead.InterestReason != "" {
		pieces = append(pieces, fmt.Sprintf("Reason noted: %s.", lead.InterestReason))
	}
	if lead.BudgetExpectation != "" {
		pieces = append(pieces, fmt.Sprintf("Budget around %s.", lead.BudgetExpectation))
	}

	var contact []string
	if lead.Name != "" {
		contact = append(contact, lead.Name)
	}
	if lead.Email != "" {
		contact = append(contact, lead.Email)
	}
	if lead.Phone != "" {
		contact = append(contact, lead.Phone)
	}
	if len(contact) > 0 {
		pieces = append(pieces, "Contact details: "+strings.Join(contact, ", ")+".")
	}

	pieces = append(pieces, "I'll pass this along to our sales team - anything else you'd like to add?")
	return strings.Join(pieces, " ")
}

// Persist stores the lead for the tenant and sends the thank-you email when
// an address was captured. Errors from storage or email propagate unwrapped
// into the conversation run.
func (s *Service) Persist(ctx context.Context, tenant tenancy.TenantContext, lead LeadData) (*Record, error) {
	rec := &Record{
		OrgID:             tenant.OrgID,
		BranchID:          tenant.BranchID,
		Name:              lead.Name,
		Email:             lead.Email,
		Phone:             lead.Phone,
		ProductInterest:   normalizeProducts(lead.ProductInterest),
		InterestReason:    lead.InterestReason,
		BudgetExpectation: lead.BudgetExpectation,
		Status:            DefaultStatus,
	}

	saved, err := s.repo.Create(ctx, rec)
	if err != nil {
		return nil, err
	}

	s.logger.Info("lead persisted", "lead_id", saved.ID, "org_id", saved.OrgID, "branch_id", saved.BranchID)

	if saved.Email != "" {
		msg := notify.EmailMessage{
			To:      saved.Email,
			ToName:  saved.Name,
			Subject: thankYouSubject,
			Body:    thankYouBody,
		}
		if err := s.email.Send(ctx, msg); err != nil {
			return nil, fmt.Errorf("leads: thank-you email failed: %w", err)
		}
	}

	return saved, nil
}

// normalizeProducts guarantees a non-nil list in the stored record.
func normalizeProducts(products []string) []string {
	if products == nil {
		return []string{}
	}
	return products
}
