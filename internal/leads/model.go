package leads

import (
	"slices"
	"time"
)

// Field names a lead slot. The extractor reports its per-turn changes as a
// list of fields so callers can tell "merged but unchanged" from "updated".
type Field string

const (
	FieldProductInterest   Field = "product_interest"
	FieldName              Field = "name"
	FieldEmail             Field = "email"
	FieldInterestReason    Field = "interest_reason"
	FieldBudgetExpectation Field = "budget_expectation"
	FieldPhone             Field = "phone"
)

// requiredFields must all be truthy for a lead to count as complete.
// optionalFields are solicited afterwards, in order. The prompt for a turn is
// always the first missing field across required-then-optional.
var (
	requiredFields = []Field{FieldProductInterest, FieldName, FieldEmail}
	optionalFields = []Field{FieldInterestReason, FieldBudgetExpectation, FieldPhone}

	fieldPrompts = map[Field]string{
		FieldProductInterest:   "I can help with that. Which products are you most interested in?",
		FieldName:              "Great - could you share your name so we know who to contact?",
		FieldEmail:             "What's the best email to reach you at?",
		FieldInterestReason:    "Thanks! What makes this a good fit for you right now?",
		FieldBudgetExpectation: "Do you have a budget or price range in mind?",
		FieldPhone:             "If you'd like, share a phone number so our team can text or call you.",
	}
)

// LeadData is the slot state accumulated across conversation turns.
type LeadData struct {
	ProductInterest   []string `json:"product_interest,omitempty"`
	Name              string   `json:"name,omitempty"`
	Email             string   `json:"email,omitempty"`
	Phone             string   `json:"phone,omitempty"`
	InterestReason    string   `json:"interest_reason,omitempty"`
	BudgetExpectation string   `json:"budget_expectation,omitempty"`
}

// Clone returns a copy that shares no slices with the receiver.
func (d LeadData) Clone() LeadData {
	out := d
	out.ProductInterest = slices.Clone(d.ProductInterest)
	return out
}

// get reports whether a field currently holds a truthy value.
func (d LeadData) get(f Field) bool {
	switch f {
	case FieldProductInterest:
		return len(d.ProductInterest) > 0
	case FieldName:
		return d.Name != ""
	case FieldEmail:
		return d.Email != ""
	case FieldInterestReason:
		return d.InterestReason != ""
	case FieldBudgetExpectation:
		return d.BudgetExpectation != ""
	case FieldPhone:
		return d.Phone != ""
	}
	return false
}

// IsComplete reports whether every required field is filled.
func (d LeadData) IsComplete() bool {
	for _, f := range requiredFields {
		if !d.get(f) {
			return false
		}
	}
	return true
}

// NextMissing returns the first missing field across required-then-optional
// order, or "" when everything is filled.
func (d LeadData) NextMissing() Field {
	for _, f := range requiredFields {
		if !d.get(f) {
			return f
		}
	}
	for _, f := range optionalFields {
		if !d.get(f) {
			return f
		}
	}
	return ""
}

// CaptureResult is the outcome of one extraction turn.
type CaptureResult struct {
	Lead      LeadData
	Updates   []Field
	Prompt    string
	Completed bool
}

// DefaultStatus is the lead_status assigned to freshly captured leads.
const DefaultStatus = "NEW"

// Record is the persisted form of a captured lead, scoped to a tenant.
type Record struct {
	ID                string    `json:"id"`
	OrgID             string    `json:"org_id"`
	BranchID          string    `json:"branch_id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	ProductInterest   []string  `json:"product_interest"`
	InterestReason    string    `json:"interest_reason"`
	BudgetExpectation string    `json:"budget_expectation"`
	Status            string    `json:"lead_status"`
	CreatedAt         time.Time `json:"created_at"`
}
