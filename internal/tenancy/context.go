package tenancy

import (
	"context"
	"errors"
	"fmt"
)

// TenantContext identifies the multi-tenant partition a request operates in.
// OrgID, BranchID and UserSessionID are required; CalendarID is optional and
// only consulted by booking flows.
type TenantContext struct {
	OrgID         string `json:"org_id"`
	BranchID      string `json:"branch_id"`
	UserSessionID string `json:"user_session_id"`
	CalendarID    string `json:"calendar_id,omitempty"`
}

var (
	ErrMissingOrgID     = errors.New("tenancy: org_id is required")
	ErrMissingBranchID  = errors.New("tenancy: branch_id is required")
	ErrMissingSessionID = errors.New("tenancy: user_session_id is required")
)

// Validate checks the required identifiers are present.
func (t TenantContext) Validate() error {
	if t.OrgID == "" {
		return ErrMissingOrgID
	}
	if t.BranchID == "" {
		return ErrMissingBranchID
	}
	if t.UserSessionID == "" {
		return ErrMissingSessionID
	}
	return nil
}

// Namespace returns the tenant-scoped partition key used by the vector store.
func (t TenantContext) Namespace() string {
	return fmt.Sprintf("%s::%s", t.OrgID, t.BranchID)
}

// Flatten returns the map form carried inside ConversationState.
func (t TenantContext) Flatten() map[string]string {
	m := map[string]string{
		"org_id":          t.OrgID,
		"branch_id":       t.BranchID,
		"user_session_id": t.UserSessionID,
	}
	if t.CalendarID != "" {
		m["calendar_id"] = t.CalendarID
	}
	return m
}

// FromMap rebuilds a TenantContext from its flattened form.
func FromMap(m map[string]string) TenantContext {
	return TenantContext{
		OrgID:         m["org_id"],
		BranchID:      m["branch_id"],
		UserSessionID: m["user_session_id"],
		CalendarID:    m["calendar_id"],
	}
}

type ctxKey string

const tenantKey ctxKey = "salesagent.tenant"

// WithTenant stores the tenant context in ctx.
func WithTenant(ctx context.Context, t TenantContext) context.Context {
	return context.WithValue(ctx, tenantKey, t)
}

// TenantFromContext extracts the tenant context if present.
func TenantFromContext(ctx context.Context) (TenantContext, bool) {
	val := ctx.Value(tenantKey)
	if val == nil {
		return TenantContext{}, false
	}
	t, ok := val.(TenantContext)
	return t, ok && t.OrgID != ""
}
