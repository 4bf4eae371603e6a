package leads

import "errors"

var (
	// ErrMissingOrgID is returned when a record lacks its tenant org.
	ErrMissingOrgID = errors.New("leads: org_id is required")

	// ErrMissingBranchID is returned when a record lacks its tenant branch.
	ErrMissingBranchID = errors.New("leads: branch_id is required")

	// ErrLeadNotFound is returned when a lead is not found.
	ErrLeadNotFound = errors.New("leads: lead not found")
)
