package leads

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ListFilter pages through an org's leads.
type ListFilter struct {
	Limit  int
	Offset int
}

// Repository defines the interface for lead storage
type Repository interface {
	Create(ctx context.Context, rec *Record) (*Record, error)
	GetByID(ctx context.Context, orgID, id string) (*Record, error)
	ListByOrg(ctx context.Context, orgID string, filter ListFilter) ([]*Record, error)
}

func validateRecord(rec *Record) error {
	if rec.OrgID == "" {
		return ErrMissingOrgID
	}
	if rec.BranchID == "" {
		return ErrMissingBranchID
	}
	return nil
}

// InMemoryRepository keeps leads in memory; used by tests and demo mode.
type InMemoryRepository struct {
	mu    sync.RWMutex
	leads map[string]*Record
	order []string
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		leads: make(map[string]*Record),
	}
}

// Create stores a new lead in memory, assigning id and timestamp.
func (r *InMemoryRepository) Create(ctx context.Context, rec *Record) (*Record, error) {
	if err := validateRecord(rec); err != nil {
		return nil, err
	}

	stored := *rec
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now().UTC()
	if stored.Status == "" {
		stored.Status = DefaultStatus
	}

	r.mu.Lock()
	r.leads[stored.ID] = &stored
	r.order = append(r.order, stored.ID)
	r.mu.Unlock()

	out := stored
	return &out, nil
}

// GetByID retrieves a lead scoped to the org.
func (r *InMemoryRepository) GetByID(ctx context.Context, orgID, id string) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.leads[id]
	if !ok || rec.OrgID != orgID {
		return nil, ErrLeadNotFound
	}

	out := *rec
	return &out, nil
}

// ListByOrg returns an org's leads, newest last, honoring the filter.
func (r *InMemoryRepository) ListByOrg(ctx context.Context, orgID string, filter ListFilter) ([]*Record, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*Record
	for _, id := range r.order {
		rec := r.leads[id]
		if rec.OrgID == orgID {
			matched = append(matched, rec)
		}
	}

	if filter.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[filter.Offset:]
	if len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}

	out := make([]*Record, len(matched))
	for i, rec := range matched {
		cp := *rec
		out[i] = &cp
	}
	return out, nil
}

var _ Repository = (*InMemoryRepository)(nil)
