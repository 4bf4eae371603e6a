package leads

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PgxPool is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type PgxPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresRepository stores leads in the relational database.
type PostgresRepository struct {
	pool PgxPool
}

// NewPostgresRepository initializes a repo backed by pgx.
func NewPostgresRepository(pool PgxPool) *PostgresRepository {
	if pool == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, rec *Record) (*Record, error) {
	if err := validateRecord(rec); err != nil {
		return nil, err
	}

	id := uuid.New()
	status := rec.Status
	if status == "" {
		status = DefaultStatus
	}

	query := `
		INSERT INTO leads (id, org_id, branch_id, name, email, phone, product_interest, interest_reason, budget_expectation, lead_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id,
		rec.OrgID,
		rec.BranchID,
		rec.Name,
		rec.Email,
		rec.Phone,
		rec.ProductInterest,
		rec.InterestReason,
		rec.BudgetExpectation,
		status,
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("leads: insert failed: %w", err)
	}

	out := *rec
	out.ID = id.String()
	out.Status = status
	out.CreatedAt = createdAt
	return &out, nil
}

// GetByID fetches a lead scoped to the org.
func (r *PostgresRepository) GetByID(ctx context.Context, orgID, id string) (*Record, error) {
	query := `
		SELECT id, org_id, branch_id, name, email, phone, product_interest, interest_reason, budget_expectation, lead_status, created_at
		FROM leads
		WHERE id = $1 AND org_id = $2
	`
	row := r.pool.QueryRow(ctx, query, id, orgID)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	return rec, nil
}

// ListByOrg returns an org's leads, newest first.
func (r *PostgresRepository) ListByOrg(ctx context.Context, orgID string, filter ListFilter) ([]*Record, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	query := `
		SELECT id, org_id, branch_id, name, email, phone, product_interest, interest_reason, budget_expectation, lead_status, created_at
		FROM leads
		WHERE org_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, orgID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	return out, nil
}

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	if err := row.Scan(
		&rec.ID,
		&rec.OrgID,
		&rec.BranchID,
		&rec.Name,
		&rec.Email,
		&rec.Phone,
		&rec.ProductInterest,
		&rec.InterestReason,
		&rec.BudgetExpectation,
		&rec.Status,
		&rec.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &rec, nil
}

var _ Repository = (*PostgresRepository)(nil)
