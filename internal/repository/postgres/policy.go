package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"labkit-backend/internal/domain"
	"labkit-backend/internal/repository"
)

type policyRepository struct {
	db DBTX
}

func NewPolicyRepository(db DBTX) repository.PolicyRepository {
	return &policyRepository{db: db}
}

func (r *policyRepository) Create(ctx context.Context, p *domain.PenaltyPolicy) error {
	query := `INSERT INTO penalty_policies (policy_name, type, amount, issued_date, resolved)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	return r.db.QueryRowContext(ctx, query, p.PolicyName, p.Type, p.Amount, p.IssuedDate, p.Resolved).Scan(&p.ID)
}

func (r *policyRepository) GetByID(ctx context.Context, id int32) (*domain.PenaltyPolicy, error) {
	p := &domain.PenaltyPolicy{}
	query := `SELECT id, policy_name, type, amount, issued_date, resolved FROM penalty_policies WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.PolicyName, &p.Type, &p.Amount, &p.IssuedDate, &p.Resolved)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("penalty policy %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *policyRepository) Update(ctx context.Context, p *domain.PenaltyPolicy) error {
	query := `UPDATE penalty_policies SET policy_name=$1, type=$2, amount=$3, issued_date=$4, resolved=$5 WHERE id=$6`
	_, err := r.db.ExecContext(ctx, query, p.PolicyName, p.Type, p.Amount, p.IssuedDate, p.Resolved, p.ID)
	return err
}

func (r *policyRepository) List(ctx context.Context) ([]domain.PenaltyPolicy, error) {
	query := `SELECT id, policy_name, type, amount, issued_date, resolved FROM penalty_policies ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var policies []domain.PenaltyPolicy
	for rows.Next() {
		var p domain.PenaltyPolicy
		if err := rows.Scan(&p.ID, &p.PolicyName, &p.Type, &p.Amount, &p.IssuedDate, &p.Resolved); err != nil {
			return nil, err
		}
		policies = append(policies, p)
	}
	return policies, rows.Err()
}
