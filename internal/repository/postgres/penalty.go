package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"labkit-backend/internal/domain"
	"labkit-backend/internal/repository"
)

type penaltyRepository struct {
	db DBTX
}

func NewPenaltyRepository(db DBTX) repository.PenaltyRepository {
	return &penaltyRepository{db: db}
}

func (r *penaltyRepository) Create(ctx context.Context, p *domain.Penalty) error {
	p.CreatedAt = time.Now()
	query := `INSERT INTO penalties (borrow_request_id, account_id, total_amount, resolved, take_effect_date, note, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, p.BorrowRequestID, p.AccountID, p.TotalAmount, p.Resolved, p.TakeEffectDate, p.Note, p.CreatedAt).Scan(&p.ID)
	if err != nil {
		return err
	}

	for i := range p.Details {
		d := &p.Details[i]
		d.PenaltyID = p.ID
		detailQuery := `INSERT INTO penalty_details (penalty_id, policy_id, description, amount, kit_component_id, image_url)
		                VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
		if err := r.db.QueryRowContext(ctx, detailQuery, d.PenaltyID, d.PolicyID, d.Description, d.Amount, d.KitComponentID, d.ImageURL).Scan(&d.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *penaltyRepository) GetByID(ctx context.Context, id int32) (*domain.Penalty, error) {
	p := &domain.Penalty{}
	query := `SELECT id, borrow_request_id, account_id, total_amount, resolved, take_effect_date, COALESCE(note, ''), created_at
	          FROM penalties WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.BorrowRequestID, &p.AccountID, &p.TotalAmount, &p.Resolved, &p.TakeEffectDate, &p.Note, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("penalty %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	details, err := r.loadDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Details = details
	return p, nil
}

func (r *penaltyRepository) loadDetails(ctx context.Context, penaltyID int32) ([]domain.PenaltyDetail, error) {
	query := `SELECT id, penalty_id, policy_id, description, amount, kit_component_id, image_url
	          FROM penalty_details WHERE penalty_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, penaltyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []domain.PenaltyDetail
	for rows.Next() {
		var d domain.PenaltyDetail
		if err := rows.Scan(&d.ID, &d.PenaltyID, &d.PolicyID, &d.Description, &d.Amount, &d.KitComponentID, &d.ImageURL); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

func (r *penaltyRepository) ListByAccount(ctx context.Context, accountID int32, page, pageSize int32) ([]domain.Penalty, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM penalties WHERE account_id = $1`, accountID).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT id, borrow_request_id, account_id, total_amount, resolved, take_effect_date, COALESCE(note, ''), created_at
	          FROM penalties WHERE account_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, accountID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var penalties []domain.Penalty
	for rows.Next() {
		var p domain.Penalty
		if err := rows.Scan(&p.ID, &p.BorrowRequestID, &p.AccountID, &p.TotalAmount, &p.Resolved, &p.TakeEffectDate, &p.Note, &p.CreatedAt); err != nil {
			return nil, 0, err
		}
		penalties = append(penalties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range penalties {
		details, err := r.loadDetails(ctx, penalties[i].ID)
		if err != nil {
			return nil, 0, err
		}
		penalties[i].Details = details
	}
	return penalties, count, nil
}

func (r *penaltyRepository) Resolve(ctx context.Context, id int32, note string) error {
	query := `UPDATE penalties SET resolved = TRUE, note = CASE WHEN $1 = '' THEN note ELSE $1 END WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, note, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("penalty %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
