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

type borrowRequestRepository struct {
	db DBTX
}

func NewBorrowRequestRepository(db DBTX) repository.BorrowRequestRepository {
	return &borrowRequestRepository{db: db}
}

const requestColumns = `id, request_type, requested_by, kit_id, kit_quantity, deposit_amount, reason,
	expect_return_date, actual_return_date, is_late, status, approved_by, inspected_by,
	COALESCE(reject_note, ''), COALESCE(group_name, ''), COALESCE(class_code, ''), COALESCE(semester, ''),
	created_at, updated_at`

func (r *borrowRequestRepository) Create(ctx context.Context, req *domain.BorrowingRequest) error {
	now := time.Now()
	req.CreatedAt = now
	req.UpdatedAt = now

	query := `INSERT INTO borrow_requests (request_type, requested_by, kit_id, kit_quantity, deposit_amount, reason,
	          expect_return_date, is_late, status, group_name, class_code, semester, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		req.Type, req.RequestedBy, req.KitID, req.KitQuantity, req.DepositAmount, req.Reason,
		req.ExpectReturnDate, req.IsLate, req.Status, req.GroupName, req.ClassCode, req.Semester,
		req.CreatedAt, req.UpdatedAt).Scan(&req.ID)
	if err != nil {
		return err
	}

	for i := range req.Items {
		item := &req.Items[i]
		item.RequestID = req.ID
		itemQuery := `INSERT INTO borrow_request_items (request_id, component_id, component_name, quantity, unit_price, damaged_quantity)
		              VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
		if err := r.db.QueryRowContext(ctx, itemQuery, item.RequestID, item.ComponentID, item.ComponentName, item.Quantity, item.UnitPrice, item.DamagedQuantity).Scan(&item.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *borrowRequestRepository) GetByID(ctx context.Context, id int32) (*domain.BorrowingRequest, error) {
	req := &domain.BorrowingRequest{}
	query := `SELECT ` + requestColumns + ` FROM borrow_requests WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&req.ID, &req.Type, &req.RequestedBy, &req.KitID, &req.KitQuantity, &req.DepositAmount, &req.Reason,
		&req.ExpectReturnDate, &req.ActualReturnDate, &req.IsLate, &req.Status, &req.ApprovedBy, &req.InspectedBy,
		&req.RejectNote, &req.GroupName, &req.ClassCode, &req.Semester, &req.CreatedAt, &req.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("borrow request %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	items, err := r.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Items = items
	return req, nil
}

func (r *borrowRequestRepository) loadItems(ctx context.Context, requestID int32) ([]domain.RequestItem, error) {
	query := `SELECT id, request_id, component_id, component_name, quantity, unit_price, damaged_quantity
	          FROM borrow_request_items WHERE request_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.RequestItem
	for rows.Next() {
		var it domain.RequestItem
		if err := rows.Scan(&it.ID, &it.RequestID, &it.ComponentID, &it.ComponentName, &it.Quantity, &it.UnitPrice, &it.DamagedQuantity); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Update writes the transition only if the row still holds the status
// the caller read. A concurrent sibling that committed first leaves
// zero rows to update, which surfaces as ErrInvalidTransition.
func (r *borrowRequestRepository) Update(ctx context.Context, req *domain.BorrowingRequest, from domain.RequestStatus) error {
	query := `UPDATE borrow_requests SET status=$1, approved_by=$2, inspected_by=$3, reject_note=$4,
	          actual_return_date=$5, is_late=$6, updated_at=$7 WHERE id=$8 AND status=$9`
	result, err := r.db.ExecContext(ctx, query, req.Status, req.ApprovedBy, req.InspectedBy, req.RejectNote,
		req.ActualReturnDate, req.IsLate, time.Now(), req.ID, from)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("request %d is no longer %s: %w", req.ID, from, domain.ErrInvalidTransition)
	}
	return nil
}

func (r *borrowRequestRepository) MarkLate(ctx context.Context, id int32) (bool, error) {
	query := `UPDATE borrow_requests SET is_late=true, updated_at=$1 WHERE id=$2 AND is_late=false`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *borrowRequestRepository) UpdateItemDamage(ctx context.Context, itemID int32, damagedQuantity int32) error {
	query := `UPDATE borrow_request_items SET damaged_quantity=$1 WHERE id=$2`
	_, err := r.db.ExecContext(ctx, query, damagedQuantity, itemID)
	return err
}

func (r *borrowRequestRepository) ListByRequester(ctx context.Context, requesterID int32, status string, page, pageSize int32) ([]domain.BorrowingRequest, int32, error) {
	where := `WHERE requested_by = $1`
	args := []interface{}{requesterID}
	if status != "" {
		where += ` AND status = $2`
		args = append(args, status)
	}
	return r.list(ctx, where, args, page, pageSize)
}

func (r *borrowRequestRepository) ListByStatus(ctx context.Context, status domain.RequestStatus, page, pageSize int32) ([]domain.BorrowingRequest, int32, error) {
	return r.list(ctx, `WHERE status = $1`, []interface{}{status}, page, pageSize)
}

func (r *borrowRequestRepository) list(ctx context.Context, where string, args []interface{}, page, pageSize int32) ([]domain.BorrowingRequest, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM borrow_requests `+where, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := fmt.Sprintf(`SELECT %s FROM borrow_requests %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		requestColumns, where, len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var requests []domain.BorrowingRequest
	for rows.Next() {
		var req domain.BorrowingRequest
		if err := rows.Scan(
			&req.ID, &req.Type, &req.RequestedBy, &req.KitID, &req.KitQuantity, &req.DepositAmount, &req.Reason,
			&req.ExpectReturnDate, &req.ActualReturnDate, &req.IsLate, &req.Status, &req.ApprovedBy, &req.InspectedBy,
			&req.RejectNote, &req.GroupName, &req.ClassCode, &req.Semester, &req.CreatedAt, &req.UpdatedAt); err != nil {
			return nil, 0, err
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range requests {
		items, err := r.loadItems(ctx, requests[i].ID)
		if err != nil {
			return nil, 0, err
		}
		requests[i].Items = items
	}
	return requests, count, nil
}

func (r *borrowRequestRepository) ListOverdue(ctx context.Context, cutoff time.Time) ([]domain.BorrowingRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM borrow_requests
	          WHERE status = $1 AND expect_return_date < $2 AND is_late = false ORDER BY expect_return_date`
	rows, err := r.db.QueryContext(ctx, query, domain.RequestStatusApproved, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []domain.BorrowingRequest
	for rows.Next() {
		var req domain.BorrowingRequest
		if err := rows.Scan(
			&req.ID, &req.Type, &req.RequestedBy, &req.KitID, &req.KitQuantity, &req.DepositAmount, &req.Reason,
			&req.ExpectReturnDate, &req.ActualReturnDate, &req.IsLate, &req.Status, &req.ApprovedBy, &req.InspectedBy,
			&req.RejectNote, &req.GroupName, &req.ClassCode, &req.Semester, &req.CreatedAt, &req.UpdatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}
