package postgres

import (
	"context"
	"fmt"
	"time"

	"labkit-backend/internal/domain"
	"labkit-backend/internal/repository"
)

type notificationRepository struct {
	db DBTX
}

func NewNotificationRepository(db DBTX) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	n.CreatedAt = time.Now()
	query := `INSERT INTO notifications (account_id, kind, title, message, related_request_id, read, created_at)
	          VALUES ($1, $2, $3, $4, $5, FALSE, $6) RETURNING id`
	return r.db.QueryRowContext(ctx, query, n.AccountID, n.Kind, n.Title, n.Message, n.RelatedRequestID, n.CreatedAt).Scan(&n.ID)
}

func (r *notificationRepository) List(ctx context.Context, accountID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM notifications WHERE account_id = $1`, accountID).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT id, account_id, kind, title, message, related_request_id, read, created_at
	          FROM notifications WHERE account_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, accountID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.AccountID, &n.Kind, &n.Title, &n.Message, &n.RelatedRequestID, &n.Read, &n.CreatedAt); err != nil {
			return nil, 0, err
		}
		notes = append(notes, n)
	}
	return notes, count, rows.Err()
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, accountID int32) error {
	query := `UPDATE notifications SET read = TRUE WHERE id = $1 AND account_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, accountID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("notification %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
