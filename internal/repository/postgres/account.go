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

type accountRepository struct {
	db DBTX
}

func NewAccountRepository(db DBTX) repository.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, a *domain.Account) error {
	query := `INSERT INTO accounts (email, full_name, role, password_hash, device_token, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return r.db.QueryRowContext(ctx, query, a.Email, a.FullName, a.Role, a.PasswordHash, a.DeviceToken, time.Now()).Scan(&a.ID)
}

func (r *accountRepository) GetByID(ctx context.Context, id int32) (*domain.Account, error) {
	a := &domain.Account{}
	query := `SELECT id, email, full_name, role, password_hash, COALESCE(device_token, ''), created_at
	          FROM accounts WHERE id = $1 AND deleted_at IS NULL`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Email, &a.FullName, &a.Role, &a.PasswordHash, &a.DeviceToken, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	a := &domain.Account{}
	query := `SELECT id, email, full_name, role, password_hash, COALESCE(device_token, ''), created_at
	          FROM accounts WHERE email = $1 AND deleted_at IS NULL`
	err := r.db.QueryRowContext(ctx, query, email).Scan(&a.ID, &a.Email, &a.FullName, &a.Role, &a.PasswordHash, &a.DeviceToken, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %s: %w", email, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *accountRepository) Update(ctx context.Context, a *domain.Account) error {
	query := `UPDATE accounts SET email=$1, full_name=$2, role=$3, password_hash=$4 WHERE id=$5`
	_, err := r.db.ExecContext(ctx, query, a.Email, a.FullName, a.Role, a.PasswordHash, a.ID)
	return err
}

func (r *accountRepository) UpdateDeviceToken(ctx context.Context, accountID int32, token string) error {
	query := `UPDATE accounts SET device_token=$1 WHERE id=$2`
	_, err := r.db.ExecContext(ctx, query, token, accountID)
	return err
}

func (r *accountRepository) ListByRole(ctx context.Context, role domain.Role) ([]domain.Account, error) {
	query := `SELECT id, email, full_name, role, password_hash, COALESCE(device_token, ''), created_at
	          FROM accounts WHERE role = $1 AND deleted_at IS NULL ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.ID, &a.Email, &a.FullName, &a.Role, &a.PasswordHash, &a.DeviceToken, &a.CreatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}
