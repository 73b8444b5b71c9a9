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

type walletRepository struct {
	db DBTX
}

func NewWalletRepository(db DBTX) repository.WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) Create(ctx context.Context, accountID int32) error {
	query := `INSERT INTO wallets (account_id, balance, updated_at) VALUES ($1, 0, $2)`
	_, err := r.db.ExecContext(ctx, query, accountID, time.Now())
	return err
}

func (r *walletRepository) GetByAccount(ctx context.Context, accountID int32) (*domain.Wallet, error) {
	w := &domain.Wallet{}
	query := `SELECT account_id, balance, updated_at FROM wallets WHERE account_id = $1`
	err := r.db.QueryRowContext(ctx, query, accountID).Scan(&w.AccountID, &w.Balance, &w.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("wallet for account %d: %w", accountID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Debit decrements the balance only when it covers the amount; a
// zero-row update means the funds are gone and the operation fails
// without writing a statement row.
func (r *walletRepository) Debit(ctx context.Context, accountID int32, amount int64, txType domain.TransactionType, relatedRequestID *int32, description string) error {
	if amount < 0 {
		return fmt.Errorf("debit amount %d: %w", amount, domain.ErrValidation)
	}
	query := `UPDATE wallets SET balance = balance - $1, updated_at = $2 WHERE account_id = $3 AND balance >= $1`
	res, err := r.db.ExecContext(ctx, query, amount, time.Now(), accountID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("account %d, amount %d: %w", accountID, amount, domain.ErrInsufficientBalance)
	}
	return r.record(ctx, accountID, -amount, txType, relatedRequestID, description)
}

func (r *walletRepository) Credit(ctx context.Context, accountID int32, amount int64, txType domain.TransactionType, relatedRequestID *int32, description string) error {
	if amount < 0 {
		return fmt.Errorf("credit amount %d: %w", amount, domain.ErrValidation)
	}
	query := `UPDATE wallets SET balance = balance + $1, updated_at = $2 WHERE account_id = $3`
	res, err := r.db.ExecContext(ctx, query, amount, time.Now(), accountID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("wallet for account %d: %w", accountID, domain.ErrNotFound)
	}
	return r.record(ctx, accountID, amount, txType, relatedRequestID, description)
}

func (r *walletRepository) record(ctx context.Context, accountID int32, amount int64, txType domain.TransactionType, relatedRequestID *int32, description string) error {
	query := `INSERT INTO wallet_transactions (account_id, amount, type, related_request_id, description, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, accountID, amount, txType, relatedRequestID, description, time.Now())
	return err
}

func (r *walletRepository) ListTransactions(ctx context.Context, accountID int32, page, pageSize int32) ([]domain.WalletTransaction, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM wallet_transactions WHERE account_id = $1`, accountID).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT id, account_id, amount, type, related_request_id, COALESCE(description, ''), created_at
	          FROM wallet_transactions WHERE account_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, accountID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var txs []domain.WalletTransaction
	for rows.Next() {
		var tx domain.WalletTransaction
		if err := rows.Scan(&tx.ID, &tx.AccountID, &tx.Amount, &tx.Type, &tx.RelatedRequestID, &tx.Description, &tx.CreatedAt); err != nil {
			return nil, 0, err
		}
		txs = append(txs, tx)
	}
	return txs, count, rows.Err()
}
