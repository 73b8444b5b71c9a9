package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"labkit-backend/internal/domain"
	"labkit-backend/internal/repository/postgres"
)

func TestWalletRepository_Debit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewWalletRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE wallets SET balance = balance -").
			WithArgs(int64(100_000), sqlmock.AnyArg(), int32(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO wallet_transactions").
			WithArgs(int32(7), int64(-100_000), domain.TransactionTypeDepositHold, sqlmock.AnyArg(), "Deposit for borrow request #42", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		reqID := int32(42)
		err := repo.Debit(ctx, 7, 100_000, domain.TransactionTypeDepositHold, &reqID, "Deposit for borrow request #42")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Insufficient Balance", func(t *testing.T) {
		// The balance guard makes the UPDATE match no rows.
		mock.ExpectExec("UPDATE wallets SET balance = balance -").
			WithArgs(int64(100_000), sqlmock.AnyArg(), int32(7)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Debit(ctx, 7, 100_000, domain.TransactionTypeDepositHold, nil, "deposit")
		assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Negative Amount Rejected", func(t *testing.T) {
		err := repo.Debit(ctx, 7, -1, domain.TransactionTypeDepositHold, nil, "deposit")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestWalletRepository_Credit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewWalletRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE wallets SET balance = balance \\+").
			WithArgs(int64(50_000), sqlmock.AnyArg(), int32(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO wallet_transactions").
			WithArgs(int32(7), int64(50_000), domain.TransactionTypeRefund, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		reqID := int32(42)
		err := repo.Credit(ctx, 7, 50_000, domain.TransactionTypeRefund, &reqID, "Deposit refund for borrow request #42")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing Wallet", func(t *testing.T) {
		mock.ExpectExec("UPDATE wallets SET balance = balance \\+").
			WithArgs(int64(50_000), sqlmock.AnyArg(), int32(8)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Credit(ctx, 8, 50_000, domain.TransactionTypeTopUp, nil, "top up")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestWalletRepository_GetByAccount(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewWalletRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT account_id, balance, updated_at FROM wallets").
			WithArgs(int32(7)).
			WillReturnRows(sqlmock.NewRows([]string{"account_id", "balance", "updated_at"}).
				AddRow(7, 250_000, time.Now()))

		wallet, err := repo.GetByAccount(ctx, 7)
		assert.NoError(t, err)
		assert.Equal(t, int64(250_000), wallet.Balance)
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery("SELECT account_id, balance, updated_at FROM wallets").
			WithArgs(int32(9)).
			WillReturnRows(sqlmock.NewRows([]string{"account_id", "balance", "updated_at"}))

		_, err := repo.GetByAccount(ctx, 9)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
