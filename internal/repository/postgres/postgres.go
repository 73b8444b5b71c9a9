package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"labkit-backend/internal/repository"

	_ "github.com/lib/pq"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so every repository
// works against the pool or inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type Store struct {
	db    *sql.DB
	repos repository.Repositories
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:    db,
		repos: newRepositories(db),
	}
}

func newRepositories(db DBTX) repository.Repositories {
	return repository.Repositories{
		Accounts:      NewAccountRepository(db),
		Kits:          NewKitRepository(db),
		Requests:      NewBorrowRequestRepository(db),
		Wallets:       NewWalletRepository(db),
		Penalties:     NewPenaltyRepository(db),
		Policies:      NewPolicyRepository(db),
		Notifications: NewNotificationRepository(db),
		Evidence:      NewEvidenceRepository(db),
	}
}

func (s *Store) Repos() repository.Repositories {
	return s.repos
}

// ExecTx runs fn inside a single database transaction. The repository
// bundle passed to fn is bound to that transaction, so conditional
// UPDATE guards on inventory and wallet rows serialize concurrent
// state-machine operations on the row level.
func (s *Store) ExecTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(newRepositories(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}
