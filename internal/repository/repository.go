package repository

import (
	"context"
	"time"

	"labkit-backend/internal/domain"
)

type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id int32) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	Update(ctx context.Context, account *domain.Account) error
	UpdateDeviceToken(ctx context.Context, accountID int32, token string) error
	ListByRole(ctx context.Context, role domain.Role) ([]domain.Account, error)
}

type KitRepository interface {
	CreateKit(ctx context.Context, kit *domain.Kit) error
	GetKit(ctx context.Context, id int32) (*domain.Kit, error)
	UpdateKit(ctx context.Context, kit *domain.Kit) error
	ListKits(ctx context.Context, page, pageSize int32) ([]domain.Kit, int32, error)

	CreateComponent(ctx context.Context, comp *domain.KitComponent) error
	GetComponent(ctx context.Context, id int32) (*domain.KitComponent, error)
	UpdateComponent(ctx context.Context, comp *domain.KitComponent) error
	// ListComponents returns global components when kitID is nil,
	// otherwise the components bundled in the given kit.
	ListComponents(ctx context.Context, kitID *int32, page, pageSize int32) ([]domain.KitComponent, int32, error)

	// ReserveKit atomically decrements kit availability, failing with
	// domain.ErrInsufficientInventory when fewer than quantity units
	// are available.
	ReserveKit(ctx context.Context, kitID, quantity int32) error
	// ReleaseKit increments kit availability, clamped to the total.
	ReleaseKit(ctx context.Context, kitID, quantity int32) error
	ReserveComponent(ctx context.Context, componentID, quantity int32) error
	ReleaseComponent(ctx context.Context, componentID, quantity int32) error
}

type BorrowRequestRepository interface {
	// Create persists the request and its item lines.
	Create(ctx context.Context, req *domain.BorrowingRequest) error
	GetByID(ctx context.Context, id int32) (*domain.BorrowingRequest, error)
	// Update persists a status transition. The write is guarded by the
	// status the caller observed, so a sibling transition that already
	// committed makes this one fail with domain.ErrInvalidTransition.
	Update(ctx context.Context, req *domain.BorrowingRequest, from domain.RequestStatus) error
	UpdateItemDamage(ctx context.Context, itemID int32, damagedQuantity int32) error
	// MarkLate flips is_late on a request that is not yet marked,
	// reporting whether this call did the flip.
	MarkLate(ctx context.Context, id int32) (bool, error)
	ListByRequester(ctx context.Context, requesterID int32, status string, page, pageSize int32) ([]domain.BorrowingRequest, int32, error)
	ListByStatus(ctx context.Context, status domain.RequestStatus, page, pageSize int32) ([]domain.BorrowingRequest, int32, error)
	// ListOverdue returns approved requests whose expected return date
	// is before the cutoff and that are not yet marked late.
	ListOverdue(ctx context.Context, cutoff time.Time) ([]domain.BorrowingRequest, error)
}

type WalletRepository interface {
	Create(ctx context.Context, accountID int32) error
	GetByAccount(ctx context.Context, accountID int32) (*domain.Wallet, error)
	// Debit atomically subtracts amount from the balance and records a
	// statement row, failing with domain.ErrInsufficientBalance when
	// the balance is lower than amount.
	Debit(ctx context.Context, accountID int32, amount int64, txType domain.TransactionType, relatedRequestID *int32, description string) error
	// Credit adds amount to the balance unconditionally and records a
	// statement row.
	Credit(ctx context.Context, accountID int32, amount int64, txType domain.TransactionType, relatedRequestID *int32, description string) error
	ListTransactions(ctx context.Context, accountID int32, page, pageSize int32) ([]domain.WalletTransaction, int32, error)
}

type PenaltyRepository interface {
	// Create persists the penalty and its detail lines.
	Create(ctx context.Context, penalty *domain.Penalty) error
	GetByID(ctx context.Context, id int32) (*domain.Penalty, error)
	ListByAccount(ctx context.Context, accountID int32, page, pageSize int32) ([]domain.Penalty, int32, error)
	Resolve(ctx context.Context, id int32, note string) error
}

type PolicyRepository interface {
	Create(ctx context.Context, policy *domain.PenaltyPolicy) error
	GetByID(ctx context.Context, id int32) (*domain.PenaltyPolicy, error)
	Update(ctx context.Context, policy *domain.PenaltyPolicy) error
	List(ctx context.Context) ([]domain.PenaltyPolicy, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, accountID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, accountID int32) error
}

type EvidenceRepository interface {
	Create(ctx context.Context, image *domain.EvidenceImage) error
	GetByID(ctx context.Context, id int32) (*domain.EvidenceImage, error)
	Update(ctx context.Context, image *domain.EvidenceImage) error
	DeleteExpiredPending(ctx context.Context) (int64, error)
}

// Repositories bundles one repository per aggregate. Inside ExecTx the
// bundle is bound to the transaction; outside it is bound to the pool.
type Repositories struct {
	Accounts      AccountRepository
	Kits          KitRepository
	Requests      BorrowRequestRepository
	Wallets       WalletRepository
	Penalties     PenaltyRepository
	Policies      PolicyRepository
	Notifications NotificationRepository
	Evidence      EvidenceRepository
}

// Store is the persistence boundary of the engine. Each state-machine
// operation runs inside a single ExecTx call so no caller can observe
// a partially applied transition.
type Store interface {
	Repos() Repositories
	ExecTx(ctx context.Context, fn func(r Repositories) error) error
}
