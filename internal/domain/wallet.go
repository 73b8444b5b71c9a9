package domain

import "time"

type TransactionType string

const (
	TransactionTypeDepositHold TransactionType = "DEPOSIT_HOLD"
	TransactionTypeRefund      TransactionType = "REFUND"
	TransactionTypeFine        TransactionType = "FINE"
	TransactionTypeTopUp       TransactionType = "TOPUP"
	TransactionTypeAdjustment  TransactionType = "ADJUSTMENT"
)

// Wallet holds an account's spendable balance. The balance column is
// the materialized sum of the account's wallet transactions.
type Wallet struct {
	AccountID int32     `json:"account_id"`
	Balance   int64     `json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WalletTransaction is one append-only statement row. Amount is
// positive for credits and negative for debits.
type WalletTransaction struct {
	ID               int32           `json:"id"`
	AccountID        int32           `json:"account_id"`
	Amount           int64           `json:"amount"`
	Type             TransactionType `json:"type"`
	RelatedRequestID *int32          `json:"related_request_id,omitempty"`
	Description      string          `json:"description"`
	CreatedAt        time.Time       `json:"created_at"`
}
