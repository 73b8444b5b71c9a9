package domain

import "time"

type RequestType string

const (
	RequestTypeBorrowKit       RequestType = "BORROW_KIT"
	RequestTypeBorrowComponent RequestType = "BORROW_COMPONENT"
)

type RequestStatus string

const (
	RequestStatusPendingApproval RequestStatus = "PENDING_APPROVAL"
	RequestStatusApproved        RequestStatus = "APPROVED"
	RequestStatusRejected        RequestStatus = "REJECTED"
	RequestStatusReturned        RequestStatus = "RETURNED"
)

// CanTransitionTo enforces the request lifecycle:
// PENDING_APPROVAL -> APPROVED | REJECTED, APPROVED -> RETURNED.
// REJECTED and RETURNED are terminal.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	switch s {
	case RequestStatusPendingApproval:
		return next == RequestStatusApproved || next == RequestStatusRejected
	case RequestStatusApproved:
		return next == RequestStatusReturned
	default:
		return false
	}
}

// RequestItem is one (component, quantity) line of a component borrow
// request. UnitPrice is snapshotted from the component at creation time;
// deposit and damage valuation use the snapshot, not live prices.
type RequestItem struct {
	ID              int32  `json:"id"`
	RequestID       int32  `json:"request_id"`
	ComponentID     int32  `json:"component_id"`
	ComponentName   string `json:"component_name"`
	Quantity        int32  `json:"quantity"`
	UnitPrice       int64  `json:"unit_price"`
	DamagedQuantity int32  `json:"damaged_quantity"`
}

// BorrowingRequest is one rental transaction. Exactly one of KitID or
// Items is populated, depending on Type. A request is never deleted;
// it only reaches a terminal status.
type BorrowingRequest struct {
	ID            int32         `json:"id"`
	Type          RequestType   `json:"request_type"`
	RequestedBy   int32         `json:"requested_by"`
	KitID         *int32        `json:"kit_id,omitempty"`
	KitQuantity   int32         `json:"kit_quantity,omitempty"`
	Items         []RequestItem `json:"items,omitempty"`
	DepositAmount int64         `json:"deposit_amount"`
	Reason        string        `json:"reason"`

	ExpectReturnDate time.Time  `json:"expect_return_date"`
	ActualReturnDate *time.Time `json:"actual_return_date,omitempty"`
	IsLate           bool       `json:"is_late"`

	Status     RequestStatus `json:"status"`
	ApprovedBy *int32        `json:"approved_by,omitempty"`
	InspectedBy *int32       `json:"inspected_by,omitempty"`
	RejectNote string        `json:"reject_note,omitempty"`

	// Display-only academic context supplied by the group/class
	// resolver; never consulted by lifecycle logic.
	GroupName string `json:"group_name,omitempty"`
	ClassCode string `json:"class_code,omitempty"`
	Semester  string `json:"semester,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
