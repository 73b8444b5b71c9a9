package domain

import "time"

type NotificationKind string

const (
	NotificationKindRequestCreated  NotificationKind = "REQUEST_CREATED"
	NotificationKindRequestApproved NotificationKind = "REQUEST_APPROVED"
	NotificationKindRequestRejected NotificationKind = "REQUEST_REJECTED"
	NotificationKindFineIssued      NotificationKind = "FINE_ISSUED"
	NotificationKindReturnCompleted NotificationKind = "RETURN_COMPLETED"
	NotificationKindReturnOverdue   NotificationKind = "RETURN_OVERDUE"
)

type Notification struct {
	ID               int32            `json:"id"`
	AccountID        int32            `json:"account_id"`
	Kind             NotificationKind `json:"kind"`
	Title            string           `json:"title"`
	Message          string           `json:"message"`
	RelatedRequestID *int32           `json:"related_request_id,omitempty"`
	Read             bool             `json:"read"`
	CreatedAt        time.Time        `json:"created_at"`
}
