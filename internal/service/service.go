package service

import (
	"context"
	"time"

	"labkit-backend/internal/domain"
)

type AuthService interface {
	Register(ctx context.Context, email, fullName, password string, role domain.Role) (*domain.Account, error)
	Login(ctx context.Context, email, password string) (*domain.Account, string, error) // account, access token
	RegisterDevice(ctx context.Context, accountID int32, deviceToken string) error
	GetAccount(ctx context.Context, accountID int32) (*domain.Account, error)
}

// CreateRequestInput is the payload of a new borrow request. Exactly
// one of KitID or Items must be populated, matching Type.
type CreateRequestInput struct {
	Type             domain.RequestType
	KitID            *int32
	KitQuantity      int32
	Items            []RequestItemInput
	Reason           string
	ExpectReturnDate time.Time
	GroupName        string
	ClassCode        string
	Semester         string
}

type RequestItemInput struct {
	ComponentID int32
	Quantity    int32
}

type BorrowService interface {
	Create(ctx context.Context, requesterID int32, input CreateRequestInput) (*domain.BorrowingRequest, error)
	Approve(ctx context.Context, requestID, approverID int32) (*domain.BorrowingRequest, error)
	Reject(ctx context.Context, requestID, approverID int32, note string) (*domain.BorrowingRequest, error)
	// InspectAndReturn runs the damage assessment over the report,
	// settles the deposit and closes the request. The returned penalty
	// is nil when the inspection found no damage.
	InspectAndReturn(ctx context.Context, requestID, inspectorID int32, report []domain.DamageLine, note string) (*domain.BorrowingRequest, *domain.Penalty, error)
	Get(ctx context.Context, requestID int32) (*domain.BorrowingRequest, error)
	ListByRequester(ctx context.Context, requesterID int32, status string, page, pageSize int32) ([]domain.BorrowingRequest, int32, error)
	ListPending(ctx context.Context, page, pageSize int32) ([]domain.BorrowingRequest, int32, error)
}

type WalletService interface {
	GetWallet(ctx context.Context, accountID int32) (*domain.Wallet, error)
	GetStatement(ctx context.Context, accountID int32, page, pageSize int32) ([]domain.WalletTransaction, int32, error)
	TopUp(ctx context.Context, accountID int32, amount int64, note string) (*domain.Wallet, error)
}

type PenaltyService interface {
	Get(ctx context.Context, penaltyID int32) (*domain.Penalty, error)
	ListByAccount(ctx context.Context, accountID int32, page, pageSize int32) ([]domain.Penalty, int32, error)
	Resolve(ctx context.Context, penaltyID int32, note string) error
}

type CatalogService interface {
	CreateKit(ctx context.Context, kit *domain.Kit, rawStatus string) error
	UpdateKit(ctx context.Context, kit *domain.Kit, rawStatus string) error
	GetKit(ctx context.Context, id int32) (*domain.Kit, []domain.KitComponent, error)
	ListKits(ctx context.Context, page, pageSize int32) ([]domain.Kit, int32, error)

	CreateComponent(ctx context.Context, comp *domain.KitComponent, rawStatus string) error
	UpdateComponent(ctx context.Context, comp *domain.KitComponent, rawStatus string) error
	GetComponent(ctx context.Context, id int32) (*domain.KitComponent, error)
	ListComponents(ctx context.Context, kitID *int32, page, pageSize int32) ([]domain.KitComponent, int32, error)

	CreatePolicy(ctx context.Context, policy *domain.PenaltyPolicy, rawType string) error
	UpdatePolicy(ctx context.Context, policy *domain.PenaltyPolicy, rawType string) error
	ListPolicies(ctx context.Context) ([]domain.PenaltyPolicy, error)
}

// NotificationService is the dispatcher boundary: Dispatch fans a
// lifecycle event out to the in-app feed, email and push. Delivery is
// fire-and-forget; failures are logged, never returned.
type NotificationService interface {
	Dispatch(ctx context.Context, accountID int32, kind domain.NotificationKind, title, message string, relatedRequestID *int32)
	List(ctx context.Context, accountID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, accountID, notificationID int32) error
}

type EmailService interface {
	Send(ctx context.Context, toEmail, toName, subject, plainText string) error
}

// PushSender delivers a push notification to one device token.
type PushSender interface {
	Send(ctx context.Context, deviceToken, title, body string, data map[string]string) error
}

type EvidenceService interface {
	// RequestUpload creates a pending evidence record and returns it
	// with the URL the client uploads the image to.
	RequestUpload(ctx context.Context, uploaderID int32, fileName, contentType string) (*domain.EvidenceImage, string, error)
	// ConfirmUpload marks the image as uploaded once the file is in
	// place, optionally binding it to a penalty detail line.
	ConfirmUpload(ctx context.Context, uploaderID, imageID int32, penaltyDetailID *int32) (*domain.EvidenceImage, error)
	DownloadURL(ctx context.Context, imageID int32) (string, error)
}
