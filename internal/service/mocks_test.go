package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"labkit-backend/internal/domain"
	"labkit-backend/internal/repository"
)

// fakeStore binds a fixed repository bundle and runs ExecTx callbacks
// against it directly, with no transaction underneath.
type fakeStore struct {
	repos repository.Repositories
}

func (s *fakeStore) Repos() repository.Repositories {
	return s.repos
}

func (s *fakeStore) ExecTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	return fn(s.repos)
}

// MockKitRepo
type MockKitRepo struct {
	mock.Mock
}

func (m *MockKitRepo) CreateKit(ctx context.Context, kit *domain.Kit) error {
	args := m.Called(ctx, kit)
	return args.Error(0)
}
func (m *MockKitRepo) GetKit(ctx context.Context, id int32) (*domain.Kit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Kit), args.Error(1)
}
func (m *MockKitRepo) UpdateKit(ctx context.Context, kit *domain.Kit) error {
	args := m.Called(ctx, kit)
	return args.Error(0)
}
func (m *MockKitRepo) ListKits(ctx context.Context, page, pageSize int32) ([]domain.Kit, int32, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.Kit), args.Get(1).(int32), args.Error(2)
}
func (m *MockKitRepo) CreateComponent(ctx context.Context, comp *domain.KitComponent) error {
	args := m.Called(ctx, comp)
	return args.Error(0)
}
func (m *MockKitRepo) GetComponent(ctx context.Context, id int32) (*domain.KitComponent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.KitComponent), args.Error(1)
}
func (m *MockKitRepo) UpdateComponent(ctx context.Context, comp *domain.KitComponent) error {
	args := m.Called(ctx, comp)
	return args.Error(0)
}
func (m *MockKitRepo) ListComponents(ctx context.Context, kitID *int32, page, pageSize int32) ([]domain.KitComponent, int32, error) {
	args := m.Called(ctx, kitID, page, pageSize)
	return args.Get(0).([]domain.KitComponent), args.Get(1).(int32), args.Error(2)
}
func (m *MockKitRepo) ReserveKit(ctx context.Context, kitID, quantity int32) error {
	args := m.Called(ctx, kitID, quantity)
	return args.Error(0)
}
func (m *MockKitRepo) ReleaseKit(ctx context.Context, kitID, quantity int32) error {
	args := m.Called(ctx, kitID, quantity)
	return args.Error(0)
}
func (m *MockKitRepo) ReserveComponent(ctx context.Context, componentID, quantity int32) error {
	args := m.Called(ctx, componentID, quantity)
	return args.Error(0)
}
func (m *MockKitRepo) ReleaseComponent(ctx context.Context, componentID, quantity int32) error {
	args := m.Called(ctx, componentID, quantity)
	return args.Error(0)
}

// MockRequestRepo
type MockRequestRepo struct {
	mock.Mock
}

func (m *MockRequestRepo) Create(ctx context.Context, req *domain.BorrowingRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockRequestRepo) GetByID(ctx context.Context, id int32) (*domain.BorrowingRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BorrowingRequest), args.Error(1)
}
func (m *MockRequestRepo) Update(ctx context.Context, req *domain.BorrowingRequest, from domain.RequestStatus) error {
	args := m.Called(ctx, req, from)
	return args.Error(0)
}
func (m *MockRequestRepo) MarkLate(ctx context.Context, id int32) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
func (m *MockRequestRepo) UpdateItemDamage(ctx context.Context, itemID int32, damagedQuantity int32) error {
	args := m.Called(ctx, itemID, damagedQuantity)
	return args.Error(0)
}
func (m *MockRequestRepo) ListByRequester(ctx context.Context, requesterID int32, status string, page, pageSize int32) ([]domain.BorrowingRequest, int32, error) {
	args := m.Called(ctx, requesterID, status, page, pageSize)
	return args.Get(0).([]domain.BorrowingRequest), args.Get(1).(int32), args.Error(2)
}
func (m *MockRequestRepo) ListByStatus(ctx context.Context, status domain.RequestStatus, page, pageSize int32) ([]domain.BorrowingRequest, int32, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]domain.BorrowingRequest), args.Get(1).(int32), args.Error(2)
}
func (m *MockRequestRepo) ListOverdue(ctx context.Context, cutoff time.Time) ([]domain.BorrowingRequest, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]domain.BorrowingRequest), args.Error(1)
}

// MockWalletRepo
type MockWalletRepo struct {
	mock.Mock
}

func (m *MockWalletRepo) Create(ctx context.Context, accountID int32) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}
func (m *MockWalletRepo) GetByAccount(ctx context.Context, accountID int32) (*domain.Wallet, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}
func (m *MockWalletRepo) Debit(ctx context.Context, accountID int32, amount int64, txType domain.TransactionType, relatedRequestID *int32, description string) error {
	args := m.Called(ctx, accountID, amount, txType, relatedRequestID, description)
	return args.Error(0)
}
func (m *MockWalletRepo) Credit(ctx context.Context, accountID int32, amount int64, txType domain.TransactionType, relatedRequestID *int32, description string) error {
	args := m.Called(ctx, accountID, amount, txType, relatedRequestID, description)
	return args.Error(0)
}
func (m *MockWalletRepo) ListTransactions(ctx context.Context, accountID int32, page, pageSize int32) ([]domain.WalletTransaction, int32, error) {
	args := m.Called(ctx, accountID, page, pageSize)
	return args.Get(0).([]domain.WalletTransaction), args.Get(1).(int32), args.Error(2)
}

// MockPenaltyRepo
type MockPenaltyRepo struct {
	mock.Mock
}

func (m *MockPenaltyRepo) Create(ctx context.Context, penalty *domain.Penalty) error {
	args := m.Called(ctx, penalty)
	return args.Error(0)
}
func (m *MockPenaltyRepo) GetByID(ctx context.Context, id int32) (*domain.Penalty, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Penalty), args.Error(1)
}
func (m *MockPenaltyRepo) ListByAccount(ctx context.Context, accountID int32, page, pageSize int32) ([]domain.Penalty, int32, error) {
	args := m.Called(ctx, accountID, page, pageSize)
	return args.Get(0).([]domain.Penalty), args.Get(1).(int32), args.Error(2)
}
func (m *MockPenaltyRepo) Resolve(ctx context.Context, id int32, note string) error {
	args := m.Called(ctx, id, note)
	return args.Error(0)
}

// MockAccountRepo
type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) Create(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}
func (m *MockAccountRepo) GetByID(ctx context.Context, id int32) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountRepo) Update(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}
func (m *MockAccountRepo) UpdateDeviceToken(ctx context.Context, accountID int32, token string) error {
	args := m.Called(ctx, accountID, token)
	return args.Error(0)
}
func (m *MockAccountRepo) ListByRole(ctx context.Context, role domain.Role) ([]domain.Account, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]domain.Account), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, accountID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, accountID, page, pageSize)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, accountID int32) error {
	args := m.Called(ctx, id, accountID)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) Send(ctx context.Context, toEmail, toName, subject, plainText string) error {
	args := m.Called(ctx, toEmail, toName, subject, plainText)
	return args.Error(0)
}

// MockPushSender
type MockPushSender struct {
	mock.Mock
}

func (m *MockPushSender) Send(ctx context.Context, deviceToken, title, body string, data map[string]string) error {
	args := m.Called(ctx, deviceToken, title, body, data)
	return args.Error(0)
}

// noopNotifier satisfies NotificationService for tests that do not
// assert on notification delivery.
type noopNotifier struct{}

func (noopNotifier) Dispatch(ctx context.Context, accountID int32, kind domain.NotificationKind, title, message string, relatedRequestID *int32) {
}
func (noopNotifier) List(ctx context.Context, accountID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	return nil, 0, nil
}
func (noopNotifier) MarkAsRead(ctx context.Context, accountID, notificationID int32) error {
	return nil
}
