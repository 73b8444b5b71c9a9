package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"labkit-backend/internal/domain"
	"labkit-backend/internal/repository"
	"labkit-backend/internal/service"
)

func newBorrowFixture() (*MockKitRepo, *MockRequestRepo, *MockWalletRepo, *MockPenaltyRepo, service.BorrowService) {
	kitRepo := new(MockKitRepo)
	reqRepo := new(MockRequestRepo)
	walletRepo := new(MockWalletRepo)
	penaltyRepo := new(MockPenaltyRepo)

	store := &fakeStore{repos: repository.Repositories{
		Kits:      kitRepo,
		Requests:  reqRepo,
		Wallets:   walletRepo,
		Penalties: penaltyRepo,
	}}
	svc := service.NewBorrowService(store, noopNotifier{})
	return kitRepo, reqRepo, walletRepo, penaltyRepo, svc
}

func TestBorrowService_Create(t *testing.T) {
	ctx := context.Background()
	requesterID := int32(7)
	kitID := int32(3)
	returnDate := time.Now().Add(7 * 24 * time.Hour)

	t.Run("Kit Success", func(t *testing.T) {
		kitRepo, reqRepo, walletRepo, _, svc := newBorrowFixture()

		kitRepo.On("GetKit", ctx, kitID).Return(&domain.Kit{
			ID:                kitID,
			Name:              "Arduino Starter Kit",
			DepositAmount:     100_000,
			QuantityTotal:     5,
			QuantityAvailable: 4,
			Status:            domain.UnitStatusAvailable,
		}, nil)
		walletRepo.On("GetByAccount", ctx, requesterID).Return(&domain.Wallet{AccountID: requesterID, Balance: 500_000}, nil)
		reqRepo.On("Create", ctx, mock.AnythingOfType("*domain.BorrowingRequest")).Return(nil)

		req, err := svc.Create(ctx, requesterID, service.CreateRequestInput{
			Type:             domain.RequestTypeBorrowKit,
			KitID:            &kitID,
			KitQuantity:      2,
			Reason:           "IoT course project",
			ExpectReturnDate: returnDate,
		})
		assert.NoError(t, err)
		assert.Equal(t, domain.RequestStatusPendingApproval, req.Status)
		assert.Equal(t, int64(200_000), req.DepositAmount)
		assert.Equal(t, requesterID, req.RequestedBy)
	})

	t.Run("Component Success", func(t *testing.T) {
		kitRepo, reqRepo, walletRepo, _, svc := newBorrowFixture()

		kitRepo.On("GetComponent", ctx, int32(11)).Return(&domain.KitComponent{
			ID:                11,
			Name:              "Ultrasonic Sensor",
			PricePerUnit:      50_000,
			QuantityAvailable: 10,
		}, nil)
		walletRepo.On("GetByAccount", ctx, requesterID).Return(&domain.Wallet{AccountID: requesterID, Balance: 150_000}, nil)
		reqRepo.On("Create", ctx, mock.AnythingOfType("*domain.BorrowingRequest")).Return(nil)

		req, err := svc.Create(ctx, requesterID, service.CreateRequestInput{
			Type:             domain.RequestTypeBorrowComponent,
			Items:            []service.RequestItemInput{{ComponentID: 11, Quantity: 2}},
			Reason:           "Robotics club demo",
			ExpectReturnDate: returnDate,
		})
		assert.NoError(t, err)
		assert.Equal(t, int64(100_000), req.DepositAmount)
		assert.Len(t, req.Items, 1)
		assert.Equal(t, int64(50_000), req.Items[0].UnitPrice)
	})

	t.Run("Duplicate Component Lines Are Merged", func(t *testing.T) {
		kitRepo, reqRepo, walletRepo, _, svc := newBorrowFixture()

		kitRepo.On("GetComponent", ctx, int32(11)).Return(&domain.KitComponent{
			ID:                11,
			Name:              "Ultrasonic Sensor",
			PricePerUnit:      50_000,
			QuantityAvailable: 10,
		}, nil).Once()
		walletRepo.On("GetByAccount", ctx, requesterID).Return(&domain.Wallet{AccountID: requesterID, Balance: 500_000}, nil)
		reqRepo.On("Create", ctx, mock.AnythingOfType("*domain.BorrowingRequest")).Return(nil)

		req, err := svc.Create(ctx, requesterID, service.CreateRequestInput{
			Type: domain.RequestTypeBorrowComponent,
			Items: []service.RequestItemInput{
				{ComponentID: 11, Quantity: 2},
				{ComponentID: 11, Quantity: 3},
			},
			Reason:           "Robotics club demo",
			ExpectReturnDate: returnDate,
		})
		assert.NoError(t, err)
		assert.Len(t, req.Items, 1)
		assert.Equal(t, int32(5), req.Items[0].Quantity)
		assert.Equal(t, int64(250_000), req.DepositAmount)
		kitRepo.AssertExpectations(t)
	})

	t.Run("Duplicate Lines Exceed Availability", func(t *testing.T) {
		kitRepo, _, _, _, svc := newBorrowFixture()

		// Individually each line fits; combined they ask for 6 of 4.
		kitRepo.On("GetComponent", ctx, int32(11)).Return(&domain.KitComponent{
			ID:                11,
			Name:              "Ultrasonic Sensor",
			PricePerUnit:      50_000,
			QuantityAvailable: 4,
		}, nil)

		_, err := svc.Create(ctx, requesterID, service.CreateRequestInput{
			Type: domain.RequestTypeBorrowComponent,
			Items: []service.RequestItemInput{
				{ComponentID: 11, Quantity: 3},
				{ComponentID: 11, Quantity: 3},
			},
			Reason:           "Robotics club demo",
			ExpectReturnDate: returnDate,
		})
		assert.ErrorIs(t, err, domain.ErrInsufficientInventory)
	})

	t.Run("Insufficient Balance", func(t *testing.T) {
		kitRepo, _, walletRepo, _, svc := newBorrowFixture()

		kitRepo.On("GetKit", ctx, kitID).Return(&domain.Kit{
			ID:                kitID,
			DepositAmount:     100_000,
			QuantityAvailable: 4,
			Status:            domain.UnitStatusAvailable,
		}, nil)
		walletRepo.On("GetByAccount", ctx, requesterID).Return(&domain.Wallet{AccountID: requesterID, Balance: 50_000}, nil)

		_, err := svc.Create(ctx, requesterID, service.CreateRequestInput{
			Type:             domain.RequestTypeBorrowKit,
			KitID:            &kitID,
			Reason:           "lab",
			ExpectReturnDate: returnDate,
		})
		assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
	})

	t.Run("Insufficient Inventory", func(t *testing.T) {
		kitRepo, _, _, _, svc := newBorrowFixture()

		kitRepo.On("GetKit", ctx, kitID).Return(&domain.Kit{
			ID:                kitID,
			DepositAmount:     100_000,
			QuantityAvailable: 1,
			Status:            domain.UnitStatusAvailable,
		}, nil)

		_, err := svc.Create(ctx, requesterID, service.CreateRequestInput{
			Type:             domain.RequestTypeBorrowKit,
			KitID:            &kitID,
			KitQuantity:      3,
			Reason:           "lab",
			ExpectReturnDate: returnDate,
		})
		assert.ErrorIs(t, err, domain.ErrInsufficientInventory)
	})

	t.Run("Return Date In The Past", func(t *testing.T) {
		_, _, _, _, svc := newBorrowFixture()

		_, err := svc.Create(ctx, requesterID, service.CreateRequestInput{
			Type:             domain.RequestTypeBorrowKit,
			KitID:            &kitID,
			Reason:           "lab",
			ExpectReturnDate: time.Now().Add(-24 * time.Hour),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidDate)
	})

	t.Run("Missing Reason", func(t *testing.T) {
		_, _, _, _, svc := newBorrowFixture()

		_, err := svc.Create(ctx, requesterID, service.CreateRequestInput{
			Type:             domain.RequestTypeBorrowKit,
			KitID:            &kitID,
			ExpectReturnDate: returnDate,
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestBorrowService_Approve(t *testing.T) {
	ctx := context.Background()
	kitID := int32(3)
	requestID := int32(42)
	approverID := int32(99)

	t.Run("Success", func(t *testing.T) {
		kitRepo, reqRepo, walletRepo, _, svc := newBorrowFixture()

		reqRepo.On("GetByID", ctx, requestID).Return(&domain.BorrowingRequest{
			ID:            requestID,
			Type:          domain.RequestTypeBorrowKit,
			RequestedBy:   7,
			KitID:         &kitID,
			KitQuantity:   2,
			DepositAmount: 200_000,
			Status:        domain.RequestStatusPendingApproval,
		}, nil)
		kitRepo.On("ReserveKit", ctx, kitID, int32(2)).Return(nil)
		walletRepo.On("Debit", ctx, int32(7), int64(200_000), domain.TransactionTypeDepositHold, mock.Anything, mock.AnythingOfType("string")).Return(nil)
		reqRepo.On("Update", ctx, mock.AnythingOfType("*domain.BorrowingRequest"), domain.RequestStatusPendingApproval).Return(nil)

		req, err := svc.Approve(ctx, requestID, approverID)
		assert.NoError(t, err)
		assert.Equal(t, domain.RequestStatusApproved, req.Status)
		assert.Equal(t, approverID, *req.ApprovedBy)
		walletRepo.AssertExpectations(t)
		kitRepo.AssertExpectations(t)
	})

	t.Run("Already Approved", func(t *testing.T) {
		_, reqRepo, _, _, svc := newBorrowFixture()

		reqRepo.On("GetByID", ctx, requestID).Return(&domain.BorrowingRequest{
			ID:     requestID,
			Status: domain.RequestStatusApproved,
		}, nil)

		_, err := svc.Approve(ctx, requestID, approverID)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("Lost Race To Sibling Transition", func(t *testing.T) {
		kitRepo, reqRepo, walletRepo, _, svc := newBorrowFixture()

		// Two approvals read the same pending row before either
		// commits. The guarded status write lets only one through; the
		// loser's transaction rolls back with ErrInvalidTransition.
		pending := func() *domain.BorrowingRequest {
			return &domain.BorrowingRequest{
				ID:            requestID,
				Type:          domain.RequestTypeBorrowKit,
				RequestedBy:   7,
				KitID:         &kitID,
				KitQuantity:   2,
				DepositAmount: 200_000,
				Status:        domain.RequestStatusPendingApproval,
			}
		}
		reqRepo.On("GetByID", ctx, requestID).Return(pending(), nil).Once()
		reqRepo.On("GetByID", ctx, requestID).Return(pending(), nil).Once()
		kitRepo.On("ReserveKit", ctx, kitID, int32(2)).Return(nil).Twice()
		walletRepo.On("Debit", ctx, int32(7), int64(200_000), domain.TransactionTypeDepositHold, mock.Anything, mock.AnythingOfType("string")).Return(nil).Twice()
		reqRepo.On("Update", ctx, mock.AnythingOfType("*domain.BorrowingRequest"), domain.RequestStatusPendingApproval).Return(nil).Once()
		reqRepo.On("Update", ctx, mock.AnythingOfType("*domain.BorrowingRequest"), domain.RequestStatusPendingApproval).
			Return(fmt.Errorf("request 42 is no longer PENDING_APPROVAL: %w", domain.ErrInvalidTransition)).Once()

		_, err := svc.Approve(ctx, requestID, approverID)
		assert.NoError(t, err)

		_, err = svc.Approve(ctx, requestID, approverID)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		reqRepo.AssertExpectations(t)
	})

	t.Run("Stock Taken Concurrently", func(t *testing.T) {
		kitRepo, reqRepo, _, _, svc := newBorrowFixture()

		reqRepo.On("GetByID", ctx, requestID).Return(&domain.BorrowingRequest{
			ID:            requestID,
			Type:          domain.RequestTypeBorrowKit,
			RequestedBy:   7,
			KitID:         &kitID,
			KitQuantity:   2,
			DepositAmount: 200_000,
			Status:        domain.RequestStatusPendingApproval,
		}, nil)
		kitRepo.On("ReserveKit", ctx, kitID, int32(2)).Return(domain.ErrInsufficientInventory)

		_, err := svc.Approve(ctx, requestID, approverID)
		assert.ErrorIs(t, err, domain.ErrInsufficientInventory)
	})
}

func TestBorrowService_Reject(t *testing.T) {
	ctx := context.Background()
	requestID := int32(42)
	approverID := int32(99)

	t.Run("Success", func(t *testing.T) {
		_, reqRepo, _, _, svc := newBorrowFixture()

		reqRepo.On("GetByID", ctx, requestID).Return(&domain.BorrowingRequest{
			ID:          requestID,
			RequestedBy: 7,
			Status:      domain.RequestStatusPendingApproval,
		}, nil)
		reqRepo.On("Update", ctx, mock.AnythingOfType("*domain.BorrowingRequest"), domain.RequestStatusPendingApproval).Return(nil)

		req, err := svc.Reject(ctx, requestID, approverID, "out of term")
		assert.NoError(t, err)
		assert.Equal(t, domain.RequestStatusRejected, req.Status)
		assert.Equal(t, "out of term", req.RejectNote)
	})

	t.Run("Repeat Rejection", func(t *testing.T) {
		_, reqRepo, _, _, svc := newBorrowFixture()

		reqRepo.On("GetByID", ctx, requestID).Return(&domain.BorrowingRequest{
			ID:     requestID,
			Status: domain.RequestStatusRejected,
		}, nil)

		_, err := svc.Reject(ctx, requestID, approverID, "again")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestBorrowService_InspectAndReturn(t *testing.T) {
	ctx := context.Background()
	requestID := int32(42)
	inspectorID := int32(99)
	componentID := int32(11)

	approvedComponentRequest := func() *domain.BorrowingRequest {
		return &domain.BorrowingRequest{
			ID:          requestID,
			Type:        domain.RequestTypeBorrowComponent,
			RequestedBy: 7,
			Items: []domain.RequestItem{{
				ID:            1,
				RequestID:     requestID,
				ComponentID:   componentID,
				ComponentName: "Ultrasonic Sensor",
				Quantity:      2,
				UnitPrice:     50_000,
			}},
			DepositAmount:    100_000,
			ExpectReturnDate: time.Now().Add(24 * time.Hour),
			Status:           domain.RequestStatusApproved,
		}
	}

	t.Run("Partial Damage Withholds Fine From Deposit", func(t *testing.T) {
		kitRepo, reqRepo, walletRepo, penaltyRepo, svc := newBorrowFixture()

		reqRepo.On("GetByID", ctx, requestID).Return(approvedComponentRequest(), nil)
		kitRepo.On("ReleaseComponent", ctx, componentID, int32(1)).Return(nil)
		reqRepo.On("UpdateItemDamage", ctx, int32(1), int32(1)).Return(nil)
		penaltyRepo.On("Create", ctx, mock.AnythingOfType("*domain.Penalty")).Return(nil)
		walletRepo.On("Credit", ctx, int32(7), int64(50_000), domain.TransactionTypeRefund, mock.Anything, mock.AnythingOfType("string")).Return(nil)
		reqRepo.On("Update", ctx, mock.AnythingOfType("*domain.BorrowingRequest"), domain.RequestStatusApproved).Return(nil)

		req, penalty, err := svc.InspectAndReturn(ctx, requestID, inspectorID, []domain.DamageLine{{
			ComponentName: "Ultrasonic Sensor",
			ComponentID:   &componentID,
			Damaged:       true,
			Quantity:      1,
			UnitValue:     50_000,
		}}, "cracked casing")
		assert.NoError(t, err)
		assert.Equal(t, domain.RequestStatusReturned, req.Status)
		assert.False(t, req.IsLate)
		assert.NotNil(t, penalty)
		assert.Equal(t, int64(50_000), penalty.TotalAmount)
		walletRepo.AssertExpectations(t)
		kitRepo.AssertExpectations(t)
	})

	t.Run("No Damage Refunds Full Deposit", func(t *testing.T) {
		kitRepo, reqRepo, walletRepo, _, svc := newBorrowFixture()

		reqRepo.On("GetByID", ctx, requestID).Return(approvedComponentRequest(), nil)
		kitRepo.On("ReleaseComponent", ctx, componentID, int32(2)).Return(nil)
		reqRepo.On("UpdateItemDamage", ctx, int32(1), int32(0)).Return(nil)
		walletRepo.On("Credit", ctx, int32(7), int64(100_000), domain.TransactionTypeRefund, mock.Anything, mock.AnythingOfType("string")).Return(nil)
		reqRepo.On("Update", ctx, mock.AnythingOfType("*domain.BorrowingRequest"), domain.RequestStatusApproved).Return(nil)

		req, penalty, err := svc.InspectAndReturn(ctx, requestID, inspectorID, nil, "")
		assert.NoError(t, err)
		assert.Equal(t, domain.RequestStatusReturned, req.Status)
		assert.Nil(t, penalty)
		walletRepo.AssertExpectations(t)
	})

	t.Run("Fine Exceeding Deposit Floors Refund At Zero", func(t *testing.T) {
		kitRepo, reqRepo, walletRepo, penaltyRepo, svc := newBorrowFixture()

		reqRepo.On("GetByID", ctx, requestID).Return(approvedComponentRequest(), nil)
		kitRepo.On("ReleaseComponent", ctx, componentID, mock.AnythingOfType("int32")).Return(nil).Maybe()
		reqRepo.On("UpdateItemDamage", ctx, int32(1), int32(2)).Return(nil)
		penaltyRepo.On("Create", ctx, mock.AnythingOfType("*domain.Penalty")).Return(nil)
		reqRepo.On("Update", ctx, mock.AnythingOfType("*domain.BorrowingRequest"), domain.RequestStatusApproved).Return(nil)

		_, penalty, err := svc.InspectAndReturn(ctx, requestID, inspectorID, []domain.DamageLine{{
			ComponentName: "Ultrasonic Sensor",
			ComponentID:   &componentID,
			Damaged:       true,
			Quantity:      2,
			UnitValue:     80_000,
		}}, "both units destroyed")
		assert.NoError(t, err)
		assert.NotNil(t, penalty)
		assert.Equal(t, int64(160_000), penalty.TotalAmount)
		walletRepo.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Kit Bundle Damage Sends Kit To Maintenance", func(t *testing.T) {
		kitRepo, reqRepo, walletRepo, penaltyRepo, svc := newBorrowFixture()

		kitID := int32(3)
		reqRepo.On("GetByID", ctx, requestID).Return(&domain.BorrowingRequest{
			ID:               requestID,
			Type:             domain.RequestTypeBorrowKit,
			RequestedBy:      7,
			KitID:            &kitID,
			KitQuantity:      1,
			DepositAmount:    100_000,
			ExpectReturnDate: time.Now().Add(24 * time.Hour),
			Status:           domain.RequestStatusApproved,
		}, nil)
		kitRepo.On("ReleaseKit", ctx, kitID, int32(1)).Return(nil)
		kitRepo.On("GetKit", ctx, kitID).Return(&domain.Kit{ID: kitID, Status: domain.UnitStatusAvailable}, nil)
		kitRepo.On("UpdateKit", ctx, mock.MatchedBy(func(k *domain.Kit) bool {
			return k.Status == domain.UnitStatusMaintenance
		})).Return(nil)
		penaltyRepo.On("Create", ctx, mock.AnythingOfType("*domain.Penalty")).Return(nil)
		walletRepo.On("Credit", ctx, int32(7), int64(70_000), domain.TransactionTypeRefund, mock.Anything, mock.AnythingOfType("string")).Return(nil)
		reqRepo.On("Update", ctx, mock.AnythingOfType("*domain.BorrowingRequest"), domain.RequestStatusApproved).Return(nil)

		_, penalty, err := svc.InspectAndReturn(ctx, requestID, inspectorID, []domain.DamageLine{{
			ComponentName: "Breadboard",
			Damaged:       true,
			Quantity:      1,
			UnitValue:     30_000,
		}}, "")
		assert.NoError(t, err)
		assert.Equal(t, int64(30_000), penalty.TotalAmount)
		kitRepo.AssertExpectations(t)
	})

	t.Run("Late Return Sets Flag Without Automatic Fine", func(t *testing.T) {
		kitRepo, reqRepo, walletRepo, _, svc := newBorrowFixture()

		late := approvedComponentRequest()
		late.ExpectReturnDate = time.Now().Add(-48 * time.Hour)
		reqRepo.On("GetByID", ctx, requestID).Return(late, nil)
		kitRepo.On("ReleaseComponent", ctx, componentID, int32(2)).Return(nil)
		reqRepo.On("UpdateItemDamage", ctx, int32(1), int32(0)).Return(nil)
		walletRepo.On("Credit", ctx, int32(7), int64(100_000), domain.TransactionTypeRefund, mock.Anything, mock.AnythingOfType("string")).Return(nil)
		reqRepo.On("Update", ctx, mock.AnythingOfType("*domain.BorrowingRequest"), domain.RequestStatusApproved).Return(nil)

		req, penalty, err := svc.InspectAndReturn(ctx, requestID, inspectorID, nil, "")
		assert.NoError(t, err)
		assert.True(t, req.IsLate)
		assert.Nil(t, penalty)
	})

	t.Run("Return Of Pending Request Rejected", func(t *testing.T) {
		_, reqRepo, _, _, svc := newBorrowFixture()

		reqRepo.On("GetByID", ctx, requestID).Return(&domain.BorrowingRequest{
			ID:     requestID,
			Status: domain.RequestStatusPendingApproval,
		}, nil)

		_, _, err := svc.InspectAndReturn(ctx, requestID, inspectorID, nil, "")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}
