package service

import (
	"context"
	"fmt"
	"time"

	"labkit-backend/internal/domain"
	"labkit-backend/internal/repository"
	"labkit-backend/internal/utils"
)

type borrowService struct {
	store    repository.Store
	notifier NotificationService
}

func NewBorrowService(store repository.Store, notifier NotificationService) BorrowService {
	return &borrowService{
		store:    store,
		notifier: notifier,
	}
}

// Create validates availability and balance and records the request in
// PENDING_APPROVAL. Nothing is reserved yet; inventory and the deposit
// are taken at approval, re-checked atomically there.
func (s *borrowService) Create(ctx context.Context, requesterID int32, input CreateRequestInput) (*domain.BorrowingRequest, error) {
	if input.Reason == "" {
		return nil, fmt.Errorf("reason is required: %w", domain.ErrValidation)
	}
	if !input.ExpectReturnDate.After(time.Now()) {
		return nil, domain.ErrInvalidDate
	}

	req := &domain.BorrowingRequest{
		Type:             input.Type,
		RequestedBy:      requesterID,
		Reason:           input.Reason,
		ExpectReturnDate: input.ExpectReturnDate,
		Status:           domain.RequestStatusPendingApproval,
		GroupName:        input.GroupName,
		ClassCode:        input.ClassCode,
		Semester:         input.Semester,
	}

	err := s.store.ExecTx(ctx, func(r repository.Repositories) error {
		switch input.Type {
		case domain.RequestTypeBorrowKit:
			if input.KitID == nil || len(input.Items) > 0 {
				return fmt.Errorf("kit request must name exactly one kit: %w", domain.ErrValidation)
			}
			qty := input.KitQuantity
			if qty <= 0 {
				qty = 1
			}
			kit, err := r.Kits.GetKit(ctx, *input.KitID)
			if err != nil {
				return err
			}
			if kit.Status != domain.UnitStatusAvailable {
				return fmt.Errorf("kit %q is %s: %w", kit.Name, kit.Status, domain.ErrValidation)
			}
			if kit.QuantityAvailable < qty {
				return fmt.Errorf("kit %q has %d of %d units: %w", kit.Name, kit.QuantityAvailable, qty, domain.ErrInsufficientInventory)
			}
			req.KitID = input.KitID
			req.KitQuantity = qty
			req.DepositAmount = kit.DepositAmount * int64(qty)

		case domain.RequestTypeBorrowComponent:
			if input.KitID != nil || len(input.Items) == 0 {
				return fmt.Errorf("component request must carry at least one item: %w", domain.ErrValidation)
			}
			// Repeated lines for the same component are merged so the
			// availability check sees the combined quantity.
			totals := make(map[int32]int32, len(input.Items))
			for _, in := range input.Items {
				if in.Quantity <= 0 {
					return fmt.Errorf("item quantity must be positive: %w", domain.ErrValidation)
				}
				totals[in.ComponentID] += in.Quantity
			}
			for _, in := range input.Items {
				qty, pending := totals[in.ComponentID]
				if !pending {
					continue
				}
				delete(totals, in.ComponentID)

				comp, err := r.Kits.GetComponent(ctx, in.ComponentID)
				if err != nil {
					return err
				}
				if !comp.Rentable() {
					return fmt.Errorf("component %q belongs to a kit bundle: %w", comp.Name, domain.ErrValidation)
				}
				if comp.QuantityAvailable < qty {
					return fmt.Errorf("component %q has %d of %d units: %w", comp.Name, comp.QuantityAvailable, qty, domain.ErrInsufficientInventory)
				}
				req.Items = append(req.Items, domain.RequestItem{
					ComponentID:   comp.ID,
					ComponentName: comp.Name,
					Quantity:      qty,
					UnitPrice:     comp.PricePerUnit,
				})
			}
			req.DepositAmount = utils.ComputeComponentDeposit(req.Items)

		default:
			return fmt.Errorf("unknown request type %q: %w", input.Type, domain.ErrValidation)
		}

		wallet, err := r.Wallets.GetByAccount(ctx, requesterID)
		if err != nil {
			return err
		}
		if wallet.Balance < req.DepositAmount {
			return fmt.Errorf("deposit %d exceeds balance %d: %w", req.DepositAmount, wallet.Balance, domain.ErrInsufficientBalance)
		}

		return r.Requests.Create(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Dispatch(ctx, requesterID, domain.NotificationKindRequestCreated,
		"Borrow Request Submitted",
		fmt.Sprintf("Your borrow request #%d is awaiting approval. Deposit on approval: %d", req.ID, req.DepositAmount),
		&req.ID)

	return req, nil
}

// Approve moves a pending request to APPROVED, reserving inventory and
// debiting the deposit in the same transaction. Availability is
// re-checked by the reserve guards, so a concurrent approval that took
// the stock first makes this one fail with ErrInsufficientInventory.
// The status write itself is guarded on the status that was read, so a
// sibling transition on the same request that committed first rolls
// this one back with ErrInvalidTransition.
func (s *borrowService) Approve(ctx context.Context, requestID, approverID int32) (*domain.BorrowingRequest, error) {
	var req *domain.BorrowingRequest

	err := s.store.ExecTx(ctx, func(r repository.Repositories) error {
		var err error
		req, err = r.Requests.GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		if !req.Status.CanTransitionTo(domain.RequestStatusApproved) {
			return fmt.Errorf("request %d is %s: %w", req.ID, req.Status, domain.ErrInvalidTransition)
		}

		switch req.Type {
		case domain.RequestTypeBorrowKit:
			if err := r.Kits.ReserveKit(ctx, *req.KitID, req.KitQuantity); err != nil {
				return err
			}
		case domain.RequestTypeBorrowComponent:
			for _, item := range req.Items {
				if err := r.Kits.ReserveComponent(ctx, item.ComponentID, item.Quantity); err != nil {
					return err
				}
			}
		}

		if err := r.Wallets.Debit(ctx, req.RequestedBy, req.DepositAmount, domain.TransactionTypeDepositHold, &req.ID,
			fmt.Sprintf("Deposit for borrow request #%d", req.ID)); err != nil {
			return err
		}

		from := req.Status
		req.Status = domain.RequestStatusApproved
		req.ApprovedBy = &approverID
		return r.Requests.Update(ctx, req, from)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Dispatch(ctx, req.RequestedBy, domain.NotificationKindRequestApproved,
		"Borrow Request Approved",
		fmt.Sprintf("Request #%d was approved. A deposit of %d was taken from your wallet.", req.ID, req.DepositAmount),
		&req.ID)

	return req, nil
}

// Reject moves a pending request to REJECTED. No inventory or wallet
// effect; rejecting a request that is not pending fails with
// ErrInvalidTransition, including a repeat rejection.
func (s *borrowService) Reject(ctx context.Context, requestID, approverID int32, note string) (*domain.BorrowingRequest, error) {
	var req *domain.BorrowingRequest

	err := s.store.ExecTx(ctx, func(r repository.Repositories) error {
		var err error
		req, err = r.Requests.GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		if !req.Status.CanTransitionTo(domain.RequestStatusRejected) {
			return fmt.Errorf("request %d is %s: %w", req.ID, req.Status, domain.ErrInvalidTransition)
		}

		from := req.Status
		req.Status = domain.RequestStatusRejected
		req.ApprovedBy = &approverID
		req.RejectNote = note
		return r.Requests.Update(ctx, req, from)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Dispatch(ctx, req.RequestedBy, domain.NotificationKindRequestRejected,
		"Borrow Request Rejected",
		fmt.Sprintf("Request #%d was rejected. %s", req.ID, note),
		&req.ID)

	return req, nil
}

// InspectAndReturn closes an approved request: it assesses the damage
// report, returns undamaged stock, settles the deposit against the
// fine and records a penalty when the fine is positive. A fine larger
// than the deposit leaves a receivable on the penalty; the refund is
// floored at zero.
func (s *borrowService) InspectAndReturn(ctx context.Context, requestID, inspectorID int32, report []domain.DamageLine, note string) (*domain.BorrowingRequest, *domain.Penalty, error) {
	var (
		req     *domain.BorrowingRequest
		penalty *domain.Penalty
	)

	err := s.store.ExecTx(ctx, func(r repository.Repositories) error {
		var err error
		req, err = r.Requests.GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		if !req.Status.CanTransitionTo(domain.RequestStatusReturned) {
			return fmt.Errorf("request %d is %s: %w", req.ID, req.Status, domain.ErrInvalidTransition)
		}

		assessment := utils.AssessDamage(req.Items, report)
		now := time.Now()

		switch req.Type {
		case domain.RequestTypeBorrowKit:
			// The kit comes back whole; damage to bundled components
			// only raises a fine. A damaged bundle sends the kit to
			// maintenance instead of the shelf.
			if err := r.Kits.ReleaseKit(ctx, *req.KitID, req.KitQuantity); err != nil {
				return err
			}
			if assessment.FineAmount > 0 {
				kit, err := r.Kits.GetKit(ctx, *req.KitID)
				if err != nil {
					return err
				}
				kit.Status = domain.UnitStatusMaintenance
				if err := r.Kits.UpdateKit(ctx, kit); err != nil {
					return err
				}
			}
		case domain.RequestTypeBorrowComponent:
			damaged := utils.DamagedQuantities(req.Items, report)
			for i := range req.Items {
				item := &req.Items[i]
				item.DamagedQuantity = damaged[item.ComponentID]
				if returned := item.Quantity - item.DamagedQuantity; returned > 0 {
					if err := r.Kits.ReleaseComponent(ctx, item.ComponentID, returned); err != nil {
						return err
					}
				}
				if err := r.Requests.UpdateItemDamage(ctx, item.ID, item.DamagedQuantity); err != nil {
					return err
				}
			}
		}

		if assessment.FineAmount > 0 {
			penalty = &domain.Penalty{
				BorrowRequestID: req.ID,
				AccountID:       req.RequestedBy,
				TotalAmount:     assessment.FineAmount,
				TakeEffectDate:  now,
				Note:            note,
				Details:         assessment.Details,
			}
			if err := r.Penalties.Create(ctx, penalty); err != nil {
				return err
			}
		}

		refund := req.DepositAmount - assessment.FineAmount
		if refund < 0 {
			refund = 0
		}
		if refund > 0 {
			desc := fmt.Sprintf("Deposit refund for borrow request #%d", req.ID)
			if assessment.FineAmount > 0 {
				desc = fmt.Sprintf("Deposit refund for borrow request #%d (fine of %d withheld)", req.ID, assessment.FineAmount)
			}
			if err := r.Wallets.Credit(ctx, req.RequestedBy, refund, domain.TransactionTypeRefund, &req.ID, desc); err != nil {
				return err
			}
		}

		from := req.Status
		req.Status = domain.RequestStatusReturned
		req.ActualReturnDate = &now
		req.IsLate = now.After(req.ExpectReturnDate)
		req.InspectedBy = &inspectorID
		return r.Requests.Update(ctx, req, from)
	})
	if err != nil {
		return nil, nil, err
	}

	s.notifier.Dispatch(ctx, req.RequestedBy, domain.NotificationKindReturnCompleted,
		"Return Completed",
		fmt.Sprintf("Request #%d is closed. Deposit settled.", req.ID),
		&req.ID)
	if penalty != nil {
		s.notifier.Dispatch(ctx, req.RequestedBy, domain.NotificationKindFineIssued,
			"Fine Issued",
			fmt.Sprintf("A fine of %d was issued for damage found at the return of request #%d.", penalty.TotalAmount, req.ID),
			&req.ID)
	}

	return req, penalty, nil
}

func (s *borrowService) Get(ctx context.Context, requestID int32) (*domain.BorrowingRequest, error) {
	return s.store.Repos().Requests.GetByID(ctx, requestID)
}

func (s *borrowService) ListByRequester(ctx context.Context, requesterID int32, status string, page, pageSize int32) ([]domain.BorrowingRequest, int32, error) {
	return s.store.Repos().Requests.ListByRequester(ctx, requesterID, status, page, pageSize)
}

func (s *borrowService) ListPending(ctx context.Context, page, pageSize int32) ([]domain.BorrowingRequest, int32, error) {
	return s.store.Repos().Requests.ListByStatus(ctx, domain.RequestStatusPendingApproval, page, pageSize)
}
