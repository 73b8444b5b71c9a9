package service

import (
	"context"
	"fmt"
	"time"

	"labkit-backend/internal/domain"
	"labkit-backend/internal/repository"
)

type catalogService struct {
	kitRepo    repository.KitRepository
	policyRepo repository.PolicyRepository
}

func NewCatalogService(kitRepo repository.KitRepository, policyRepo repository.PolicyRepository) CatalogService {
	return &catalogService{
		kitRepo:    kitRepo,
		policyRepo: policyRepo,
	}
}

// Admin CRUD over the reference rows the engine reads. Every status
// string arriving from outside goes through the normalization step, so
// legacy variants never reach the database.

func (s *catalogService) CreateKit(ctx context.Context, kit *domain.Kit, rawStatus string) error {
	if err := validateKit(kit); err != nil {
		return err
	}
	status, err := domain.NormalizeUnitStatus(rawStatus)
	if err != nil {
		return err
	}
	kit.Status = status
	if kit.QuantityAvailable == 0 {
		kit.QuantityAvailable = kit.QuantityTotal
	}
	return s.kitRepo.CreateKit(ctx, kit)
}

func (s *catalogService) UpdateKit(ctx context.Context, kit *domain.Kit, rawStatus string) error {
	if err := validateKit(kit); err != nil {
		return err
	}
	status, err := domain.NormalizeUnitStatus(rawStatus)
	if err != nil {
		return err
	}
	kit.Status = status
	return s.kitRepo.UpdateKit(ctx, kit)
}

func (s *catalogService) GetKit(ctx context.Context, id int32) (*domain.Kit, []domain.KitComponent, error) {
	kit, err := s.kitRepo.GetKit(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	comps, _, err := s.kitRepo.ListComponents(ctx, &id, 1, 500)
	if err != nil {
		return nil, nil, err
	}
	return kit, comps, nil
}

func (s *catalogService) ListKits(ctx context.Context, page, pageSize int32) ([]domain.Kit, int32, error) {
	return s.kitRepo.ListKits(ctx, page, pageSize)
}

func (s *catalogService) CreateComponent(ctx context.Context, comp *domain.KitComponent, rawStatus string) error {
	if err := validateComponent(comp); err != nil {
		return err
	}
	status, err := domain.NormalizeUnitStatus(rawStatus)
	if err != nil {
		return err
	}
	comp.Status = status
	if comp.QuantityAvailable == 0 {
		comp.QuantityAvailable = comp.QuantityTotal
	}
	return s.kitRepo.CreateComponent(ctx, comp)
}

func (s *catalogService) UpdateComponent(ctx context.Context, comp *domain.KitComponent, rawStatus string) error {
	if err := validateComponent(comp); err != nil {
		return err
	}
	status, err := domain.NormalizeUnitStatus(rawStatus)
	if err != nil {
		return err
	}
	comp.Status = status
	return s.kitRepo.UpdateComponent(ctx, comp)
}

func (s *catalogService) GetComponent(ctx context.Context, id int32) (*domain.KitComponent, error) {
	return s.kitRepo.GetComponent(ctx, id)
}

func (s *catalogService) ListComponents(ctx context.Context, kitID *int32, page, pageSize int32) ([]domain.KitComponent, int32, error) {
	return s.kitRepo.ListComponents(ctx, kitID, page, pageSize)
}

func (s *catalogService) CreatePolicy(ctx context.Context, policy *domain.PenaltyPolicy, rawType string) error {
	if policy.PolicyName == "" || policy.Amount < 0 {
		return fmt.Errorf("policy name and a non-negative amount are required: %w", domain.ErrValidation)
	}
	pType, err := domain.ParsePolicyType(rawType)
	if err != nil {
		return err
	}
	policy.Type = pType
	if policy.IssuedDate.IsZero() {
		policy.IssuedDate = time.Now()
	}
	return s.policyRepo.Create(ctx, policy)
}

func (s *catalogService) UpdatePolicy(ctx context.Context, policy *domain.PenaltyPolicy, rawType string) error {
	if policy.PolicyName == "" || policy.Amount < 0 {
		return fmt.Errorf("policy name and a non-negative amount are required: %w", domain.ErrValidation)
	}
	pType, err := domain.ParsePolicyType(rawType)
	if err != nil {
		return err
	}
	policy.Type = pType
	return s.policyRepo.Update(ctx, policy)
}

func (s *catalogService) ListPolicies(ctx context.Context) ([]domain.PenaltyPolicy, error) {
	return s.policyRepo.List(ctx)
}

func validateKit(kit *domain.Kit) error {
	if kit.Name == "" || kit.QuantityTotal < 0 || kit.DepositAmount < 0 {
		return fmt.Errorf("kit name, non-negative quantity and deposit are required: %w", domain.ErrValidation)
	}
	if kit.QuantityAvailable < 0 || kit.QuantityAvailable > kit.QuantityTotal {
		return fmt.Errorf("available quantity must stay within [0, total]: %w", domain.ErrValidation)
	}
	return nil
}

func validateComponent(comp *domain.KitComponent) error {
	if comp.Name == "" || comp.QuantityTotal < 0 || comp.PricePerUnit < 0 {
		return fmt.Errorf("component name, non-negative quantity and price are required: %w", domain.ErrValidation)
	}
	if comp.QuantityAvailable < 0 || comp.QuantityAvailable > comp.QuantityTotal {
		return fmt.Errorf("available quantity must stay within [0, total]: %w", domain.ErrValidation)
	}
	return nil
}
