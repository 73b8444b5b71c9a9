package service

import (
	"context"

	"labkit-backend/internal/domain"
	"labkit-backend/internal/repository"
)

type penaltyService struct {
	penaltyRepo repository.PenaltyRepository
}

func NewPenaltyService(penaltyRepo repository.PenaltyRepository) PenaltyService {
	return &penaltyService{penaltyRepo: penaltyRepo}
}

func (s *penaltyService) Get(ctx context.Context, penaltyID int32) (*domain.Penalty, error) {
	return s.penaltyRepo.GetByID(ctx, penaltyID)
}

func (s *penaltyService) ListByAccount(ctx context.Context, accountID int32, page, pageSize int32) ([]domain.Penalty, int32, error) {
	return s.penaltyRepo.ListByAccount(ctx, accountID, page, pageSize)
}

// Resolve marks a penalty as settled. Used when the receivable part of
// a fine (anything beyond the deposit) was collected outside the
// wallet.
func (s *penaltyService) Resolve(ctx context.Context, penaltyID int32, note string) error {
	return s.penaltyRepo.Resolve(ctx, penaltyID, note)
}
