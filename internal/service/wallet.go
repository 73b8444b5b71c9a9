package service

import (
	"context"
	"fmt"

	"labkit-backend/internal/domain"
	"labkit-backend/internal/repository"
)

type walletService struct {
	walletRepo repository.WalletRepository
}

func NewWalletService(walletRepo repository.WalletRepository) WalletService {
	return &walletService{walletRepo: walletRepo}
}

func (s *walletService) GetWallet(ctx context.Context, accountID int32) (*domain.Wallet, error) {
	return s.walletRepo.GetByAccount(ctx, accountID)
}

func (s *walletService) GetStatement(ctx context.Context, accountID int32, page, pageSize int32) ([]domain.WalletTransaction, int32, error) {
	return s.walletRepo.ListTransactions(ctx, accountID, page, pageSize)
}

func (s *walletService) TopUp(ctx context.Context, accountID int32, amount int64, note string) (*domain.Wallet, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("top-up amount must be positive: %w", domain.ErrValidation)
	}
	if note == "" {
		note = "Wallet top-up"
	}
	if err := s.walletRepo.Credit(ctx, accountID, amount, domain.TransactionTypeTopUp, nil, note); err != nil {
		return nil, err
	}
	return s.walletRepo.GetByAccount(ctx, accountID)
}
