package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"labkit-backend/internal/domain"
	"labkit-backend/internal/repository"
	"labkit-backend/internal/security"
)

type authService struct {
	store        repository.Store
	tokenManager security.TokenManager
}

func NewAuthService(store repository.Store, tokenManager security.TokenManager) AuthService {
	return &authService{
		store:        store,
		tokenManager: tokenManager,
	}
}

// Register creates the account together with its empty wallet, so
// every account the engine sees has a wallet row to debit.
func (s *authService) Register(ctx context.Context, email, fullName, password string, role domain.Role) (*domain.Account, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || fullName == "" || len(password) < 8 {
		return nil, fmt.Errorf("email, full name and a password of 8+ characters are required: %w", domain.ErrValidation)
	}
	switch role {
	case domain.RoleStudent, domain.RoleLecturer, domain.RoleAdmin:
	default:
		return nil, fmt.Errorf("unknown role %q: %w", role, domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &domain.Account{
		Email:        email,
		FullName:     fullName,
		Role:         role,
		PasswordHash: string(hash),
	}

	err = s.store.ExecTx(ctx, func(r repository.Repositories) error {
		if err := r.Accounts.Create(ctx, account); err != nil {
			return err
		}
		return r.Wallets.Create(ctx, account.ID)
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.Account, string, error) {
	account, err := s.store.Repos().Accounts.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return nil, "", fmt.Errorf("invalid credentials: %w", domain.ErrValidation)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("invalid credentials: %w", domain.ErrValidation)
	}

	token, err := s.tokenManager.GenerateAccessToken(account.ID, account.Email, account.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return account, token, nil
}

func (s *authService) RegisterDevice(ctx context.Context, accountID int32, deviceToken string) error {
	if deviceToken == "" {
		return fmt.Errorf("device token is required: %w", domain.ErrValidation)
	}
	return s.store.Repos().Accounts.UpdateDeviceToken(ctx, accountID, deviceToken)
}

func (s *authService) GetAccount(ctx context.Context, accountID int32) (*domain.Account, error) {
	return s.store.Repos().Accounts.GetByID(ctx, accountID)
}
