package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"labkit-backend/internal/domain"
	"labkit-backend/internal/repository"
	"labkit-backend/internal/security"
	"labkit-backend/internal/service"
)

func newAuthFixture() (*MockAccountRepo, *MockWalletRepo, service.AuthService) {
	accountRepo := new(MockAccountRepo)
	walletRepo := new(MockWalletRepo)
	store := &fakeStore{repos: repository.Repositories{
		Accounts: accountRepo,
		Wallets:  walletRepo,
	}}
	svc := service.NewAuthService(store, security.NewTokenManager("test-secret", 60))
	return accountRepo, walletRepo, svc
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates Account And Wallet", func(t *testing.T) {
		accountRepo, walletRepo, svc := newAuthFixture()

		accountRepo.On("Create", ctx, mock.AnythingOfType("*domain.Account")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*domain.Account).ID = 7
			}).Return(nil)
		walletRepo.On("Create", ctx, int32(7)).Return(nil)

		account, err := svc.Register(ctx, "  Student@Uni.EDU ", "Student One", "supersecret", domain.RoleStudent)
		assert.NoError(t, err)
		assert.Equal(t, "student@uni.edu", account.Email)
		assert.NotEqual(t, "supersecret", account.PasswordHash)
		walletRepo.AssertExpectations(t)
	})

	t.Run("Short Password Rejected", func(t *testing.T) {
		_, _, svc := newAuthFixture()

		_, err := svc.Register(ctx, "s@uni.edu", "Student", "short", domain.RoleStudent)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Unknown Role Rejected", func(t *testing.T) {
		_, _, svc := newAuthFixture()

		_, err := svc.Register(ctx, "s@uni.edu", "Student", "supersecret", domain.Role("JANITOR"))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.DefaultCost)

	t.Run("Success", func(t *testing.T) {
		accountRepo, _, svc := newAuthFixture()

		accountRepo.On("GetByEmail", ctx, "student@uni.edu").Return(&domain.Account{
			ID:           7,
			Email:        "student@uni.edu",
			Role:         domain.RoleStudent,
			PasswordHash: string(hash),
		}, nil)

		account, token, err := svc.Login(ctx, "student@uni.edu", "supersecret")
		assert.NoError(t, err)
		assert.Equal(t, int32(7), account.ID)
		assert.NotEmpty(t, token)
	})

	t.Run("Wrong Password", func(t *testing.T) {
		accountRepo, _, svc := newAuthFixture()

		accountRepo.On("GetByEmail", ctx, "student@uni.edu").Return(&domain.Account{
			ID:           7,
			PasswordHash: string(hash),
		}, nil)

		_, _, err := svc.Login(ctx, "student@uni.edu", "wrong")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Unknown Email", func(t *testing.T) {
		accountRepo, _, svc := newAuthFixture()

		accountRepo.On("GetByEmail", ctx, "ghost@uni.edu").Return(nil, domain.ErrNotFound)

		_, _, err := svc.Login(ctx, "ghost@uni.edu", "supersecret")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestAuthService_RegisterDevice(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		accountRepo, _, svc := newAuthFixture()

		accountRepo.On("UpdateDeviceToken", ctx, int32(7), "fcm-token").Return(nil)
		assert.NoError(t, svc.RegisterDevice(ctx, 7, "fcm-token"))
	})

	t.Run("Empty Token Rejected", func(t *testing.T) {
		_, _, svc := newAuthFixture()

		assert.ErrorIs(t, svc.RegisterDevice(ctx, 7, ""), domain.ErrValidation)
	})
}
