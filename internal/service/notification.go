package service

import (
	"context"
	"fmt"

	"labkit-backend/internal/domain"
	"labkit-backend/internal/logger"
	"labkit-backend/internal/repository"
)

type notificationService struct {
	noteRepo    repository.NotificationRepository
	accountRepo repository.AccountRepository
	emailSvc    EmailService
	push        PushSender
}

func NewNotificationService(noteRepo repository.NotificationRepository, accountRepo repository.AccountRepository, emailSvc EmailService, push PushSender) NotificationService {
	return &notificationService{
		noteRepo:    noteRepo,
		accountRepo: accountRepo,
		emailSvc:    emailSvc,
		push:        push,
	}
}

// Dispatch writes the in-app row and fans out to email and push. Every
// leg is best-effort: a delivery failure is logged and never reaches
// the lifecycle operation that triggered it.
func (s *notificationService) Dispatch(ctx context.Context, accountID int32, kind domain.NotificationKind, title, message string, relatedRequestID *int32) {
	note := &domain.Notification{
		AccountID:        accountID,
		Kind:             kind,
		Title:            title,
		Message:          message,
		RelatedRequestID: relatedRequestID,
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Warn("Failed to store notification", "account_id", accountID, "kind", kind, "error", err)
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		logger.Warn("Failed to resolve notification recipient", "account_id", accountID, "error", err)
		return
	}

	if err := s.emailSvc.Send(ctx, account.Email, account.FullName, title, message); err != nil {
		logger.Warn("Failed to send notification email", "account_id", accountID, "kind", kind, "error", err)
	}

	if account.DeviceToken != "" {
		data := map[string]string{"kind": string(kind)}
		if relatedRequestID != nil {
			data["request_id"] = fmt.Sprintf("%d", *relatedRequestID)
		}
		if err := s.push.Send(ctx, account.DeviceToken, title, message, data); err != nil {
			logger.Warn("Failed to send push notification", "account_id", accountID, "kind", kind, "error", err)
		}
	}
}

func (s *notificationService) List(ctx context.Context, accountID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	return s.noteRepo.List(ctx, accountID, page, pageSize)
}

func (s *notificationService) MarkAsRead(ctx context.Context, accountID, notificationID int32) error {
	return s.noteRepo.MarkAsRead(ctx, notificationID, accountID)
}
