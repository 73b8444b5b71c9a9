package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"labkit-backend/internal/domain"
	"labkit-backend/internal/repository"
	"labkit-backend/internal/storage"
)

const (
	uploadURLExpiry   = 15 * time.Minute
	downloadURLExpiry = 1 * time.Hour
	pendingImageTTL   = 24 * time.Hour
)

var allowedEvidenceTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

type evidenceService struct {
	evidenceRepo repository.EvidenceRepository
	storage      storage.StorageInterface
}

func NewEvidenceService(evidenceRepo repository.EvidenceRepository, storageSvc storage.StorageInterface) EvidenceService {
	return &evidenceService{
		evidenceRepo: evidenceRepo,
		storage:      storageSvc,
	}
}

func (s *evidenceService) RequestUpload(ctx context.Context, uploaderID int32, fileName, contentType string) (*domain.EvidenceImage, string, error) {
	if fileName == "" {
		return nil, "", fmt.Errorf("file name is required: %w", domain.ErrValidation)
	}
	if !allowedEvidenceTypes[strings.ToLower(contentType)] {
		return nil, "", fmt.Errorf("unsupported content type %q: %w", contentType, domain.ErrValidation)
	}

	key := fmt.Sprintf("%s%s", uuid.New().String(), filepath.Ext(fileName))
	expires := time.Now().Add(pendingImageTTL)

	img := &domain.EvidenceImage{
		UploaderID: uploaderID,
		FileName:   fileName,
		StorageKey: key,
		MimeType:   contentType,
		Status:     domain.EvidenceStatusPending,
		ExpiresAt:  &expires,
	}
	if err := s.evidenceRepo.Create(ctx, img); err != nil {
		return nil, "", err
	}

	uploadURL, err := s.storage.GeneratePresignedUploadURL(ctx, key, contentType, uploadURLExpiry)
	if err != nil {
		return nil, "", err
	}
	return img, uploadURL, nil
}

func (s *evidenceService) ConfirmUpload(ctx context.Context, uploaderID, imageID int32, penaltyDetailID *int32) (*domain.EvidenceImage, error) {
	img, err := s.evidenceRepo.GetByID(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if img.UploaderID != uploaderID {
		return nil, fmt.Errorf("evidence image %d: %w", imageID, domain.ErrNotFound)
	}

	exists, size, err := s.storage.FileExists(ctx, img.StorageKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("no file uploaded for evidence image %d: %w", imageID, domain.ErrValidation)
	}

	img.Status = domain.EvidenceStatusConfirmed
	img.FileSize = size
	img.ExpiresAt = nil
	img.PenaltyDetailID = penaltyDetailID
	if err := s.evidenceRepo.Update(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

func (s *evidenceService) DownloadURL(ctx context.Context, imageID int32) (string, error) {
	img, err := s.evidenceRepo.GetByID(ctx, imageID)
	if err != nil {
		return "", err
	}
	if img.Status != domain.EvidenceStatusConfirmed {
		return "", fmt.Errorf("evidence image %d is not confirmed: %w", imageID, domain.ErrValidation)
	}
	return s.storage.GeneratePresignedDownloadURL(ctx, img.StorageKey, downloadURLExpiry)
}
