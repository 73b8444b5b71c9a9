package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"labkit-backend/internal/domain"
	"labkit-backend/internal/repository"
)

type evidenceRepository struct {
	db DBTX
}

func NewEvidenceRepository(db DBTX) repository.EvidenceRepository {
	return &evidenceRepository{db: db}
}

func (r *evidenceRepository) Create(ctx context.Context, img *domain.EvidenceImage) error {
	img.CreatedAt = time.Now()
	query := `INSERT INTO evidence_images (uploader_id, penalty_detail_id, file_name, storage_key, mime_type, file_size, status, expires_at, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	return r.db.QueryRowContext(ctx, query, img.UploaderID, img.PenaltyDetailID, img.FileName, img.StorageKey, img.MimeType, img.FileSize, img.Status, img.ExpiresAt, img.CreatedAt).Scan(&img.ID)
}

func (r *evidenceRepository) GetByID(ctx context.Context, id int32) (*domain.EvidenceImage, error) {
	img := &domain.EvidenceImage{}
	query := `SELECT id, uploader_id, penalty_detail_id, file_name, storage_key, mime_type, file_size, status, expires_at, created_at
	          FROM evidence_images WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&img.ID, &img.UploaderID, &img.PenaltyDetailID, &img.FileName, &img.StorageKey, &img.MimeType, &img.FileSize, &img.Status, &img.ExpiresAt, &img.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("evidence image %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (r *evidenceRepository) Update(ctx context.Context, img *domain.EvidenceImage) error {
	query := `UPDATE evidence_images SET penalty_detail_id=$1, file_size=$2, status=$3, expires_at=$4 WHERE id=$5`
	_, err := r.db.ExecContext(ctx, query, img.PenaltyDetailID, img.FileSize, img.Status, img.ExpiresAt, img.ID)
	return err
}

func (r *evidenceRepository) DeleteExpiredPending(ctx context.Context) (int64, error) {
	query := `DELETE FROM evidence_images WHERE status = $1 AND expires_at < $2`
	res, err := r.db.ExecContext(ctx, query, domain.EvidenceStatusPending, time.Now())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
