package domain

import "time"

type EvidenceStatus string

const (
	EvidenceStatusPending   EvidenceStatus = "PENDING"
	EvidenceStatusConfirmed EvidenceStatus = "CONFIRMED"
	EvidenceStatusDeleted   EvidenceStatus = "DELETED"
)

// EvidenceImage is a damage photo attached to a penalty line. Images
// are created PENDING when an upload URL is issued and confirmed once
// the client finishes the upload; stale pending rows are purged by a
// scheduled job.
type EvidenceImage struct {
	ID              int32          `json:"id"`
	UploaderID      int32          `json:"uploader_id"`
	PenaltyDetailID *int32         `json:"penalty_detail_id,omitempty"`
	FileName        string         `json:"file_name"`
	StorageKey      string         `json:"storage_key"`
	MimeType        string         `json:"mime_type"`
	FileSize        int64          `json:"file_size"`
	Status          EvidenceStatus `json:"status"`
	ExpiresAt       *time.Time     `json:"expires_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}
