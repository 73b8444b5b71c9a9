package http

import (
	"io"
	"net/http"

	"labkit-backend/internal/logger"
	"labkit-backend/internal/service"
	"labkit-backend/internal/storage"
)

// EvidenceHandler serves the evidence image lifecycle: presigned upload
// requests, upload confirmation, and the mock-storage upload/download
// endpoints the presigned URLs point at.
type EvidenceHandler struct {
	evidence service.EvidenceService
	storage  storage.StorageInterface
}

func NewEvidenceHandler(evidence service.EvidenceService, store storage.StorageInterface) *EvidenceHandler {
	return &EvidenceHandler{evidence: evidence, storage: store}
}

type requestUploadPayload struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
}

type requestUploadResponse struct {
	Image     interface{} `json:"image"`
	UploadURL string      `json:"upload_url"`
}

func (h *EvidenceHandler) RequestUpload(w http.ResponseWriter, r *http.Request) {
	var req requestUploadPayload
	if !decodeBody(w, r, &req) {
		return
	}

	image, uploadURL, err := h.evidence.RequestUpload(r.Context(), accountIDFromContext(r.Context()), req.FileName, req.ContentType)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, requestUploadResponse{Image: image, UploadURL: uploadURL})
}

type confirmUploadPayload struct {
	PenaltyDetailID *int32 `json:"penalty_detail_id,omitempty"`
}

func (h *EvidenceHandler) ConfirmUpload(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req confirmUploadPayload
	if !decodeBody(w, r, &req) {
		return
	}

	image, err := h.evidence.ConfirmUpload(r.Context(), accountIDFromContext(r.Context()), id, req.PenaltyDetailID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, image)
}

func (h *EvidenceHandler) DownloadURL(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	url, err := h.evidence.DownloadURL(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"download_url": url})
}

// Upload receives the body of a presigned PUT and writes it to the
// mock storage backend under the key from the query string.
func (h *EvidenceHandler) Upload(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing key", Code: "VALIDATION_ERROR"})
		return
	}
	defer r.Body.Close()

	if err := h.storage.SaveFile(key, r.Body); err != nil {
		logger.Error("Failed to save evidence upload", "key", key, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to store file"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "uploaded"})
}

// Download streams a stored evidence file back to the caller.
func (h *EvidenceHandler) Download(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing key", Code: "VALIDATION_ERROR"})
		return
	}

	file, err := h.storage.ReadFile(key)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "file not found", Code: "NOT_FOUND"})
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := io.Copy(w, file); err != nil {
		logger.Warn("Failed to stream evidence file", "key", key, "error", err)
	}
}
