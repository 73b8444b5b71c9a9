package http

import (
	"net/http"

	"labkit-backend/internal/domain"
	"labkit-backend/internal/service"
)

type PenaltyHandler struct {
	penalties service.PenaltyService
}

func NewPenaltyHandler(penalties service.PenaltyService) *PenaltyHandler {
	return &PenaltyHandler{penalties: penalties}
}

func (h *PenaltyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	penalty, err := h.penalties.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	if roleFromContext(r.Context()) != domain.RoleAdmin && penalty.AccountID != accountIDFromContext(r.Context()) {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "access denied", Code: "FORBIDDEN"})
		return
	}
	writeJSON(w, http.StatusOK, penalty)
}

func (h *PenaltyHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)

	penalties, total, err := h.penalties.ListByAccount(r.Context(), accountIDFromContext(r.Context()), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: penalties, Total: total, Page: page, PageSize: pageSize})
}

type resolvePenaltyRequest struct {
	Note string `json:"note,omitempty"`
}

func (h *PenaltyHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req resolvePenaltyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.penalties.Resolve(r.Context(), id, req.Note); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
