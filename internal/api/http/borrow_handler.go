package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"labkit-backend/internal/domain"
	"labkit-backend/internal/service"
)

type BorrowHandler struct {
	borrow service.BorrowService
}

func NewBorrowHandler(borrow service.BorrowService) *BorrowHandler {
	return &BorrowHandler{borrow: borrow}
}

type createRequestPayload struct {
	Type             string               `json:"type"`
	KitID            *int32               `json:"kit_id,omitempty"`
	KitQuantity      int32                `json:"kit_quantity,omitempty"`
	Items            []requestItemPayload `json:"items,omitempty"`
	Reason           string               `json:"reason"`
	ExpectReturnDate string               `json:"expect_return_date"` // RFC 3339
	GroupName        string               `json:"group_name,omitempty"`
	ClassCode        string               `json:"class_code,omitempty"`
	Semester         string               `json:"semester,omitempty"`
}

type requestItemPayload struct {
	ComponentID int32 `json:"component_id"`
	Quantity    int32 `json:"quantity"`
}

func (h *BorrowHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequestPayload
	if !decodeBody(w, r, &req) {
		return
	}

	expectReturn, err := time.Parse(time.RFC3339, req.ExpectReturnDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "expect_return_date must be RFC 3339", Code: "INVALID_DATE"})
		return
	}

	input := service.CreateRequestInput{
		Type:             domain.RequestType(req.Type),
		KitID:            req.KitID,
		KitQuantity:      req.KitQuantity,
		Reason:           req.Reason,
		ExpectReturnDate: expectReturn,
		GroupName:        req.GroupName,
		ClassCode:        req.ClassCode,
		Semester:         req.Semester,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, service.RequestItemInput{
			ComponentID: item.ComponentID,
			Quantity:    item.Quantity,
		})
	}

	request, err := h.borrow.Create(r.Context(), accountIDFromContext(r.Context()), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, request)
}

func (h *BorrowHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	request, err := h.borrow.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	// Non-admins can only see their own requests.
	if roleFromContext(r.Context()) != domain.RoleAdmin && request.RequestedBy != accountIDFromContext(r.Context()) {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "access denied", Code: "FORBIDDEN"})
		return
	}
	writeJSON(w, http.StatusOK, request)
}

func (h *BorrowHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	status := r.URL.Query().Get("status")

	requests, total, err := h.borrow.ListByRequester(r.Context(), accountIDFromContext(r.Context()), status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: requests, Total: total, Page: page, PageSize: pageSize})
}

func (h *BorrowHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)

	requests, total, err := h.borrow.ListPending(r.Context(), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: requests, Total: total, Page: page, PageSize: pageSize})
}

func (h *BorrowHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	request, err := h.borrow.Approve(r.Context(), id, accountIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}

type rejectPayload struct {
	Note string `json:"note"`
}

func (h *BorrowHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req rejectPayload
	if !decodeBody(w, r, &req) {
		return
	}

	request, err := h.borrow.Reject(r.Context(), id, accountIDFromContext(r.Context()), req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}

type returnPayload struct {
	Report []domain.DamageLine `json:"report"`
	Note   string              `json:"note,omitempty"`
}

type returnResponse struct {
	Request *domain.BorrowingRequest `json:"request"`
	Penalty *domain.Penalty          `json:"penalty,omitempty"`
}

func (h *BorrowHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req returnPayload
	if !decodeBody(w, r, &req) {
		return
	}

	request, penalty, err := h.borrow.InspectAndReturn(r.Context(), id, accountIDFromContext(r.Context()), req.Report, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, returnResponse{Request: request, Penalty: penalty})
}

type listResponse struct {
	Items    interface{} `json:"items"`
	Total    int32       `json:"total"`
	Page     int32       `json:"page"`
	PageSize int32       `json:"page_size"`
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int32, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid " + name, Code: "VALIDATION_ERROR"})
		return 0, false
	}
	return int32(id), true
}

func pagination(r *http.Request) (page, pageSize int32) {
	page, pageSize = 1, 20
	if v, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 32); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("page_size"), 10, 32); err == nil && v > 0 && v <= 100 {
		pageSize = int32(v)
	}
	return page, pageSize
}
