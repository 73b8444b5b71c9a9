package http

import (
	"net/http"
	"strconv"

	"labkit-backend/internal/domain"
	"labkit-backend/internal/service"
)

type CatalogHandler struct {
	catalog service.CatalogService
}

func NewCatalogHandler(catalog service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

type kitPayload struct {
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	DepositAmount     int64  `json:"deposit_amount"`
	QuantityTotal     int32  `json:"quantity_total"`
	QuantityAvailable int32  `json:"quantity_available"`
	Status            string `json:"status"`
}

func (h *CatalogHandler) CreateKit(w http.ResponseWriter, r *http.Request) {
	var req kitPayload
	if !decodeBody(w, r, &req) {
		return
	}

	kit := &domain.Kit{
		Name:              req.Name,
		Description:       req.Description,
		DepositAmount:     req.DepositAmount,
		QuantityTotal:     req.QuantityTotal,
		QuantityAvailable: req.QuantityAvailable,
	}
	if err := h.catalog.CreateKit(r.Context(), kit, req.Status); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, kit)
}

func (h *CatalogHandler) UpdateKit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req kitPayload
	if !decodeBody(w, r, &req) {
		return
	}

	kit := &domain.Kit{
		ID:                id,
		Name:              req.Name,
		Description:       req.Description,
		DepositAmount:     req.DepositAmount,
		QuantityTotal:     req.QuantityTotal,
		QuantityAvailable: req.QuantityAvailable,
	}
	if err := h.catalog.UpdateKit(r.Context(), kit, req.Status); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, kit)
}

type kitDetailResponse struct {
	Kit        *domain.Kit           `json:"kit"`
	Components []domain.KitComponent `json:"components"`
}

func (h *CatalogHandler) GetKit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	kit, components, err := h.catalog.GetKit(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, kitDetailResponse{Kit: kit, Components: components})
}

func (h *CatalogHandler) ListKits(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)

	kits, total, err := h.catalog.ListKits(r.Context(), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: kits, Total: total, Page: page, PageSize: pageSize})
}

type componentPayload struct {
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	KitID             *int32 `json:"kit_id,omitempty"`
	PricePerUnit      int64  `json:"price_per_unit"`
	QuantityTotal     int32  `json:"quantity_total"`
	QuantityAvailable int32  `json:"quantity_available"`
	Status            string `json:"status"`
}

func (h *CatalogHandler) CreateComponent(w http.ResponseWriter, r *http.Request) {
	var req componentPayload
	if !decodeBody(w, r, &req) {
		return
	}

	comp := &domain.KitComponent{
		Name:              req.Name,
		Description:       req.Description,
		KitID:             req.KitID,
		PricePerUnit:      req.PricePerUnit,
		QuantityTotal:     req.QuantityTotal,
		QuantityAvailable: req.QuantityAvailable,
	}
	if err := h.catalog.CreateComponent(r.Context(), comp, req.Status); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comp)
}

func (h *CatalogHandler) UpdateComponent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req componentPayload
	if !decodeBody(w, r, &req) {
		return
	}

	comp := &domain.KitComponent{
		ID:                id,
		Name:              req.Name,
		Description:       req.Description,
		KitID:             req.KitID,
		PricePerUnit:      req.PricePerUnit,
		QuantityTotal:     req.QuantityTotal,
		QuantityAvailable: req.QuantityAvailable,
	}
	if err := h.catalog.UpdateComponent(r.Context(), comp, req.Status); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comp)
}

func (h *CatalogHandler) GetComponent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	comp, err := h.catalog.GetComponent(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comp)
}

func (h *CatalogHandler) ListComponents(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)

	var kitID *int32
	if raw := r.URL.Query().Get("kit_id"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || v <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid kit_id", Code: "VALIDATION_ERROR"})
			return
		}
		id := int32(v)
		kitID = &id
	}

	components, total, err := h.catalog.ListComponents(r.Context(), kitID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: components, Total: total, Page: page, PageSize: pageSize})
}

type policyPayload struct {
	PolicyName string `json:"policy_name"`
	Type       string `json:"type"`
	Amount     int64  `json:"amount"`
}

func (h *CatalogHandler) CreatePolicy(w http.ResponseWriter, r *http.Request) {
	var req policyPayload
	if !decodeBody(w, r, &req) {
		return
	}

	policy := &domain.PenaltyPolicy{
		PolicyName: req.PolicyName,
		Amount:     req.Amount,
	}
	if err := h.catalog.CreatePolicy(r.Context(), policy, req.Type); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, policy)
}

func (h *CatalogHandler) UpdatePolicy(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req policyPayload
	if !decodeBody(w, r, &req) {
		return
	}

	policy := &domain.PenaltyPolicy{
		ID:         id,
		PolicyName: req.PolicyName,
		Amount:     req.Amount,
	}
	if err := h.catalog.UpdatePolicy(r.Context(), policy, req.Type); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, policy)
}

func (h *CatalogHandler) ListPolicies(w http.ResponseWriter, r *http.Request) {
	policies, err := h.catalog.ListPolicies(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, policies)
}
