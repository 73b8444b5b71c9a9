package http

import (
	"net/http"

	"labkit-backend/internal/service"
)

type WalletHandler struct {
	wallets service.WalletService
}

func NewWalletHandler(wallets service.WalletService) *WalletHandler {
	return &WalletHandler{wallets: wallets}
}

func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	wallet, err := h.wallets.GetWallet(r.Context(), accountIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

func (h *WalletHandler) Statement(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)

	txns, total, err := h.wallets.GetStatement(r.Context(), accountIDFromContext(r.Context()), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: txns, Total: total, Page: page, PageSize: pageSize})
}

type topUpRequest struct {
	Amount int64  `json:"amount"`
	Note   string `json:"note,omitempty"`
}

func (h *WalletHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	var req topUpRequest
	if !decodeBody(w, r, &req) {
		return
	}

	wallet, err := h.wallets.TopUp(r.Context(), accountIDFromContext(r.Context()), req.Amount, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}
