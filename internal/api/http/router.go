package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"labkit-backend/internal/security"
)

type Handlers struct {
	Auth         *AuthHandler
	Borrow       *BorrowHandler
	Wallet       *WalletHandler
	Penalty      *PenaltyHandler
	Catalog      *CatalogHandler
	Notification *NotificationHandler
	Evidence     *EvidenceHandler
}

// NewRouter wires the full HTTP surface under /api/v1.
func NewRouter(h Handlers, tokens security.TokenManager) http.Handler {
	root := mux.NewRouter()
	root.Use(loggingMiddleware)

	api := root.PathPrefix("/api/v1").Subrouter()

	// Public routes.
	api.HandleFunc("/auth/register", h.Auth.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)

	// The presigned upload/download endpoints carry their key in the
	// query string instead of a bearer token.
	api.HandleFunc("/evidence/upload/{token}", h.Evidence.Upload).Methods(http.MethodPut)
	api.HandleFunc("/evidence/download/{token}", h.Evidence.Download).Methods(http.MethodGet)

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// Authenticated routes.
	authed := api.NewRoute().Subrouter()
	authed.Use(authMiddleware(tokens))

	authed.HandleFunc("/auth/me", h.Auth.Me).Methods(http.MethodGet)
	authed.HandleFunc("/auth/device", h.Auth.RegisterDevice).Methods(http.MethodPost)

	authed.HandleFunc("/requests", h.Borrow.Create).Methods(http.MethodPost)
	authed.HandleFunc("/requests", h.Borrow.List).Methods(http.MethodGet)
	authed.HandleFunc("/requests/pending", requireAdmin(h.Borrow.ListPending)).Methods(http.MethodGet)
	authed.HandleFunc("/requests/{id}", h.Borrow.Get).Methods(http.MethodGet)
	authed.HandleFunc("/requests/{id}/approve", requireAdmin(h.Borrow.Approve)).Methods(http.MethodPost)
	authed.HandleFunc("/requests/{id}/reject", requireAdmin(h.Borrow.Reject)).Methods(http.MethodPost)
	authed.HandleFunc("/requests/{id}/return", requireAdmin(h.Borrow.Return)).Methods(http.MethodPost)

	authed.HandleFunc("/wallet", h.Wallet.Get).Methods(http.MethodGet)
	authed.HandleFunc("/wallet/transactions", h.Wallet.Statement).Methods(http.MethodGet)
	authed.HandleFunc("/wallet/topup", h.Wallet.TopUp).Methods(http.MethodPost)

	authed.HandleFunc("/penalties", h.Penalty.List).Methods(http.MethodGet)
	authed.HandleFunc("/penalties/{id}", h.Penalty.Get).Methods(http.MethodGet)
	authed.HandleFunc("/penalties/{id}/resolve", requireAdmin(h.Penalty.Resolve)).Methods(http.MethodPost)

	authed.HandleFunc("/kits", h.Catalog.ListKits).Methods(http.MethodGet)
	authed.HandleFunc("/kits", requireAdmin(h.Catalog.CreateKit)).Methods(http.MethodPost)
	authed.HandleFunc("/kits/{id}", h.Catalog.GetKit).Methods(http.MethodGet)
	authed.HandleFunc("/kits/{id}", requireAdmin(h.Catalog.UpdateKit)).Methods(http.MethodPut)

	authed.HandleFunc("/components", h.Catalog.ListComponents).Methods(http.MethodGet)
	authed.HandleFunc("/components", requireAdmin(h.Catalog.CreateComponent)).Methods(http.MethodPost)
	authed.HandleFunc("/components/{id}", h.Catalog.GetComponent).Methods(http.MethodGet)
	authed.HandleFunc("/components/{id}", requireAdmin(h.Catalog.UpdateComponent)).Methods(http.MethodPut)

	authed.HandleFunc("/policies", h.Catalog.ListPolicies).Methods(http.MethodGet)
	authed.HandleFunc("/policies", requireAdmin(h.Catalog.CreatePolicy)).Methods(http.MethodPost)
	authed.HandleFunc("/policies/{id}", requireAdmin(h.Catalog.UpdatePolicy)).Methods(http.MethodPut)

	authed.HandleFunc("/notifications", h.Notification.List).Methods(http.MethodGet)
	authed.HandleFunc("/notifications/{id}/read", h.Notification.MarkAsRead).Methods(http.MethodPost)

	authed.HandleFunc("/evidence", h.Evidence.RequestUpload).Methods(http.MethodPost)
	authed.HandleFunc("/evidence/{id}/confirm", h.Evidence.ConfirmUpload).Methods(http.MethodPost)
	authed.HandleFunc("/evidence/{id}/url", h.Evidence.DownloadURL).Methods(http.MethodGet)

	return root
}
