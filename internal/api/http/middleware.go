package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"labkit-backend/internal/domain"
	"labkit-backend/internal/logger"
	"labkit-backend/internal/security"
)

type contextKey string

const (
	contextKeyAccountID contextKey = "account_id"
	contextKeyRole      contextKey = "role"
)

func accountIDFromContext(ctx context.Context) int32 {
	id, _ := ctx.Value(contextKeyAccountID).(int32)
	return id
}

func roleFromContext(ctx context.Context) domain.Role {
	role, _ := ctx.Value(contextKeyRole).(domain.Role)
	return role
}

// authMiddleware validates the Bearer token and injects the caller's
// identity into the request context.
func authMiddleware(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing authorization token", Code: "UNAUTHORIZED"})
				return
			}

			claims, err := tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid or expired token", Code: "UNAUTHORIZED"})
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyAccountID, claims.AccountID)
			ctx = context.WithValue(ctx, contextKeyRole, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireAdmin rejects callers whose token does not carry the ADMIN role.
func requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if roleFromContext(r.Context()) != domain.RoleAdmin {
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "admin access required", Code: "FORBIDDEN"})
			return
		}
		next(w, r)
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds())
	})
}
