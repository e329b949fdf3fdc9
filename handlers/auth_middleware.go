package handlers

import (
	"context"
	"net/http"
	"strings"

	"taskmaster-api/auth"
)

type contextKey string

const claimsKey contextKey = "claims"

// AuthMiddleware is the single authentication gate: a request without a
// bearer credential is rejected before any verification, an invalid token is
// rejected before any store access, and downstream handlers read the caller's
// identity only from the claims this middleware verified.
func (h *Handler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			sendError(w, "No token, authorization denied", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := h.Auth.VerifyToken(tokenString)
		if err != nil {
			sendError(w, "Token is not valid", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next(w, r.WithContext(ctx))
	}
}

func claimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}
