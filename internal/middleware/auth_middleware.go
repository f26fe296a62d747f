package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Chidipothusiritha/ftransaction-2025/internal/utils"
)

type contextKey string

const CustomerIDKey contextKey = "customerID"

// Auth validates the Bearer JWT and stores the customer id in the request
// context.
func Auth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Missing authorization header", http.StatusUnauthorized)
				return
			}

			// Token format: "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := utils.ValidateToken(parts[1], jwtSecret)
			if err != nil {
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), CustomerIDKey, claims.CustomerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CustomerID pulls the authenticated customer id out of the request context.
func CustomerID(r *http.Request) (int, bool) {
	id, ok := r.Context().Value(CustomerIDKey).(int)
	return id, ok
}
