package api

import (
	"net/http"

	"github.com/Chidipothusiritha/ftransaction-2025/internal/middleware"
)

// SetupRoutes wires the API surface. Ingestion and step-up confirmation
// require a customer token; the feeds mirror the old read-only endpoints
// and stay open.
func SetupRoutes(
	authHandler *AuthHandler,
	txHandler *TransactionHandler,
	alertHandler *AlertHandler,
	jwtSecret string,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.Auth(jwtSecret)

	// Public routes
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/transactions", txHandler.List)
	mux.HandleFunc("GET /api/transactions/{id}", txHandler.Get)
	mux.HandleFunc("GET /api/transactions/{id}/alerts", txHandler.ListAlerts)
	mux.HandleFunc("GET /api/alerts", alertHandler.Feed)
	mux.HandleFunc("POST /api/alerts/resolve", alertHandler.Resolve)

	// Protected routes
	mux.Handle("POST /api/auth/pin", auth(http.HandlerFunc(authHandler.SetPIN)))
	mux.Handle("POST /api/transactions", auth(http.HandlerFunc(txHandler.Ingest)))
	mux.Handle("POST /api/transactions/{id}/step-up", auth(http.HandlerFunc(txHandler.ConfirmStepUp)))

	return mux
}
