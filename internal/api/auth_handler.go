package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Chidipothusiritha/ftransaction-2025/internal/dto"
	"github.com/Chidipothusiritha/ftransaction-2025/internal/middleware"
	"github.com/Chidipothusiritha/ftransaction-2025/internal/service"
)

type AuthHandler struct {
	auth   *service.AuthService
	logger *zap.Logger
}

func NewAuthHandler(auth *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// Register creates a customer with credentials and a default account
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, customer, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password, req.PIN)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, dto.AuthResponse{Token: token, Customer: customer})
}

// Login verifies the password and issues a token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, dto.AuthResponse{Token: token})
}

// SetPIN stores a new step-up PIN for the authenticated customer
func (h *AuthHandler) SetPIN(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.CustomerID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		PIN string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.auth.SetPIN(r.Context(), customerID, req.PIN); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "PIN updated"})
}
