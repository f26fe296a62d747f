package dto

import "github.com/Chidipothusiritha/ftransaction-2025/internal/models"

// RegisterRequest is the payload for customer registration
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	PIN      string `json:"pin,omitempty"`
}

// LoginRequest is the payload for customer login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the response after successful registration or login
type AuthResponse struct {
	Token    string           `json:"token"`
	Customer *models.Customer `json:"customer,omitempty"`
}
