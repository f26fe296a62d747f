package models

import "time"

type Customer struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	SignupTS time.Time `json:"signup_ts"`
}

// Credential is the customer_auth row: login password plus the step-up PIN
// used to settle flagged transactions. Hashes are never exposed in JSON.
type Credential struct {
	CustomerID   int        `json:"customer_id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	PINHash      string     `json:"-"`
	LastLoginTS  *time.Time `json:"last_login_ts,omitempty"`
}
