package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID          int             `json:"id"`
	CustomerID  int             `json:"customer_id"`
	AccountType string          `json:"account_type"`
	Balance     decimal.Decimal `json:"balance"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
