package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Chidipothusiritha/ftransaction-2025/internal/models"
)

// IngestRequest is the payload for creating a transaction
type IngestRequest struct {
	AccountID   int             `json:"account_id"`
	MerchantID  *int            `json:"merchant_id,omitempty"`
	DeviceID    *int            `json:"device_id,omitempty"`
	Fingerprint string          `json:"fingerprint,omitempty"`
	DeviceLabel string          `json:"device_label,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Direction   string          `json:"direction"`
	Status      string          `json:"status"`
	TS          *time.Time      `json:"ts,omitempty"`
}

// IngestResponse is the response after ingesting a transaction
type IngestResponse struct {
	TransactionID  int            `json:"transaction_id"`
	Alerts         []models.Alert `json:"alerts"`
	StepUpRequired bool           `json:"step_up_required"`
	Message        string         `json:"message"`
}
