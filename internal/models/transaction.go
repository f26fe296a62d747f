package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction of a transaction relative to the account balance.
const (
	DirectionDebit  = "debit"
	DirectionCredit = "credit"
)

// Transaction statuses. A transaction is created approved, may be parked as
// declined while step-up verification is pending, and ends approved or
// reversed. Amount, direction and account are immutable after insert.
const (
	TxStatusApproved = "approved"
	TxStatusDeclined = "declined"
	TxStatusReversed = "reversed"
)

type Transaction struct {
	ID            int             `json:"id"`
	TransactionID string          `json:"transaction_id"`
	AccountID     int             `json:"account_id"`
	MerchantID    *int            `json:"merchant_id,omitempty"`
	DeviceID      *int            `json:"device_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Direction     string          `json:"direction"`
	Status        string          `json:"status"`
	TS            time.Time       `json:"ts"`
}

// BalanceDelta is the signed effect of this transaction on the account
// balance: negative for debits, positive for credits.
func (t *Transaction) BalanceDelta() decimal.Decimal {
	if t.Direction == DirectionCredit {
		return t.Amount
	}
	return t.Amount.Neg()
}
