package models

import "time"

// Notification mirrors an alert or workflow event for the operator channel.
type Notification struct {
	ID            int       `json:"id"`
	TransactionID int       `json:"transaction_id"`
	Message       string    `json:"message"`
	CreatedTS     time.Time `json:"created_ts"`
	Delivered     bool      `json:"delivered"`
}
