package models

import "github.com/shopspring/decimal"

// AlertRule holds per-account detection thresholds. A row with a NULL
// account reference is the global default.
type AlertRule struct {
	ID              int             `json:"id"`
	AccountID       *int            `json:"account_id,omitempty"`
	AmountThreshold decimal.Decimal `json:"amount_threshold"`
	SpikeMultiplier decimal.Decimal `json:"spike_multiplier"`
	LookbackDays    int             `json:"lookback_days"`
}
