package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Severity is the ordinal risk label attached to an alert.
const (
	SeverityLow  = "low"
	SeverityMed  = "med"
	SeverityHigh = "high"
)

// Alert statuses. Alerts are never deleted; only their status changes.
const (
	AlertStatusOpen      = "open"
	AlertStatusCleared   = "cleared"   // step-up approved, false positive
	AlertStatusConfirmed = "confirmed" // step-up denied, confirmed fraud
	AlertStatusResolved  = "resolved"  // operator override
)

// Rule codes for alerts raised by the evaluation engine. The store-side
// procedures insert their own codes (NEW_DEVICE, VELOCITY_3IN2MIN).
const (
	RuleAmountThreshold = "AMOUNT_THRESHOLD"
	RuleSpikeVsAvg      = "SPIKE_VS_AVG"
)

type Alert struct {
	ID            int       `json:"id"`
	TransactionID int       `json:"transaction_id"`
	RuleCode      string    `json:"rule_code"`
	Severity      string    `json:"severity"`
	Status        string    `json:"status"`
	CreatedTS     time.Time `json:"created_ts"`
}

// Actionable reports whether this alert should gate settlement behind
// step-up verification.
func (a *Alert) Actionable() bool {
	return a.Status == AlertStatusOpen &&
		(a.Severity == SeverityMed || a.Severity == SeverityHigh)
}

// AlertFeedItem is one row of the open-alert dashboard feed: the alert
// joined with its transaction.
type AlertFeedItem struct {
	Alert     Alert           `json:"alert"`
	AccountID int             `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
}
