package models

// Merchant risk tiers. Unknown or missing tiers normalize to med.
const (
	TierLow  = "low"
	TierMed  = "med"
	TierHigh = "high"
)

type Merchant struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	RiskTier string `json:"risk_tier"`
}
