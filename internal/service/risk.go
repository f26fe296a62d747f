package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Chidipothusiritha/ftransaction-2025/internal/models"
)

var (
	two   = decimal.NewFromInt(2)
	three = decimal.NewFromInt(3)
	four  = decimal.NewFromInt(4)
)

// RiskClassifier maps merchants to risk tiers and modulates alert severity
// with them.
type RiskClassifier struct {
	merchants MerchantStore
	logger    *zap.Logger
}

func NewRiskClassifier(merchants MerchantStore, logger *zap.Logger) *RiskClassifier {
	return &RiskClassifier{merchants: merchants, logger: logger}
}

// TierOf returns the merchant's risk tier. A missing merchant, a lookup
// failure, or an unrecognized tier value all normalize to med.
func (c *RiskClassifier) TierOf(ctx context.Context, merchantID *int) string {
	if merchantID == nil {
		return models.TierMed
	}

	raw, err := c.merchants.RiskTier(ctx, *merchantID)
	if err != nil {
		c.logger.Warn("merchant tier lookup failed, defaulting to med",
			zap.Error(err),
			zap.Int("merchant_id", *merchantID))
		return models.TierMed
	}

	return NormalizeTier(raw)
}

// NormalizeTier folds any raw tier value onto {low, med, high}, defaulting
// to med.
func NormalizeTier(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case models.TierLow:
		return models.TierLow
	case models.TierHigh:
		return models.TierHigh
	default:
		return models.TierMed
	}
}

// SeverityForThreshold grades an amount-threshold hit by merchant tier.
// A large transaction at a low-risk merchant is the most suspicious case;
// high-risk merchants are expected to see larger legitimate amounts, so the
// escalation bar is higher. Cutoffs are inclusive.
func SeverityForThreshold(amount, threshold decimal.Decimal, tier string) string {
	switch tier {
	case models.TierLow:
		return models.SeverityHigh
	case models.TierHigh:
		if amount.GreaterThanOrEqual(threshold.Mul(three)) {
			return models.SeverityMed
		}
		return models.SeverityLow
	case models.TierMed:
		if amount.GreaterThanOrEqual(threshold.Mul(two)) {
			return models.SeverityHigh
		}
		return models.SeverityMed
	default:
		return models.SeverityMed
	}
}

// SeverityForSpike grades a spike-vs-rolling-average hit by merchant tier.
// A zero average yields ratio 0, which lands in the lowest band for every
// tier.
func SeverityForSpike(amount, rollingAvg decimal.Decimal, tier string) string {
	ratio := decimal.Zero
	if rollingAvg.IsPositive() {
		ratio = amount.Div(rollingAvg)
	}

	switch tier {
	case models.TierLow:
		if ratio.GreaterThanOrEqual(two) {
			return models.SeverityHigh
		}
		return models.SeverityMed
	case models.TierHigh:
		if ratio.GreaterThanOrEqual(four) {
			return models.SeverityMed
		}
		return models.SeverityLow
	case models.TierMed:
		if ratio.GreaterThanOrEqual(three) {
			return models.SeverityHigh
		}
		return models.SeverityMed
	default:
		return models.SeverityMed
	}
}
