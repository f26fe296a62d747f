package service

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Chidipothusiritha/ftransaction-2025/internal/config"
)

// RuleConfig holds the detection thresholds resolved for one account.
type RuleConfig struct {
	AmountThreshold decimal.Decimal
	SpikeMultiplier decimal.Decimal
	LookbackDays    int
}

// DefaultRuleConfig builds the hard-coded fallback thresholds from the
// deployment configuration.
func DefaultRuleConfig(cfg *config.Config) RuleConfig {
	return RuleConfig{
		AmountThreshold: decimal.NewFromFloat(cfg.DefaultAmountThreshold),
		SpikeMultiplier: decimal.NewFromFloat(cfg.DefaultSpikeMultiplier),
		LookbackDays:    cfg.DefaultLookbackDays,
	}
}

// RuleConfigResolver loads per-account detection thresholds with fallback to
// the global-default row and then to hard-coded defaults. Resolution never
// fails: absent configuration is a valid, expected state.
type RuleConfigResolver struct {
	store    RuleConfigStore
	defaults RuleConfig
	logger   *zap.Logger
}

// NewRuleConfigResolver builds a resolver. store may be nil when the
// deployment carries no alert_rules table at all.
func NewRuleConfigResolver(store RuleConfigStore, defaults RuleConfig, logger *zap.Logger) *RuleConfigResolver {
	return &RuleConfigResolver{store: store, defaults: defaults, logger: logger}
}

func (r *RuleConfigResolver) Resolve(ctx context.Context, accountID int) RuleConfig {
	if r.store == nil {
		return r.defaults
	}

	rule, err := r.store.ForAccount(ctx, accountID)
	if err != nil {
		r.logger.Warn("alert rule lookup failed, using defaults",
			zap.Error(err),
			zap.Int("account_id", accountID))
		return r.defaults
	}
	if rule == nil {
		rule, err = r.store.GlobalDefault(ctx)
		if err != nil {
			r.logger.Warn("global alert rule lookup failed, using defaults", zap.Error(err))
			return r.defaults
		}
	}
	if rule == nil {
		return r.defaults
	}

	return RuleConfig{
		AmountThreshold: rule.AmountThreshold,
		SpikeMultiplier: rule.SpikeMultiplier,
		LookbackDays:    rule.LookbackDays,
	}
}
