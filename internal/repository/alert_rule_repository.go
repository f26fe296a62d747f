package repository

import (
	"context"
	"database/sql"

	"github.com/Chidipothusiritha/ftransaction-2025/internal/models"
)

type AlertRuleRepository struct {
	db *sql.DB
}

func NewAlertRuleRepository(db *sql.DB) *AlertRuleRepository {
	return &AlertRuleRepository{db: db}
}

// ForAccount gets the alert rule configured for a specific account, or nil
// when no row exists.
func (r *AlertRuleRepository) ForAccount(ctx context.Context, accountID int) (*models.AlertRule, error) {
	query := `
		SELECT id, account_id, amount_threshold, spike_multiplier, lookback_days
		FROM alert_rules
		WHERE account_id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, accountID))
}

// GlobalDefault gets the fallback rule row (account_id IS NULL), or nil
// when no row exists.
func (r *AlertRuleRepository) GlobalDefault(ctx context.Context) (*models.AlertRule, error) {
	query := `
		SELECT id, account_id, amount_threshold, spike_multiplier, lookback_days
		FROM alert_rules
		WHERE account_id IS NULL
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query))
}

func (r *AlertRuleRepository) scanOne(row *sql.Row) (*models.AlertRule, error) {
	rule := &models.AlertRule{}
	err := row.Scan(
		&rule.ID,
		&rule.AccountID,
		&rule.AmountThreshold,
		&rule.SpikeMultiplier,
		&rule.LookbackDays,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rule, nil
}
