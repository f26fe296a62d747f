package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Chidipothusiritha/ftransaction-2025/internal/models"
)

// storedProcedures are the store-side detection rules, invoked in order
// after the in-process rules. They insert their own alert rows.
var storedProcedures = []string{"rule_new_device", "rule_velocity_3in2min"}

// RuleEngine runs the ordered detection rules against a newly inserted
// transaction and persists an alert for each rule that fires. Rules are
// independent: no result overrides another.
type RuleEngine struct {
	transactions TransactionStore
	alerts       AlertStore
	resolver     *RuleConfigResolver
	classifier   *RiskClassifier
	procedures   ProcedureRunner
	notifier     Notifier
	logger       *zap.Logger
}

// NewRuleEngine builds the engine. procedures and notifier may be nil when
// the deployment has no store-side rules or no operator channel.
func NewRuleEngine(
	transactions TransactionStore,
	alerts AlertStore,
	resolver *RuleConfigResolver,
	classifier *RiskClassifier,
	procedures ProcedureRunner,
	notifier Notifier,
	logger *zap.Logger,
) *RuleEngine {
	return &RuleEngine{
		transactions: transactions,
		alerts:       alerts,
		resolver:     resolver,
		classifier:   classifier,
		procedures:   procedures,
		notifier:     notifier,
		logger:       logger,
	}
}

// Evaluate runs every rule against the transaction and returns the alerts
// that fired. Persist failures on one rule do not stop the next.
func (e *RuleEngine) Evaluate(ctx context.Context, tx *models.Transaction) []models.Alert {
	cfg := e.resolver.Resolve(ctx, tx.AccountID)
	tier := e.classifier.TierOf(ctx, tx.MerchantID)

	var fired []models.Alert

	// 1) Amount threshold: debits only.
	if tx.Direction == models.DirectionDebit && tx.Amount.GreaterThanOrEqual(cfg.AmountThreshold) {
		severity := SeverityForThreshold(tx.Amount, cfg.AmountThreshold, tier)
		if alert := e.raise(ctx, tx.ID, models.RuleAmountThreshold, severity); alert != nil {
			fired = append(fired, *alert)
		}
	}

	// 2) Spike vs rolling average: suppressed when the account has no
	// history inside the lookback window.
	avg, err := e.transactions.RollingAverage(ctx, tx.AccountID, cfg.LookbackDays, tx.ID)
	if err != nil {
		e.logger.Error("rolling average query failed",
			zap.Error(err),
			zap.Int("transaction_id", tx.ID))
	} else if avg.IsPositive() && tx.Amount.GreaterThanOrEqual(avg.Mul(cfg.SpikeMultiplier)) {
		severity := SeverityForSpike(tx.Amount, avg, tier)
		if alert := e.raise(ctx, tx.ID, models.RuleSpikeVsAvg, severity); alert != nil {
			fired = append(fired, *alert)
		}
	}

	// 3) Store-side rules. Best-effort: a missing procedure or schema
	// mismatch must never block settlement.
	if e.procedures != nil {
		for _, procedure := range storedProcedures {
			if err := e.procedures.Run(ctx, procedure, tx.ID); err != nil {
				e.logger.Warn("store-side rule failed",
					zap.String("procedure", procedure),
					zap.Error(err),
					zap.Int("transaction_id", tx.ID))
			}
		}
	}

	return fired
}

func (e *RuleEngine) raise(ctx context.Context, transactionID int, ruleCode, severity string) *models.Alert {
	alert := &models.Alert{
		TransactionID: transactionID,
		RuleCode:      ruleCode,
		Severity:      severity,
		Status:        models.AlertStatusOpen,
	}

	created, err := e.alerts.Create(ctx, alert)
	if err != nil {
		e.logger.Error("failed to persist alert",
			zap.Error(err),
			zap.String("rule_code", ruleCode),
			zap.Int("transaction_id", transactionID))
		return nil
	}
	if !created {
		// already raised for this (transaction, rule) pair
		return nil
	}

	e.logger.Info("alert raised",
		zap.String("rule_code", ruleCode),
		zap.String("severity", severity),
		zap.Int("transaction_id", transactionID))

	if e.notifier != nil {
		e.notifier.AlertRaised(ctx, alert)
	}
	return alert
}
