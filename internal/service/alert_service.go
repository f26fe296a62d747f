package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Chidipothusiritha/ftransaction-2025/internal/models"
)

// AlertService exposes read access to alerts plus the operator override.
type AlertService struct {
	alerts AlertStore
	logger *zap.Logger
}

func NewAlertService(alerts AlertStore, logger *zap.Logger) *AlertService {
	return &AlertService{alerts: alerts, logger: logger}
}

// ListForTransaction gets every alert raised against a transaction
func (s *AlertService) ListForTransaction(ctx context.Context, transactionID int) ([]models.Alert, error) {
	return s.alerts.ListByTransaction(ctx, transactionID)
}

// Feed gets recent open alerts for the dashboard widget
func (s *AlertService) Feed(ctx context.Context, limit int) ([]models.AlertFeedItem, error) {
	if limit <= 0 {
		limit = 12
	}
	return s.alerts.ListOpen(ctx, limit)
}

// Resolve is the administrative override outside the step-up workflow. An
// operator may mark an alert cleared or resolved; nothing else.
func (s *AlertService) Resolve(ctx context.Context, alertID int, newStatus string) error {
	if newStatus != models.AlertStatusCleared && newStatus != models.AlertStatusResolved {
		return ErrInvalidAlertStatus
	}
	if err := s.alerts.UpdateStatus(ctx, alertID, newStatus); err != nil {
		return err
	}
	s.logger.Info("alert resolved by operator",
		zap.Int("alert_id", alertID),
		zap.String("status", newStatus))
	return nil
}
