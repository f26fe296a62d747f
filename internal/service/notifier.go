package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/Chidipothusiritha/ftransaction-2025/internal/models"
)

// OperatorNotifier mirrors alert and workflow events into the notifications
// table and, when enabled, publishes them to RabbitMQ. Every path is
// best-effort; failures are logged and dropped.
type OperatorNotifier struct {
	store      NotificationStore
	logger     *zap.Logger
	conn       *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
}

func NewOperatorNotifier(store NotificationStore, logger *zap.Logger) *OperatorNotifier {
	return &OperatorNotifier{store: store, logger: logger}
}

// EnableAMQP connects to RabbitMQ and declares the alert exchange. Call
// Close on shutdown.
func (n *OperatorNotifier) EnableAMQP(url, exchange, routingKey string) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	n.conn = conn
	n.channel = channel
	n.exchange = exchange
	n.routingKey = routingKey
	return nil
}

func (n *OperatorNotifier) Close() {
	if n.channel != nil {
		n.channel.Close()
	}
	if n.conn != nil {
		n.conn.Close()
	}
}

// AlertRaised mirrors a freshly raised alert to the operator channel
func (n *OperatorNotifier) AlertRaised(ctx context.Context, alert *models.Alert) {
	message := fmt.Sprintf("Alert %s triggered for transaction %d", alert.RuleCode, alert.TransactionID)
	n.record(ctx, alert.TransactionID, message)
	n.publish(ctx, map[string]any{
		"event":          "alert.raised",
		"alert_id":       alert.ID,
		"transaction_id": alert.TransactionID,
		"rule_code":      alert.RuleCode,
		"severity":       alert.Severity,
	})
}

// SettlementReversed announces a step-up denial to the operator channel
func (n *OperatorNotifier) SettlementReversed(ctx context.Context, tx *models.Transaction) {
	message := fmt.Sprintf("Transaction %d reversed after step-up denial", tx.ID)
	n.record(ctx, tx.ID, message)
	n.publish(ctx, map[string]any{
		"event":          "settlement.reversed",
		"transaction_id": tx.ID,
		"account_id":     tx.AccountID,
		"amount":         tx.Amount.String(),
		"currency":       tx.Currency,
	})
}

func (n *OperatorNotifier) record(ctx context.Context, transactionID int, message string) {
	if n.store == nil {
		return
	}
	if err := n.store.Create(ctx, transactionID, message); err != nil {
		n.logger.Warn("failed to record notification",
			zap.Error(err),
			zap.Int("transaction_id", transactionID))
	}
}

func (n *OperatorNotifier) publish(ctx context.Context, payload map[string]any) {
	if n.channel == nil {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		n.logger.Warn("failed to marshal notification payload", zap.Error(err))
		return
	}

	err = n.channel.PublishWithContext(
		ctx,
		n.exchange,
		n.routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		n.logger.Warn("failed to publish notification", zap.Error(err))
	}
}
