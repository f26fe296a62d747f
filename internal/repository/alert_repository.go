package repository

import (
	"context"
	"database/sql"

	"github.com/Chidipothusiritha/ftransaction-2025/internal/models"
)

type AlertRepository struct {
	db *sql.DB
}

func NewAlertRepository(db *sql.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// Create inserts an alert row. Returns false when an alert with the same
// (transaction_id, rule_code) already exists; re-evaluating a transaction
// never duplicates an alert.
func (r *AlertRepository) Create(ctx context.Context, alert *models.Alert) (bool, error) {
	query := `
		INSERT INTO alerts (transaction_id, rule_code, severity, status, created_ts)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (transaction_id, rule_code) DO NOTHING
		RETURNING id, created_ts
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		alert.TransactionID,
		alert.RuleCode,
		alert.Severity,
		alert.Status,
	).Scan(&alert.ID, &alert.CreatedTS)

	if err == sql.ErrNoRows {
		// conflict: alert already recorded for this rule
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListByTransaction gets all alerts raised against a transaction
func (r *AlertRepository) ListByTransaction(ctx context.Context, transactionID int) ([]models.Alert, error) {
	query := `
		SELECT id, transaction_id, rule_code, severity, status, created_ts
		FROM alerts
		WHERE transaction_id = $1
		ORDER BY created_ts DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		var a models.Alert
		err := rows.Scan(&a.ID, &a.TransactionID, &a.RuleCode, &a.Severity, &a.Status, &a.CreatedTS)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}

	return alerts, rows.Err()
}

// UpdateStatus updates the status of a single alert
func (r *AlertRepository) UpdateStatus(ctx context.Context, alertID int, status string) error {
	query := `
		UPDATE alerts
		SET status = $1
		WHERE id = $2
	`

	result, err := r.db.ExecContext(ctx, query, status, alertID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrAlertNotFound
	}

	return nil
}

// UpdateStatusByTransaction moves every alert on a transaction to the given
// status. Used by the step-up workflow (cleared / confirmed).
func (r *AlertRepository) UpdateStatusByTransaction(ctx context.Context, transactionID int, status string) error {
	query := `
		UPDATE alerts
		SET status = $1
		WHERE transaction_id = $2
	`

	_, err := r.db.ExecContext(ctx, query, status, transactionID)
	return err
}

// ListOpen gets recent open alerts joined with their transaction
func (r *AlertRepository) ListOpen(ctx context.Context, limit int) ([]models.AlertFeedItem, error) {
	query := `
		SELECT a.id, a.transaction_id, a.rule_code, a.severity, a.status, a.created_ts,
		       t.account_id, t.amount, t.currency
		FROM alerts a
		JOIN transactions t ON t.id = a.transaction_id
		WHERE a.status = 'open'
		ORDER BY a.created_ts DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.AlertFeedItem
	for rows.Next() {
		var item models.AlertFeedItem
		err := rows.Scan(
			&item.Alert.ID,
			&item.Alert.TransactionID,
			&item.Alert.RuleCode,
			&item.Alert.Severity,
			&item.Alert.Status,
			&item.Alert.CreatedTS,
			&item.AccountID,
			&item.Amount,
			&item.Currency,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
