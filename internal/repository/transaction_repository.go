package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Chidipothusiritha/ftransaction-2025/internal/models"
)

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create inserts a new transaction row
func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	query := `
		INSERT INTO transactions (transaction_id, account_id, merchant_id, device_id, amount, currency, direction, status, ts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		tx.TransactionID,
		tx.AccountID,
		tx.MerchantID,
		tx.DeviceID,
		tx.Amount,
		tx.Currency,
		tx.Direction,
		tx.Status,
		tx.TS,
	).Scan(&tx.ID)

	return err
}

// GetByID gets a transaction by its internal id
func (r *TransactionRepository) GetByID(ctx context.Context, id int) (*models.Transaction, error) {
	query := `
		SELECT id, transaction_id, account_id, merchant_id, device_id, amount, currency, direction, status, ts
		FROM transactions
		WHERE id = $1
	`

	tx := &models.Transaction{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&tx.ID,
		&tx.TransactionID,
		&tx.AccountID,
		&tx.MerchantID,
		&tx.DeviceID,
		&tx.Amount,
		&tx.Currency,
		&tx.Direction,
		&tx.Status,
		&tx.TS,
	)

	if err == sql.ErrNoRows {
		return nil, ErrTransactionNotFound
	}

	return tx, err
}

// UpdateStatus updates the status of a transaction
func (r *TransactionRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	query := `
		UPDATE transactions
		SET status = $1
		WHERE id = $2
	`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrTransactionNotFound
	}

	return nil
}

// RollingAverage computes the mean transaction amount for an account over
// the trailing lookback window. The transaction under evaluation is excluded
// so a first transaction sees a zero average. Direction and status are
// deliberately ignored.
func (r *TransactionRepository) RollingAverage(ctx context.Context, accountID, lookbackDays, excludeTxID int) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(AVG(amount), 0)
		FROM transactions
		WHERE account_id = $1
		  AND ts >= NOW() - ($2 * INTERVAL '1 day')
		  AND id <> $3
	`

	var avg decimal.Decimal
	err := r.db.QueryRowContext(ctx, query, accountID, lookbackDays, excludeTxID).Scan(&avg)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute rolling average: %w", err)
	}
	return avg, nil
}

// ListRecent gets the most recent transactions across all accounts
func (r *TransactionRepository) ListRecent(ctx context.Context, limit int) ([]*models.Transaction, error) {
	query := `
		SELECT id, transaction_id, account_id, merchant_id, device_id, amount, currency, direction, status, ts
		FROM transactions
		ORDER BY ts DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		tx := &models.Transaction{}
		err := rows.Scan(
			&tx.ID,
			&tx.TransactionID,
			&tx.AccountID,
			&tx.MerchantID,
			&tx.DeviceID,
			&tx.Amount,
			&tx.Currency,
			&tx.Direction,
			&tx.Status,
			&tx.TS,
		)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	return transactions, rows.Err()
}
