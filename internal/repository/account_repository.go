package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/Chidipothusiritha/ftransaction-2025/internal/models"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create creates a new account for a customer
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (customer_id, account_type, balance, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		account.CustomerID,
		account.AccountType,
		account.Balance,
		account.Status,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)

	return err
}

// GetByID gets an account by id
func (r *AccountRepository) GetByID(ctx context.Context, id int) (*models.Account, error) {
	query := `
		SELECT id, customer_id, account_type, balance, status, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`

	account := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&account.ID,
		&account.CustomerID,
		&account.AccountType,
		&account.Balance,
		&account.Status,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrAccountNotFound
	}

	return account, err
}

// AdjustBalance applies a signed delta to the running balance. The balance
// is never recomputed from scratch; the relative increment keeps concurrent
// ingestions safe under the store's atomic update semantics.
func (r *AccountRepository) AdjustBalance(ctx context.Context, accountID int, delta decimal.Decimal) error {
	query := `
		UPDATE accounts
		SET balance = COALESCE(balance, 0) + $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.db.ExecContext(ctx, query, delta, accountID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrAccountNotFound
	}

	return nil
}

// ListByCustomer gets all accounts owned by a customer
func (r *AccountRepository) ListByCustomer(ctx context.Context, customerID int) ([]*models.Account, error) {
	query := `
		SELECT id, customer_id, account_type, balance, status, created_at, updated_at
		FROM accounts
		WHERE customer_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account := &models.Account{}
		err := rows.Scan(
			&account.ID,
			&account.CustomerID,
			&account.AccountType,
			&account.Balance,
			&account.Status,
			&account.CreatedAt,
			&account.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}
