package repository

import (
	"context"
	"database/sql"

	"github.com/Chidipothusiritha/ftransaction-2025/internal/models"
)

type AuthRepository struct {
	db *sql.DB
}

func NewAuthRepository(db *sql.DB) *AuthRepository {
	return &AuthRepository{db: db}
}

// CreateCustomer inserts a customer row
func (r *AuthRepository) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (name, email, signup_ts)
		VALUES ($1, $2, NOW())
		RETURNING id, signup_ts
	`
	return r.db.QueryRowContext(ctx, query, customer.Name, customer.Email).
		Scan(&customer.ID, &customer.SignupTS)
}

// CreateCredential inserts the customer_auth row (password + PIN hashes)
func (r *AuthRepository) CreateCredential(ctx context.Context, cred *models.Credential) error {
	query := `
		INSERT INTO customer_auth (customer_id, email, password_hash, pin_hash)
		VALUES ($1, $2, $3, NULLIF($4, ''))
	`
	_, err := r.db.ExecContext(ctx, query, cred.CustomerID, cred.Email, cred.PasswordHash, cred.PINHash)
	return err
}

// GetCredentialByEmail gets the stored credential for a login email
func (r *AuthRepository) GetCredentialByEmail(ctx context.Context, email string) (*models.Credential, error) {
	query := `
		SELECT customer_id, email, password_hash, COALESCE(pin_hash, ''), last_login_ts
		FROM customer_auth
		WHERE LOWER(email) = LOWER($1)
	`
	return r.scanCredential(r.db.QueryRowContext(ctx, query, email))
}

// GetCredentialByCustomer gets the stored credential for a customer id
func (r *AuthRepository) GetCredentialByCustomer(ctx context.Context, customerID int) (*models.Credential, error) {
	query := `
		SELECT customer_id, email, password_hash, COALESCE(pin_hash, ''), last_login_ts
		FROM customer_auth
		WHERE customer_id = $1
	`
	return r.scanCredential(r.db.QueryRowContext(ctx, query, customerID))
}

// UpdateLastLogin stamps last_login_ts for a customer
func (r *AuthRepository) UpdateLastLogin(ctx context.Context, customerID int) error {
	_, err := r.db.ExecContext(
		ctx,
		`UPDATE customer_auth SET last_login_ts = NOW() WHERE customer_id = $1`,
		customerID,
	)
	return err
}

// SetPIN stores a new step-up PIN hash for a customer
func (r *AuthRepository) SetPIN(ctx context.Context, customerID int, pinHash string) error {
	result, err := r.db.ExecContext(
		ctx,
		`UPDATE customer_auth SET pin_hash = $1 WHERE customer_id = $2`,
		pinHash, customerID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrCredentialNotFound
	}
	return nil
}

func (r *AuthRepository) scanCredential(row *sql.Row) (*models.Credential, error) {
	cred := &models.Credential{}
	err := row.Scan(
		&cred.CustomerID,
		&cred.Email,
		&cred.PasswordHash,
		&cred.PINHash,
		&cred.LastLoginTS,
	)
	if err == sql.ErrNoRows {
		return nil, ErrCredentialNotFound
	}
	if err != nil {
		return nil, err
	}
	return cred, nil
}
