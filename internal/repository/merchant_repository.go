package repository

import (
	"context"
	"database/sql"
)

type MerchantRepository struct {
	db *sql.DB
}

func NewMerchantRepository(db *sql.DB) *MerchantRepository {
	return &MerchantRepository{db: db}
}

// RiskTier returns the raw risk_tier value for a merchant. An unknown
// merchant yields an empty string; normalization happens in the classifier.
func (r *MerchantRepository) RiskTier(ctx context.Context, merchantID int) (string, error) {
	query := `SELECT COALESCE(risk_tier, '') FROM merchants WHERE id = $1`

	var tier string
	err := r.db.QueryRowContext(ctx, query, merchantID).Scan(&tier)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return tier, nil
}
