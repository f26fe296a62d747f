package repository

import (
	"context"
	"database/sql"

	"github.com/Chidipothusiritha/ftransaction-2025/internal/models"
)

type DeviceRepository struct {
	db *sql.DB
}

func NewDeviceRepository(db *sql.DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

// GetOrCreate ensures a device exists for (customer, fingerprint) and
// returns its id. Existing devices get their last_seen_ts refreshed.
func (r *DeviceRepository) GetOrCreate(ctx context.Context, customerID int, fingerprint, label string) (int, error) {
	var deviceID int

	err := r.db.QueryRowContext(
		ctx,
		`SELECT id FROM devices WHERE customer_id = $1 AND fingerprint = $2`,
		customerID, fingerprint,
	).Scan(&deviceID)

	if err == nil {
		_, err = r.db.ExecContext(
			ctx,
			`UPDATE devices SET last_seen_ts = NOW() WHERE id = $1`,
			deviceID,
		)
		return deviceID, err
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	query := `
		INSERT INTO devices (customer_id, fingerprint, label, first_seen_ts, last_seen_ts)
		VALUES ($1, $2, NULLIF($3, ''), NOW(), NOW())
		ON CONFLICT (customer_id, fingerprint) DO UPDATE SET last_seen_ts = NOW()
		RETURNING id
	`
	err = r.db.QueryRowContext(ctx, query, customerID, fingerprint, label).Scan(&deviceID)
	return deviceID, err
}

// ListRecent gets devices ordered by last activity, optionally filtered by
// customer (customerID = 0 lists all).
func (r *DeviceRepository) ListRecent(ctx context.Context, customerID, limit int) ([]*models.Device, error) {
	query := `
		SELECT id, customer_id, fingerprint, COALESCE(label, ''), first_seen_ts, last_seen_ts
		FROM devices
		WHERE ($1 = 0 OR customer_id = $1)
		ORDER BY last_seen_ts DESC NULLS LAST
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, customerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var devices []*models.Device
	for rows.Next() {
		d := &models.Device{}
		err := rows.Scan(&d.ID, &d.CustomerID, &d.Fingerprint, &d.Label, &d.FirstSeenTS, &d.LastSeenTS)
		if err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}

	return devices, rows.Err()
}
