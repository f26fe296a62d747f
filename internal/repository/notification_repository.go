package repository

import (
	"context"
	"database/sql"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create mirrors an alert or workflow event into the notifications table
func (r *NotificationRepository) Create(ctx context.Context, transactionID int, message string) error {
	query := `
		INSERT INTO notifications (transaction_id, message, created_ts, delivered)
		VALUES ($1, $2, NOW(), FALSE)
	`
	_, err := r.db.ExecContext(ctx, query, transactionID, message)
	return err
}
