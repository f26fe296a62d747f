package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Chidipothusiritha/ftransaction-2025/internal/models"
)

// Store interfaces consumed by the services. The repository package provides
// the postgres implementations; tests supply in-memory fakes.

type TransactionStore interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id int) (*models.Transaction, error)
	UpdateStatus(ctx context.Context, id int, status string) error
	RollingAverage(ctx context.Context, accountID, lookbackDays, excludeTxID int) (decimal.Decimal, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Transaction, error)
}

type AccountStore interface {
	GetByID(ctx context.Context, id int) (*models.Account, error)
	AdjustBalance(ctx context.Context, accountID int, delta decimal.Decimal) error
}

type AlertStore interface {
	Create(ctx context.Context, alert *models.Alert) (bool, error)
	ListByTransaction(ctx context.Context, transactionID int) ([]models.Alert, error)
	UpdateStatus(ctx context.Context, alertID int, status string) error
	UpdateStatusByTransaction(ctx context.Context, transactionID int, status string) error
	ListOpen(ctx context.Context, limit int) ([]models.AlertFeedItem, error)
}

type MerchantStore interface {
	RiskTier(ctx context.Context, merchantID int) (string, error)
}

type RuleConfigStore interface {
	ForAccount(ctx context.Context, accountID int) (*models.AlertRule, error)
	GlobalDefault(ctx context.Context) (*models.AlertRule, error)
}

// ProcedureRunner invokes a store-side detection procedure. The engine only
// ever treats this as best-effort.
type ProcedureRunner interface {
	Run(ctx context.Context, procedure string, transactionID int) error
}

type CredentialStore interface {
	GetCredentialByCustomer(ctx context.Context, customerID int) (*models.Credential, error)
}

type NotificationStore interface {
	Create(ctx context.Context, transactionID int, message string) error
}

// Notifier fans out workflow events to the operator channel. Implementations
// must be best-effort: a notification failure never surfaces to the caller.
type Notifier interface {
	AlertRaised(ctx context.Context, alert *models.Alert)
	SettlementReversed(ctx context.Context, tx *models.Transaction)
}
