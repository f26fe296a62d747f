package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Chidipothusiritha/ftransaction-2025/internal/models"
)

// IngestRequest carries everything needed to record one transaction.
type IngestRequest struct {
	AccountID  int
	MerchantID *int
	DeviceID   *int
	Amount     decimal.Decimal
	Currency   string
	Direction  string
	Status     string
	TS         *time.Time
}

// IngestionService is the sole entry point for creating a transaction. The
// financial write always commits; detection is best-effort on top of it.
type IngestionService struct {
	transactions TransactionStore
	accounts     AccountStore
	engine       *RuleEngine
	logger       *zap.Logger
}

func NewIngestionService(
	transactions TransactionStore,
	accounts AccountStore,
	engine *RuleEngine,
	logger *zap.Logger,
) *IngestionService {
	return &IngestionService{
		transactions: transactions,
		accounts:     accounts,
		engine:       engine,
		logger:       logger,
	}
}

// Ingest validates the request, inserts the transaction, applies the signed
// amount to the account balance, and evaluates the detection rules. Rule
// evaluation failures (errors and panics alike) are swallowed: a detection
// outage must never block a legitimate payment.
func (s *IngestionService) Ingest(ctx context.Context, req IngestRequest) (int, error) {
	if !req.Amount.IsPositive() {
		return 0, ErrInvalidAmount
	}
	if _, err := s.accounts.GetByID(ctx, req.AccountID); err != nil {
		return 0, err
	}

	tx := &models.Transaction{
		TransactionID: uuid.New().String(),
		AccountID:     req.AccountID,
		MerchantID:    req.MerchantID,
		DeviceID:      req.DeviceID,
		Amount:        req.Amount,
		Currency:      normalizeCurrency(req.Currency),
		Direction:     normalizeDirection(req.Direction),
		Status:        normalizeStatus(req.Status),
		TS:            normalizeTS(req.TS),
	}

	if err := s.transactions.Create(ctx, tx); err != nil {
		return 0, fmt.Errorf("failed to record transaction: %w", err)
	}

	if err := s.accounts.AdjustBalance(ctx, tx.AccountID, tx.BalanceDelta()); err != nil {
		return 0, fmt.Errorf("failed to update account balance: %w", err)
	}

	s.evaluate(ctx, tx)

	return tx.ID, nil
}

// evaluate shields ingestion from the rule engine: any panic is logged and
// discarded so the caller still gets its transaction id.
func (s *IngestionService) evaluate(ctx context.Context, tx *models.Transaction) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("rule evaluation panicked",
				zap.Any("panic", r),
				zap.Int("transaction_id", tx.ID))
		}
	}()
	s.engine.Evaluate(ctx, tx)
}

func normalizeDirection(direction string) string {
	switch strings.ToLower(strings.TrimSpace(direction)) {
	case models.DirectionCredit:
		return models.DirectionCredit
	default:
		return models.DirectionDebit
	}
}

func normalizeStatus(status string) string {
	st := strings.ToLower(strings.TrimSpace(status))
	if st == "" {
		return models.TxStatusApproved
	}
	return st
}

func normalizeCurrency(currency string) string {
	cur := strings.ToUpper(strings.TrimSpace(currency))
	if cur == "" {
		return "USD"
	}
	return cur
}

func normalizeTS(ts *time.Time) time.Time {
	if ts != nil {
		return ts.UTC()
	}
	return time.Now().UTC()
}
