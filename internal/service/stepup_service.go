package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Chidipothusiritha/ftransaction-2025/internal/models"
	"github.com/Chidipothusiritha/ftransaction-2025/internal/utils"
)

// Step-up decisions.
const (
	DecisionApprove = "approve"
	DecisionDeny    = "deny"
)

// StepUpService drives the settlement hold on flagged transactions. The
// pending state lives on the transaction row (status = declined), so the
// workflow survives process restarts.
type StepUpService struct {
	transactions TransactionStore
	accounts     AccountStore
	alerts       AlertStore
	credentials  CredentialStore
	notifier     Notifier
	logger       *zap.Logger
}

func NewStepUpService(
	transactions TransactionStore,
	accounts AccountStore,
	alerts AlertStore,
	credentials CredentialStore,
	notifier Notifier,
	logger *zap.Logger,
) *StepUpService {
	return &StepUpService{
		transactions: transactions,
		accounts:     accounts,
		alerts:       alerts,
		credentials:  credentials,
		notifier:     notifier,
		logger:       logger,
	}
}

// Required reports whether the transaction carries an open medium or high
// severity alert, i.e. whether settlement should wait for PIN confirmation.
func (s *StepUpService) Required(ctx context.Context, transactionID int) (bool, error) {
	alerts, err := s.alerts.ListByTransaction(ctx, transactionID)
	if err != nil {
		return false, err
	}
	for i := range alerts {
		if alerts[i].Actionable() {
			return true, nil
		}
	}
	return false, nil
}

// Begin suspends settlement: the transaction moves to declined and waits for
// a PIN confirmation. Calling Begin on a transaction already pending is a
// no-op.
func (s *StepUpService) Begin(ctx context.Context, transactionID int) error {
	tx, err := s.transactions.GetByID(ctx, transactionID)
	if err != nil {
		return err
	}

	switch tx.Status {
	case models.TxStatusDeclined:
		return nil
	case models.TxStatusApproved:
		// fall through
	default:
		return ErrVerificationClosed
	}

	required, err := s.Required(ctx, transactionID)
	if err != nil {
		return err
	}
	if !required {
		return ErrStepUpNotRequired
	}

	if err := s.transactions.UpdateStatus(ctx, transactionID, models.TxStatusDeclined); err != nil {
		return err
	}

	s.logger.Info("settlement suspended pending verification",
		zap.Int("transaction_id", transactionID))
	return nil
}

// Confirm settles a pending transaction one way or the other. The caller
// must own the account and present the correct PIN; a wrong PIN changes
// nothing and may be retried.
//
// approve: transaction approved, all alerts cleared, balance untouched.
// deny: transaction reversed, balance delta undone, all alerts confirmed,
// operator notified.
func (s *StepUpService) Confirm(ctx context.Context, transactionID, customerID int, pin, decision string) error {
	if decision != DecisionApprove && decision != DecisionDeny {
		return ErrInvalidDecision
	}

	tx, err := s.transactions.GetByID(ctx, transactionID)
	if err != nil {
		return err
	}
	if tx.Status != models.TxStatusDeclined {
		return ErrNotPendingVerification
	}

	account, err := s.accounts.GetByID(ctx, tx.AccountID)
	if err != nil {
		return err
	}
	if account.CustomerID != customerID {
		return ErrNotAccountOwner
	}

	cred, err := s.credentials.GetCredentialByCustomer(ctx, account.CustomerID)
	if err != nil {
		return err
	}
	if cred.PINHash == "" {
		return ErrPINNotSet
	}
	if err := utils.CompareSecret(cred.PINHash, pin); err != nil {
		return ErrInvalidPIN
	}

	if decision == DecisionApprove {
		if err := s.transactions.UpdateStatus(ctx, transactionID, models.TxStatusApproved); err != nil {
			return err
		}
		if err := s.alerts.UpdateStatusByTransaction(ctx, transactionID, models.AlertStatusCleared); err != nil {
			return err
		}
		s.logger.Info("step-up approved, transaction settled",
			zap.Int("transaction_id", transactionID))
		return nil
	}

	// deny: undo the financial effect before flipping statuses
	if err := s.accounts.AdjustBalance(ctx, tx.AccountID, tx.BalanceDelta().Neg()); err != nil {
		return err
	}
	if err := s.transactions.UpdateStatus(ctx, transactionID, models.TxStatusReversed); err != nil {
		return err
	}
	if err := s.alerts.UpdateStatusByTransaction(ctx, transactionID, models.AlertStatusConfirmed); err != nil {
		return err
	}

	s.logger.Warn("step-up denied, transaction reversed",
		zap.Int("transaction_id", transactionID),
		zap.Int("account_id", tx.AccountID))

	if s.notifier != nil {
		s.notifier.SettlementReversed(ctx, tx)
	}
	return nil
}
