package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Chidipothusiritha/ftransaction-2025/internal/models"
	"github.com/Chidipothusiritha/ftransaction-2025/internal/utils"
)

const testPIN = "4321"

type stepUpFixture struct {
	svc      *StepUpService
	txStore  *fakeTransactionStore
	accounts *fakeAccountStore
	alerts   *fakeAlertStore
	notifier *fakeNotifier
}

// newStepUpFixture seeds one customer owning account 1 (balance 900 after a
// 100 debit), the debit transaction, and one open alert of the given severity.
func newStepUpFixture(t *testing.T, severity string) *stepUpFixture {
	t.Helper()

	pinHash, err := utils.HashSecret(testPIN)
	if err != nil {
		t.Fatal(err)
	}

	txStore := newFakeTransactionStore()
	tx := &models.Transaction{
		AccountID: 1,
		Amount:    d("100"),
		Currency:  "USD",
		Direction: models.DirectionDebit,
		Status:    models.TxStatusApproved,
	}
	if err := txStore.Create(context.Background(), tx); err != nil {
		t.Fatal(err)
	}

	accounts := newFakeAccountStore(&models.Account{ID: 1, CustomerID: 10, Balance: d("900")})
	alerts := newFakeAlertStore()
	if _, err := alerts.Create(context.Background(), &models.Alert{
		TransactionID: tx.ID,
		RuleCode:      models.RuleAmountThreshold,
		Severity:      severity,
		Status:        models.AlertStatusOpen,
	}); err != nil {
		t.Fatal(err)
	}

	creds := &fakeCredentialStore{creds: map[int]*models.Credential{
		10: {CustomerID: 10, PINHash: pinHash},
	}}
	notifier := &fakeNotifier{}

	return &stepUpFixture{
		svc:      NewStepUpService(txStore, accounts, alerts, creds, notifier, testLogger()),
		txStore:  txStore,
		accounts: accounts,
		alerts:   alerts,
		notifier: notifier,
	}
}

func TestStepUpRequired(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		severity string
		want     bool
	}{
		{models.SeverityLow, false},
		{models.SeverityMed, true},
		{models.SeverityHigh, true},
	}
	for _, tt := range tests {
		t.Run(tt.severity, func(t *testing.T) {
			f := newStepUpFixture(t, tt.severity)
			got, err := f.svc.Required(ctx, 1)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Required with %s alert = %v, want %v", tt.severity, got, tt.want)
			}
		})
	}

	t.Run("cleared alerts do not gate", func(t *testing.T) {
		f := newStepUpFixture(t, models.SeverityHigh)
		f.alerts.rows[0].Status = models.AlertStatusCleared
		got, err := f.svc.Required(ctx, 1)
		if err != nil {
			t.Fatal(err)
		}
		if got {
			t.Error("Required = true for a cleared alert")
		}
	})
}

func TestStepUpBegin(t *testing.T) {
	ctx := context.Background()

	t.Run("parks the transaction as declined", func(t *testing.T) {
		f := newStepUpFixture(t, models.SeverityHigh)
		if err := f.svc.Begin(ctx, 1); err != nil {
			t.Fatal(err)
		}
		tx, _ := f.txStore.GetByID(ctx, 1)
		if tx.Status != models.TxStatusDeclined {
			t.Errorf("status = %s, want declined", tx.Status)
		}
	})

	t.Run("idempotent when already pending", func(t *testing.T) {
		f := newStepUpFixture(t, models.SeverityHigh)
		if err := f.svc.Begin(ctx, 1); err != nil {
			t.Fatal(err)
		}
		if err := f.svc.Begin(ctx, 1); err != nil {
			t.Errorf("second Begin = %v, want nil", err)
		}
	})

	t.Run("refuses without an actionable alert", func(t *testing.T) {
		f := newStepUpFixture(t, models.SeverityLow)
		if err := f.svc.Begin(ctx, 1); !errors.Is(err, ErrStepUpNotRequired) {
			t.Errorf("Begin = %v, want ErrStepUpNotRequired", err)
		}
	})

	t.Run("refuses on a reversed transaction", func(t *testing.T) {
		f := newStepUpFixture(t, models.SeverityHigh)
		f.txStore.rows[1].Status = models.TxStatusReversed
		if err := f.svc.Begin(ctx, 1); !errors.Is(err, ErrVerificationClosed) {
			t.Errorf("Begin = %v, want ErrVerificationClosed", err)
		}
	})
}

func TestStepUpConfirmApprove(t *testing.T) {
	ctx := context.Background()
	f := newStepUpFixture(t, models.SeverityHigh)
	if err := f.svc.Begin(ctx, 1); err != nil {
		t.Fatal(err)
	}

	if err := f.svc.Confirm(ctx, 1, 10, testPIN, DecisionApprove); err != nil {
		t.Fatal(err)
	}

	tx, _ := f.txStore.GetByID(ctx, 1)
	if tx.Status != models.TxStatusApproved {
		t.Errorf("status = %s, want approved", tx.Status)
	}
	if got := f.accounts.balance(1); !got.Equal(d("900")) {
		t.Errorf("balance = %s, want 900 untouched on approve", got)
	}
	alerts, _ := f.alerts.ListByTransaction(ctx, 1)
	if alerts[0].Status != models.AlertStatusCleared {
		t.Errorf("alert status = %s, want cleared", alerts[0].Status)
	}
	if len(f.notifier.reversed) != 0 {
		t.Error("operator notified on approve, want no notification")
	}
}

func TestStepUpConfirmDeny(t *testing.T) {
	ctx := context.Background()
	f := newStepUpFixture(t, models.SeverityHigh)
	if err := f.svc.Begin(ctx, 1); err != nil {
		t.Fatal(err)
	}

	if err := f.svc.Confirm(ctx, 1, 10, testPIN, DecisionDeny); err != nil {
		t.Fatal(err)
	}

	tx, _ := f.txStore.GetByID(ctx, 1)
	if tx.Status != models.TxStatusReversed {
		t.Errorf("status = %s, want reversed", tx.Status)
	}
	// the 100 debit is undone
	if got := f.accounts.balance(1); !got.Equal(d("1000")) {
		t.Errorf("balance = %s, want 1000 restored on deny", got)
	}
	alerts, _ := f.alerts.ListByTransaction(ctx, 1)
	if alerts[0].Status != models.AlertStatusConfirmed {
		t.Errorf("alert status = %s, want confirmed", alerts[0].Status)
	}
	if len(f.notifier.reversed) != 1 {
		t.Errorf("operator notified %d times, want 1", len(f.notifier.reversed))
	}
}

func TestStepUpConfirmGuards(t *testing.T) {
	ctx := context.Background()

	t.Run("wrong PIN changes nothing and may be retried", func(t *testing.T) {
		f := newStepUpFixture(t, models.SeverityHigh)
		if err := f.svc.Begin(ctx, 1); err != nil {
			t.Fatal(err)
		}

		for i := 0; i < 3; i++ {
			if err := f.svc.Confirm(ctx, 1, 10, "9999", DecisionDeny); !errors.Is(err, ErrInvalidPIN) {
				t.Fatalf("attempt %d: Confirm = %v, want ErrInvalidPIN", i+1, err)
			}
		}

		tx, _ := f.txStore.GetByID(ctx, 1)
		if tx.Status != models.TxStatusDeclined {
			t.Errorf("status = %s, want still declined", tx.Status)
		}
		if got := f.accounts.balance(1); !got.Equal(d("900")) {
			t.Errorf("balance = %s, want 900 unchanged", got)
		}

		// the correct PIN still works after failed attempts
		if err := f.svc.Confirm(ctx, 1, 10, testPIN, DecisionApprove); err != nil {
			t.Errorf("Confirm after retries = %v, want nil", err)
		}
	})

	t.Run("rejects a non-owner", func(t *testing.T) {
		f := newStepUpFixture(t, models.SeverityHigh)
		if err := f.svc.Begin(ctx, 1); err != nil {
			t.Fatal(err)
		}
		if err := f.svc.Confirm(ctx, 1, 99, testPIN, DecisionApprove); !errors.Is(err, ErrNotAccountOwner) {
			t.Errorf("Confirm = %v, want ErrNotAccountOwner", err)
		}
	})

	t.Run("rejects an unknown decision", func(t *testing.T) {
		f := newStepUpFixture(t, models.SeverityHigh)
		if err := f.svc.Confirm(ctx, 1, 10, testPIN, "maybe"); !errors.Is(err, ErrInvalidDecision) {
			t.Errorf("Confirm = %v, want ErrInvalidDecision", err)
		}
	})

	t.Run("rejects a transaction not pending", func(t *testing.T) {
		f := newStepUpFixture(t, models.SeverityHigh)
		if err := f.svc.Confirm(ctx, 1, 10, testPIN, DecisionApprove); !errors.Is(err, ErrNotPendingVerification) {
			t.Errorf("Confirm on approved tx = %v, want ErrNotPendingVerification", err)
		}
	})

	t.Run("rejects when no PIN is on file", func(t *testing.T) {
		f := newStepUpFixture(t, models.SeverityHigh)
		if err := f.svc.Begin(ctx, 1); err != nil {
			t.Fatal(err)
		}
		f.svc.credentials = &fakeCredentialStore{creds: map[int]*models.Credential{
			10: {CustomerID: 10},
		}}
		if err := f.svc.Confirm(ctx, 1, 10, testPIN, DecisionApprove); !errors.Is(err, ErrPINNotSet) {
			t.Errorf("Confirm = %v, want ErrPINNotSet", err)
		}
	})

	t.Run("decided transactions stay decided", func(t *testing.T) {
		f := newStepUpFixture(t, models.SeverityHigh)
		if err := f.svc.Begin(ctx, 1); err != nil {
			t.Fatal(err)
		}
		if err := f.svc.Confirm(ctx, 1, 10, testPIN, DecisionDeny); err != nil {
			t.Fatal(err)
		}
		if err := f.svc.Confirm(ctx, 1, 10, testPIN, DecisionApprove); !errors.Is(err, ErrNotPendingVerification) {
			t.Errorf("second Confirm = %v, want ErrNotPendingVerification", err)
		}
		if got := f.accounts.balance(1); !got.Equal(d("1000")) {
			t.Errorf("balance = %s, want 1000 (reversal applied once)", got)
		}
	})
}
