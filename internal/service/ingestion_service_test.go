package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Chidipothusiritha/ftransaction-2025/internal/models"
)

func newIngestionFixture(accounts *fakeAccountStore) (*IngestionService, *fakeTransactionStore, *fakeAlertStore) {
	txStore := newFakeTransactionStore()
	alertStore := newFakeAlertStore()
	engine := newTestEngine(txStore, alertStore, nil, nil, nil, nil)
	svc := NewIngestionService(txStore, accounts, engine, testLogger())
	return svc, txStore, alertStore
}

func TestIngestRejectsNonPositiveAmounts(t *testing.T) {
	ctx := context.Background()
	accounts := newFakeAccountStore(&models.Account{ID: 1, CustomerID: 1})
	svc, _, _ := newIngestionFixture(accounts)

	for _, amount := range []string{"0", "-5"} {
		_, err := svc.Ingest(ctx, IngestRequest{AccountID: 1, Amount: d(amount)})
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("Ingest(amount=%s) error = %v, want ErrInvalidAmount", amount, err)
		}
	}
}

func TestIngestRejectsUnknownAccount(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newIngestionFixture(newFakeAccountStore())

	if _, err := svc.Ingest(ctx, IngestRequest{AccountID: 404, Amount: d("10")}); err == nil {
		t.Fatal("Ingest succeeded for a missing account, want error")
	}
}

func TestIngestAppliesSignedBalance(t *testing.T) {
	ctx := context.Background()
	accounts := newFakeAccountStore(&models.Account{ID: 1, CustomerID: 1, Balance: d("1000")})
	svc, _, _ := newIngestionFixture(accounts)

	steps := []struct {
		direction string
		amount    string
	}{
		{"debit", "50"},
		{"credit", "200"},
		{"debit", "25.50"},
		{"credit", "0.50"},
	}
	for _, s := range steps {
		if _, err := svc.Ingest(ctx, IngestRequest{
			AccountID: 1,
			Amount:    d(s.amount),
			Direction: s.direction,
		}); err != nil {
			t.Fatalf("Ingest(%s %s) failed: %v", s.direction, s.amount, err)
		}
	}

	// 1000 - 50 + 200 - 25.50 + 0.50
	want := d("1125")
	if got := accounts.balance(1); !got.Equal(want) {
		t.Errorf("balance = %s, want %s", got, want)
	}
}

func TestIngestDefaultsAndNormalization(t *testing.T) {
	ctx := context.Background()
	accounts := newFakeAccountStore(&models.Account{ID: 1, CustomerID: 1})
	svc, txStore, _ := newIngestionFixture(accounts)

	id, err := svc.Ingest(ctx, IngestRequest{
		AccountID: 1,
		Amount:    d("10"),
		Direction: "TRANSFER", // not a recognized direction
		Currency:  "usd",
	})
	if err != nil {
		t.Fatal(err)
	}

	tx, err := txStore.GetByID(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if tx.Direction != models.DirectionDebit {
		t.Errorf("direction = %s, want debit (unrecognized values conserve funds)", tx.Direction)
	}
	if tx.Currency != "USD" {
		t.Errorf("currency = %s, want USD", tx.Currency)
	}
	if tx.Status != models.TxStatusApproved {
		t.Errorf("status = %s, want approved", tx.Status)
	}
	if tx.TransactionID == "" {
		t.Error("external transaction id not assigned")
	}
}

func TestIngestSurvivesEnginePanic(t *testing.T) {
	ctx := context.Background()
	accounts := newFakeAccountStore(&models.Account{ID: 1, CustomerID: 1, Balance: d("100")})
	txStore := newFakeTransactionStore()

	// A nil resolver makes Evaluate panic on its first dereference.
	engine := NewRuleEngine(txStore, newFakeAlertStore(), nil, nil, nil, nil, testLogger())
	svc := NewIngestionService(txStore, accounts, engine, testLogger())

	id, err := svc.Ingest(ctx, IngestRequest{AccountID: 1, Amount: d("50")})
	if err != nil {
		t.Fatalf("Ingest failed despite the detection shield: %v", err)
	}
	if id == 0 {
		t.Error("transaction id not returned")
	}
	if got := accounts.balance(1); !got.Equal(d("50")) {
		t.Errorf("balance = %s, want 50 (financial write must commit)", got)
	}
}

func TestIngestRunsDetection(t *testing.T) {
	ctx := context.Background()
	accounts := newFakeAccountStore(&models.Account{ID: 1, CustomerID: 1})
	svc, _, alertStore := newIngestionFixture(accounts)

	id, err := svc.Ingest(ctx, IngestRequest{AccountID: 1, Amount: d("500")})
	if err != nil {
		t.Fatal(err)
	}

	alerts, _ := alertStore.ListByTransaction(ctx, id)
	if len(alerts) != 1 || alerts[0].RuleCode != models.RuleAmountThreshold {
		t.Fatalf("alerts = %v, want one threshold alert", alerts)
	}
}

func TestIngestBalanceFailurePropagates(t *testing.T) {
	ctx := context.Background()
	accounts := newFakeAccountStore(&models.Account{ID: 1, CustomerID: 1})
	accounts.adjustErr = errors.New("balance update failed")
	svc, _, _ := newIngestionFixture(accounts)

	if _, err := svc.Ingest(ctx, IngestRequest{AccountID: 1, Amount: d("10")}); err == nil {
		t.Fatal("Ingest succeeded despite the balance write failing")
	}
}
