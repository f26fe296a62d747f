package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Chidipothusiritha/ftransaction-2025/internal/models"
)

// In-memory fakes shared by the service tests.

var errNotFound = errors.New("not found")

type fakeTransactionStore struct {
	rows       map[int]*models.Transaction
	nextID     int
	rollingAvg decimal.Decimal
	avgErr     error
	createErr  error
}

func newFakeTransactionStore() *fakeTransactionStore {
	return &fakeTransactionStore{rows: map[int]*models.Transaction{}, nextID: 1}
}

func (f *fakeTransactionStore) Create(_ context.Context, tx *models.Transaction) error {
	if f.createErr != nil {
		return f.createErr
	}
	tx.ID = f.nextID
	f.nextID++
	cp := *tx
	f.rows[tx.ID] = &cp
	return nil
}

func (f *fakeTransactionStore) GetByID(_ context.Context, id int) (*models.Transaction, error) {
	tx, ok := f.rows[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *tx
	return &cp, nil
}

func (f *fakeTransactionStore) UpdateStatus(_ context.Context, id int, status string) error {
	tx, ok := f.rows[id]
	if !ok {
		return errNotFound
	}
	tx.Status = status
	return nil
}

func (f *fakeTransactionStore) RollingAverage(_ context.Context, _, _, _ int) (decimal.Decimal, error) {
	if f.avgErr != nil {
		return decimal.Zero, f.avgErr
	}
	return f.rollingAvg, nil
}

func (f *fakeTransactionStore) ListRecent(_ context.Context, limit int) ([]*models.Transaction, error) {
	var out []*models.Transaction
	for id := f.nextID - 1; id >= 1 && len(out) < limit; id-- {
		if tx, ok := f.rows[id]; ok {
			cp := *tx
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeAccountStore struct {
	rows      map[int]*models.Account
	adjustErr error
}

func newFakeAccountStore(accounts ...*models.Account) *fakeAccountStore {
	f := &fakeAccountStore{rows: map[int]*models.Account{}}
	for _, a := range accounts {
		f.rows[a.ID] = a
	}
	return f
}

func (f *fakeAccountStore) GetByID(_ context.Context, id int) (*models.Account, error) {
	a, ok := f.rows[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAccountStore) AdjustBalance(_ context.Context, accountID int, delta decimal.Decimal) error {
	if f.adjustErr != nil {
		return f.adjustErr
	}
	a, ok := f.rows[accountID]
	if !ok {
		return errNotFound
	}
	a.Balance = a.Balance.Add(delta)
	return nil
}

func (f *fakeAccountStore) balance(id int) decimal.Decimal {
	return f.rows[id].Balance
}

// fakeAlertStore enforces the (transaction, rule) uniqueness the real table
// gets from its unique index.
type fakeAlertStore struct {
	rows      []models.Alert
	nextID    int
	createErr error
}

func newFakeAlertStore() *fakeAlertStore {
	return &fakeAlertStore{nextID: 1}
}

func (f *fakeAlertStore) Create(_ context.Context, alert *models.Alert) (bool, error) {
	if f.createErr != nil {
		return false, f.createErr
	}
	for i := range f.rows {
		if f.rows[i].TransactionID == alert.TransactionID && f.rows[i].RuleCode == alert.RuleCode {
			return false, nil
		}
	}
	alert.ID = f.nextID
	f.nextID++
	f.rows = append(f.rows, *alert)
	return true, nil
}

func (f *fakeAlertStore) ListByTransaction(_ context.Context, transactionID int) ([]models.Alert, error) {
	var out []models.Alert
	for i := range f.rows {
		if f.rows[i].TransactionID == transactionID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

func (f *fakeAlertStore) UpdateStatus(_ context.Context, alertID int, status string) error {
	for i := range f.rows {
		if f.rows[i].ID == alertID {
			f.rows[i].Status = status
			return nil
		}
	}
	return errNotFound
}

func (f *fakeAlertStore) UpdateStatusByTransaction(_ context.Context, transactionID int, status string) error {
	for i := range f.rows {
		if f.rows[i].TransactionID == transactionID {
			f.rows[i].Status = status
		}
	}
	return nil
}

func (f *fakeAlertStore) ListOpen(_ context.Context, limit int) ([]models.AlertFeedItem, error) {
	var out []models.AlertFeedItem
	for i := len(f.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if f.rows[i].Status == models.AlertStatusOpen {
			out = append(out, models.AlertFeedItem{Alert: f.rows[i]})
		}
	}
	return out, nil
}

type fakeMerchantStore struct {
	tiers map[int]string
	err   error
}

func (f *fakeMerchantStore) RiskTier(_ context.Context, merchantID int) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.tiers[merchantID], nil
}

type fakeRuleConfigStore struct {
	perAccount map[int]*models.AlertRule
	global     *models.AlertRule
	accountErr error
	globalErr  error
}

func (f *fakeRuleConfigStore) ForAccount(_ context.Context, accountID int) (*models.AlertRule, error) {
	if f.accountErr != nil {
		return nil, f.accountErr
	}
	return f.perAccount[accountID], nil
}

func (f *fakeRuleConfigStore) GlobalDefault(_ context.Context) (*models.AlertRule, error) {
	if f.globalErr != nil {
		return nil, f.globalErr
	}
	return f.global, nil
}

type fakeProcedureRunner struct {
	calls []string
	fail  map[string]error
}

func (f *fakeProcedureRunner) Run(_ context.Context, procedure string, transactionID int) error {
	f.calls = append(f.calls, fmt.Sprintf("%s:%d", procedure, transactionID))
	if err, ok := f.fail[procedure]; ok {
		return err
	}
	return nil
}

type fakeCredentialStore struct {
	creds map[int]*models.Credential
}

func (f *fakeCredentialStore) GetCredentialByCustomer(_ context.Context, customerID int) (*models.Credential, error) {
	c, ok := f.creds[customerID]
	if !ok {
		return nil, errNotFound
	}
	return c, nil
}

type fakeNotifier struct {
	raised   []models.Alert
	reversed []int
}

func (f *fakeNotifier) AlertRaised(_ context.Context, alert *models.Alert) {
	f.raised = append(f.raised, *alert)
}

func (f *fakeNotifier) SettlementReversed(_ context.Context, tx *models.Transaction) {
	f.reversed = append(f.reversed, tx.ID)
}

func testRuleConfig() RuleConfig {
	return RuleConfig{
		AmountThreshold: decimal.NewFromInt(200),
		SpikeMultiplier: decimal.NewFromFloat(2.5),
		LookbackDays:    30,
	}
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func intPtr(v int) *int {
	return &v
}
