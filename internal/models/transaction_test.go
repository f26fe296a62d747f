package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestBalanceDelta(t *testing.T) {
	amount := decimal.RequireFromString("42.50")

	debit := &Transaction{Amount: amount, Direction: DirectionDebit}
	if got := debit.BalanceDelta(); !got.Equal(amount.Neg()) {
		t.Errorf("debit delta = %s, want %s", got, amount.Neg())
	}

	credit := &Transaction{Amount: amount, Direction: DirectionCredit}
	if got := credit.BalanceDelta(); !got.Equal(amount) {
		t.Errorf("credit delta = %s, want %s", got, amount)
	}
}

func TestAlertActionable(t *testing.T) {
	tests := []struct {
		name     string
		severity string
		status   string
		want     bool
	}{
		{"open high", SeverityHigh, AlertStatusOpen, true},
		{"open med", SeverityMed, AlertStatusOpen, true},
		{"open low", SeverityLow, AlertStatusOpen, false},
		{"cleared high", SeverityHigh, AlertStatusCleared, false},
		{"confirmed med", SeverityMed, AlertStatusConfirmed, false},
		{"resolved high", SeverityHigh, AlertStatusResolved, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Alert{Severity: tt.severity, Status: tt.status}
			if got := a.Actionable(); got != tt.want {
				t.Errorf("Actionable() = %v, want %v", got, tt.want)
			}
		})
	}
}
