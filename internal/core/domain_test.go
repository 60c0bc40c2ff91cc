package core

import (
	"errors"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	if err := NewDate(2025, 1, 1).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Date{Time: time.Time{}}).Validate(); err == nil {
		t.Fatalf("expected error for zero date")
	}
}

func TestDateOf(t *testing.T) {
	d := DateOf(time.Date(2024, 3, 15, 23, 45, 12, 0, time.UTC))
	if d.ISO() != "2024-03-15" {
		t.Fatalf("expected 2024-03-15, got %s", d.ISO())
	}
}

func validTransaction() Transaction {
	return Transaction{
		ID:              "tx-1",
		PersonID:        "p-1",
		Amount:          100,
		TransactionDate: NewDate(2024, 1, 1),
		InterestType:    InterestNone,
	}
}

func TestTransactionValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr error
	}{
		{
			name:   "valid without interest",
			mutate: func(tx *Transaction) {},
		},
		{
			name: "valid simple interest",
			mutate: func(tx *Transaction) {
				tx.ApplyInterest = true
				tx.InterestType = InterestSimple
				tx.InterestRate = 10
			},
		},
		{
			name: "valid compound interest",
			mutate: func(tx *Transaction) {
				tx.ApplyInterest = true
				tx.InterestType = InterestCompound
				tx.InterestRate = 12
				tx.CompoundFreq = 12
			},
		},
		{
			name:    "missing person",
			mutate:  func(tx *Transaction) { tx.PersonID = " " },
			wantErr: ErrMissingPerson,
		},
		{
			name:    "zero amount",
			mutate:  func(tx *Transaction) { tx.Amount = 0 },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			mutate:  func(tx *Transaction) { tx.Amount = -5 },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative rate",
			mutate:  func(tx *Transaction) { tx.InterestRate = -1 },
			wantErr: ErrInvalidRate,
		},
		{
			name:    "unknown interest type",
			mutate:  func(tx *Transaction) { tx.InterestType = "weekly" },
			wantErr: ErrUnknownInterestType,
		},
		{
			name: "apply off but type set",
			mutate: func(tx *Transaction) {
				tx.ApplyInterest = false
				tx.InterestType = InterestSimple
			},
			wantErr: ErrInterestTypeMismatch,
		},
		{
			name: "apply on but type none",
			mutate: func(tx *Transaction) {
				tx.ApplyInterest = true
				tx.InterestType = InterestNone
			},
			wantErr: ErrInterestTypeMismatch,
		},
		{
			name: "compound without frequency",
			mutate: func(tx *Transaction) {
				tx.ApplyInterest = true
				tx.InterestType = InterestCompound
				tx.CompoundFreq = 0
			},
			wantErr: ErrInvalidFrequency,
		},
		{
			name: "simple ignores frequency",
			mutate: func(tx *Transaction) {
				tx.ApplyInterest = true
				tx.InterestType = InterestSimple
				tx.CompoundFreq = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTransaction()
			tt.mutate(&tx)
			err := tx.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected ok, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestPersonValidate(t *testing.T) {
	if err := (Person{ID: "p-1", Name: "Marta"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Person{ID: "p-1", Name: "  "}).Validate(); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestSignedAmount(t *testing.T) {
	tx := validTransaction()
	tx.Amount = 250

	tx.IsMoneyReceived = true
	if got := tx.SignedAmount(); got != 250 {
		t.Fatalf("received: expected +250, got %v", got)
	}
	tx.IsMoneyReceived = false
	if got := tx.SignedAmount(); got != -250 {
		t.Fatalf("given: expected -250, got %v", got)
	}
}
