package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	InterestNone     InterestType = "none"
	InterestSimple   InterestType = "simple"
	InterestCompound InterestType = "compound"
)

type (
	// InterestType selects how interest accrues on a transaction.
	InterestType string

	Date struct {
		time.Time
	}

	// Person is a counterparty: someone the user lends money to or
	// borrows money from. Referenced by transactions, never owned by them.
	Person struct {
		ID    string
		Name  string
		Email string
		Phone string
		Notes string
	}

	// Transaction records money moving between the user and a person.
	// Amount is always positive; direction is carried by IsMoneyReceived
	// (true: the person paid the user, false: the user paid the person).
	Transaction struct {
		ID              string
		PersonID        string
		Amount          float64
		IsMoneyReceived bool
		TransactionDate Date
		Description     string
		Category        string
		PaymentMethod   string
		IsSettled       bool
		ReminderDate    Date // optional, zero when unset
		ReminderSent    bool
		ApplyInterest   bool
		InterestType    InterestType
		InterestRate    float64 // percent per year
		CompoundFreq    int     // compounding periods per year, compound only
	}
)

var (
	ErrInvalidDate           = errors.New("invalid date")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrMissingPerson         = errors.New("missing person reference")
	ErrEmptyName             = errors.New("empty name")
	ErrInvalidRate           = errors.New("invalid interest rate")
	ErrInvalidFrequency      = errors.New("invalid compound frequency")
	ErrUnknownInterestType   = errors.New("unknown interest type")
	ErrInterestTypeMismatch  = errors.New("interest type inconsistent with apply flag")
	ErrPersonHasTransactions = errors.New("person still referenced by transactions")
	ErrNotFound              = errors.New("not found")
)

// NewDate creates a Date at UTC midnight for year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its UTC calendar date.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return NewDate(y, int(m), d)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// IsEmpty reports whether the date is unset (for optional dates).
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// ISO returns the date formatted as YYYY-MM-DD.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

func (t InterestType) Valid() bool {
	switch t {
	case InterestNone, InterestSimple, InterestCompound:
		return true
	}
	return false
}

func (p Person) Validate() error {
	if len(strings.TrimSpace(p.Name)) == 0 {
		return ErrEmptyName
	}
	if len(p.Name) > 200 {
		return errors.New("name too long (max 200 characters)")
	}
	return nil
}

func (tx Transaction) Validate() error {
	if strings.TrimSpace(tx.PersonID) == "" {
		return ErrMissingPerson
	}
	if tx.Amount <= 0 {
		return ErrInvalidAmount
	}
	if err := tx.TransactionDate.Validate(); err != nil {
		return fmt.Errorf("invalid transaction date: %w", err)
	}
	if len(tx.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if tx.InterestRate < 0 {
		return ErrInvalidRate
	}
	if !tx.InterestType.Valid() {
		return ErrUnknownInterestType
	}

	// Interest flags must be consistent: no interest means type none,
	// compound requires a positive frequency. Simple ignores frequency.
	if !tx.ApplyInterest {
		if tx.InterestType != InterestNone {
			return ErrInterestTypeMismatch
		}
		return nil
	}
	switch tx.InterestType {
	case InterestNone:
		return ErrInterestTypeMismatch
	case InterestCompound:
		if tx.CompoundFreq <= 0 {
			return ErrInvalidFrequency
		}
	}
	return nil
}

// Sign returns +1 when the person paid the user and -1 when the user
// paid the person. Direction is never carried by a negative amount.
func (tx Transaction) Sign() float64 {
	if tx.IsMoneyReceived {
		return 1
	}
	return -1
}

// SignedAmount is the principal with its direction applied.
func (tx Transaction) SignedAmount() float64 {
	return tx.Sign() * tx.Amount
}
