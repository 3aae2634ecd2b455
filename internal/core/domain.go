package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// DateLayout is the canonical on-the-wire date form (ISO 8601 date).
const DateLayout = "2006-01-02"

type (
	TransactionType string

	// Date is an ISO calendar date (YYYY-MM-DD), no time component.
	Date string

	// Transaction records a single monetary event. ID and CreatedAt are
	// assigned once at creation and never change afterwards.
	Transaction struct {
		ID          string
		Amount      decimal.Decimal
		Description string
		Date        Date
		Type        TransactionType
		CreatedAt   int64 // Unix milliseconds, audit/sort key only
	}

	// Ledger is the full persistent state: every transaction plus the
	// user-set starting balance.
	Ledger struct {
		Transactions   []Transaction
		InitialBalance decimal.Decimal
	}
)

var (
	// ErrValidation is the common ancestor of all input validation errors.
	ErrValidation = errors.New("validation failed")

	ErrInvalidAmount = fmt.Errorf("%w: amount must be positive", ErrValidation)
	ErrInvalidDate   = fmt.Errorf("%w: invalid date", ErrValidation)
	ErrInvalidType   = fmt.Errorf("%w: invalid transaction type", ErrValidation)
)

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidType
	}
}

func (d Date) Validate() error {
	if d == "" {
		return ErrInvalidDate
	}
	if _, err := time.Parse(DateLayout, string(d)); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// Time returns the date at midnight UTC. It assumes the date has been
// validated; invalid dates yield the zero time.
func (d Date) Time() time.Time {
	t, _ := time.Parse(DateLayout, string(d))
	return t
}

func (t Transaction) Validate() error {
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if err := t.Type.Validate(); err != nil {
		return err
	}
	return nil
}
