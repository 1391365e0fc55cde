package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type InstrumentKind string

const (
	InstrumentCard    InstrumentKind = "CARD"
	InstrumentAccount InstrumentKind = "ACCOUNT"
)

type InstrumentStatus string

const (
	InstrumentActive  InstrumentStatus = "ACTIVE"
	InstrumentBlocked InstrumentStatus = "BLOCKED"
)

// Instrument is a card or a bank account holding a balance in one currency.
// OwnerID is only used to decide whether a cross-currency transfer between
// two instruments is allowed.
type Instrument struct {
	ID        string
	Kind      InstrumentKind
	Number    string
	OwnerID   string
	Currency  Currency
	Balance   decimal.Decimal
	Status    InstrumentStatus
	ExpiresAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBlocked reports whether the instrument cannot take part in a transfer.
// Expired cards are treated as blocked.
func (i *Instrument) IsBlocked(now time.Time) bool {
	if i.Status == InstrumentBlocked {
		return true
	}
	return i.Kind == InstrumentCard && i.ExpiresAt != nil && i.ExpiresAt.Before(now)
}

func (i *Instrument) HasFunds(amount decimal.Decimal) bool {
	return i.Balance.GreaterThanOrEqual(amount)
}

func (i *Instrument) SameOwner(other *Instrument) bool {
	return i.OwnerID != "" && i.OwnerID == other.OwnerID
}

// Debit subtracts amount from the balance. The balance is left untouched if
// the result would be negative.
func (i *Instrument) Debit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	next := i.Balance.Sub(amount)
	if next.IsNegative() {
		return fmt.Errorf("instrument %s: %w", i.ID, ErrInsufficientFunds)
	}
	i.Balance = next
	return nil
}

func (i *Instrument) Credit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	i.Balance = i.Balance.Add(amount)
	return nil
}
