package transfers

import (
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"bankengine/internal/app/currency"
	"bankengine/internal/domain"
)

const deniedReceiverReason = "Receiver instrument is blocked."

// DeniedError is returned when the receiver exists but cannot accept funds.
// Unlike other validation failures it leaves a DENIED record behind.
type DeniedError struct {
	Reason   string
	Receiver *domain.Instrument
}

func (e *DeniedError) Error() string {
	return "transfer denied: " + e.Reason
}

func (e *DeniedError) Unwrap() error {
	return domain.ErrInvalidState
}

// Validator holds the ordered precondition checks. Each check returns the
// first failure it finds; callers run them in order and stop at the first
// error.
type Validator struct {
	now func() time.Time
}

func NewValidator(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{now: now}
}

// CheckSender is step 1.
func (v *Validator) CheckSender(sender *domain.Instrument, id string) error {
	if sender == nil {
		return fmt.Errorf("sender %s: %w", id, domain.ErrNotFound)
	}
	if sender.IsBlocked(v.now()) {
		return fmt.Errorf("sender %s is blocked or expired: %w", sender.ID, domain.ErrInvalidState)
	}
	return nil
}

// NormalizeAmount rounds amount half up to the minor unit of c.
func (v *Validator) NormalizeAmount(amount decimal.Decimal, c domain.Currency) decimal.Decimal {
	return currency.RoundMinor(amount, c)
}

// CheckAmount is step 2.
func (v *Validator) CheckAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("amount %s: %w", amount, domain.ErrInvalidAmount)
	}
	return nil
}

// CheckFunds is step 3. amount is in the sender's currency.
func (v *Validator) CheckFunds(sender *domain.Instrument, amount decimal.Decimal) error {
	if !sender.HasFunds(amount) {
		return fmt.Errorf("sender %s has %s %s, needs %s: %w",
			sender.ID, sender.Balance, sender.Currency, amount, domain.ErrInsufficientFunds)
	}
	return nil
}

// CheckReceiver is step 4 and only applies to direct transfers.
func (v *Validator) CheckReceiver(sender, receiver *domain.Instrument, key string) error {
	if receiver == nil {
		return fmt.Errorf("receiver %s: %w", key, domain.ErrNotFound)
	}
	if receiver.ID == sender.ID {
		return fmt.Errorf("sender and receiver are the same instrument %s: %w", sender.ID, domain.ErrInvalidState)
	}
	if receiver.IsBlocked(v.now()) {
		return &DeniedError{Reason: deniedReceiverReason, Receiver: receiver}
	}
	return nil
}

// CheckCurrencies is step 5. Money only changes currency between instruments
// of the same owner.
func (v *Validator) CheckCurrencies(sender, receiver *domain.Instrument) error {
	if sender.Currency != receiver.Currency && !sender.SameOwner(receiver) {
		return fmt.Errorf("%s to %s: %w", sender.Currency, receiver.Currency, domain.ErrCurrencyMismatch)
	}
	return nil
}

// CheckDescription is step 6 and returns the escaped description to store.
func (v *Validator) CheckDescription(description string) (string, error) {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return "", fmt.Errorf("empty description: %w", domain.ErrInvalidDescription)
	}
	escaped := html.EscapeString(trimmed)
	if n := utf8.RuneCountInString(escaped); n > domain.MaxDescriptionLength {
		return "", fmt.Errorf("description is %d characters after escaping: %w", n, domain.ErrInvalidDescription)
	}
	return escaped, nil
}
