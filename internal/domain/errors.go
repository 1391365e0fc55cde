package domain

import "errors"

var (
	ErrNotFound               = errors.New("not found")
	ErrInvalidState           = errors.New("invalid instrument state")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrInvalidAmount          = errors.New("amount must be greater than zero")
	ErrCurrencyMismatch       = errors.New("different currencies between instruments of different owners")
	ErrInvalidDescription     = errors.New("description must contain 1 to 100 characters")
	ErrInvalidReferenceNumber = errors.New("could not generate a unique reference number")
	ErrPersistenceFailure     = errors.New("persistence failure")

	ErrRateUnavailable     = errors.New("exchange rate unavailable")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrDuplicateReference  = errors.New("reference number already exists")
)

// Stable error codes exposed to API clients and failure events.
const (
	CodeNotFound               = "NOT_FOUND"
	CodeInvalidState           = "INVALID_STATE"
	CodeInsufficientFunds      = "INSUFFICIENT_FUNDS"
	CodeInvalidAmount          = "INVALID_AMOUNT"
	CodeCurrencyMismatch       = "CURRENCY_MISMATCH"
	CodeInvalidDescription     = "INVALID_DESCRIPTION"
	CodeInvalidReferenceNumber = "INVALID_REFERENCE_NUMBER"
	CodePersistenceFailure     = "PERSISTENCE_FAILURE"
	CodeRateUnavailable        = "RATE_UNAVAILABLE"
	CodeUnsupportedCurrency    = "UNSUPPORTED_CURRENCY"
	CodeInternal               = "INTERNAL"
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrNotFound, CodeNotFound},
	{ErrInvalidState, CodeInvalidState},
	{ErrInsufficientFunds, CodeInsufficientFunds},
	{ErrInvalidAmount, CodeInvalidAmount},
	{ErrCurrencyMismatch, CodeCurrencyMismatch},
	{ErrInvalidDescription, CodeInvalidDescription},
	{ErrInvalidReferenceNumber, CodeInvalidReferenceNumber},
	{ErrPersistenceFailure, CodePersistenceFailure},
	{ErrRateUnavailable, CodeRateUnavailable},
	{ErrUnsupportedCurrency, CodeUnsupportedCurrency},
}

// ErrorCode maps err onto the transfer error taxonomy. Errors outside of it
// are reported as CodeInternal.
func ErrorCode(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return CodeInternal
}

// IsValidationError reports whether err was raised by a precondition check,
// as opposed to a storage or infrastructure failure.
func IsValidationError(err error) bool {
	switch ErrorCode(err) {
	case CodeNotFound, CodeInvalidState, CodeInsufficientFunds, CodeInvalidAmount,
		CodeCurrencyMismatch, CodeInvalidDescription, CodeUnsupportedCurrency:
		return true
	}
	return false
}
