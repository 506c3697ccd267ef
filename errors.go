package valutatrade

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions the CLI maps to a single user-facing line.
var (
	// ErrDuplicateUser indicates a registration with a username that is already taken.
	ErrDuplicateUser = errors.New("username already taken")

	// ErrInvalidCredentials indicates a login with an unknown username or a wrong password.
	// Both cases collapse into this one error on purpose.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrNotLoggedIn indicates an operation that requires a valid session.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrValidation indicates that input data failed validation checks.
	ErrValidation = errors.New("validation error")

	// ErrRateNotFound indicates that no rate could be resolved for a pair,
	// not even through the fallback table.
	ErrRateNotFound = errors.New("rate not found")

	// ErrStaleRate indicates a cached rate older than the freshness window.
	ErrStaleRate = errors.New("cached rate is stale")

	// ErrEmptyCache indicates that the rate cache has never been filled.
	ErrEmptyCache = errors.New("rate cache is empty, run 'update' first")
)

// UnknownCurrencyError reports a currency code outside the catalog.
type UnknownCurrencyError struct {
	Code string
}

func (e *UnknownCurrencyError) Error() string {
	return fmt.Sprintf("unknown or unsupported currency %q", e.Code)
}

// InsufficientFundsError reports a debit larger than the wallet balance.
// Available and Required are both in the wallet's currency.
type InsufficientFundsError struct {
	Code      string
	Available Money
	Required  Money
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: has %s, needs %s", e.Available, e.Required)
}
