// Package domain holds the closed set of error kinds shared by the ledger
// core. Callers dispatch on them with errors.Is; context is attached by
// wrapping, never by subclassing.
package domain

import "errors"

var (
	// ErrInvalidAmount is returned when an amount is not positive or carries
	// more fractional digits than the ledger's scale of 4.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientFunds is returned when a withdrawal exceeds the current balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAccountNotFound is returned when an account does not exist or is not
	// owned by the requesting owner. The two cases are indistinguishable on
	// purpose so account existence never leaks across owners.
	ErrAccountNotFound = errors.New("account not found")

	// ErrConcurrencyConflict is returned when an optimistic-concurrency write
	// loses the version check. Transient; the ledger service retries it.
	ErrConcurrencyConflict = errors.New("concurrency conflict")

	// ErrPersistence is returned when the store fails for any reason other
	// than a version conflict or a missing row.
	ErrPersistence = errors.New("persistence error")
)
