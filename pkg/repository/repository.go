// Package repository defines the persistence contract consumed by the
// ledger service. Implementations live under infra.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sgbank/account-ledger/pkg/domain/account"
)

// LedgerStore is durable keyed storage for accounts and their append-only
// transaction log. It owns durability and the optimistic-concurrency
// primitive; it never enforces balance invariants.
type LedgerStore interface {
	// Get loads an account scoped to its owner. Returns
	// domain.ErrAccountNotFound when no account matches both ids.
	Get(ctx context.Context, accountID, ownerID uuid.UUID) (*account.Account, error)

	// Create inserts a new account with version 1.
	Create(ctx context.Context, a account.Account) error

	// UpdateWithTransaction atomically writes the new balance, bumps the
	// version and appends the transaction record. The write succeeds only if
	// the stored version still equals expectedVersion; otherwise it returns
	// domain.ErrConcurrencyConflict and leaves no partial state.
	UpdateWithTransaction(ctx context.Context, a account.Account, expectedVersion uint64, tx account.Transaction) error

	// ListTransactions returns the account's transaction records in creation
	// order.
	ListTransactions(ctx context.Context, accountID uuid.UUID) ([]account.Transaction, error)
}
