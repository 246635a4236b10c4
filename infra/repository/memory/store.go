// Package memory provides an in-memory LedgerStore with the same
// compare-and-swap semantics as the Postgres implementation. Used by tests
// and local runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sgbank/account-ledger/pkg/domain"
	"github.com/sgbank/account-ledger/pkg/domain/account"
	"github.com/sgbank/account-ledger/pkg/repository"
)

// Store keeps accounts and their transaction logs behind a single mutex.
// The mutex makes each store call atomic; callers still race between load
// and update, which is exactly what the version token arbitrates.
type Store struct {
	mu           sync.Mutex
	accounts     map[uuid.UUID]account.Account
	transactions map[uuid.UUID][]account.Transaction
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		accounts:     make(map[uuid.UUID]account.Account),
		transactions: make(map[uuid.UUID][]account.Transaction),
	}
}

// Get implements repository.LedgerStore. A missing account and an owner
// mismatch are both reported as domain.ErrAccountNotFound.
func (s *Store) Get(ctx context.Context, accountID, ownerID uuid.UUID) (*account.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[accountID]
	if !ok || a.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, accountID)
	}
	return &a, nil
}

// Create implements repository.LedgerStore. The stored account gets
// version 1.
func (s *Store) Create(ctx context.Context, a account.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[a.ID]; exists {
		return fmt.Errorf("duplicate account id %s", a.ID)
	}
	a.Version = 1
	s.accounts[a.ID] = a
	return nil
}

// UpdateWithTransaction implements repository.LedgerStore. The balance
// update, the version bump and the transaction append happen under one
// lock: either all of them are visible or none.
func (s *Store) UpdateWithTransaction(ctx context.Context, a account.Account, expectedVersion uint64, tx account.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.accounts[a.ID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, a.ID)
	}
	if stored.Version != expectedVersion {
		return fmt.Errorf("%w: account %s at version %d, expected %d",
			domain.ErrConcurrencyConflict, a.ID, stored.Version, expectedVersion)
	}
	stored.Balance = a.Balance
	stored.Version++
	s.accounts[a.ID] = stored
	s.transactions[a.ID] = append(s.transactions[a.ID], tx)
	return nil
}

// ListTransactions implements repository.LedgerStore. Records come back in
// append order, which is creation order.
func (s *Store) ListTransactions(ctx context.Context, accountID uuid.UUID) ([]account.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	txs := s.transactions[accountID]
	out := make([]account.Transaction, len(txs))
	copy(out, txs)
	return out, nil
}

var _ repository.LedgerStore = (*Store)(nil)
