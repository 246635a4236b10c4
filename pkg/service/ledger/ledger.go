// Package ledger provides the only entry points for account mutation and
// read. It orchestrates load → mutate → atomic persist, owns the
// retry-on-conflict policy and publishes an integration event per
// committed mutation.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sgbank/account-ledger/pkg/domain"
	"github.com/sgbank/account-ledger/pkg/domain/account"
	"github.com/sgbank/account-ledger/pkg/dto"
	"github.com/sgbank/account-ledger/pkg/eventbus"
	"github.com/sgbank/account-ledger/pkg/repository"
	"github.com/shopspring/decimal"
)

// DefaultMaxAttempts bounds the load-mutate-persist cycles tried before a
// version conflict is surfaced to the caller.
const DefaultMaxAttempts = 3

// Service orchestrates account mutations against a LedgerStore. Concurrent
// mutations of the same account are serialized by the store's
// compare-and-swap, not by an in-process lock.
type Service struct {
	store       repository.LedgerStore
	publisher   eventbus.Publisher
	logger      *slog.Logger
	maxAttempts int
}

// New creates a Service. maxAttempts <= 0 falls back to DefaultMaxAttempts.
func New(store repository.LedgerStore, publisher eventbus.Publisher, logger *slog.Logger, maxAttempts int) *Service {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Service{
		store:       store,
		publisher:   publisher,
		logger:      logger,
		maxAttempts: maxAttempts,
	}
}

// CreateAccount builds a fresh zero-balance account for the owner and
// persists it.
func (s *Service) CreateAccount(ctx context.Context, ownerID uuid.UUID) (*dto.AccountView, error) {
	a := account.New(ownerID)
	if err := s.store.Create(ctx, a); err != nil {
		s.logger.Error("create account failed", "owner_id", ownerID, "error", err)
		return nil, asPersistence(err)
	}
	s.logger.Info("account created", "account_id", a.ID, "owner_id", ownerID)
	return view(a), nil
}

// GetBalance loads the account scoped to its owner. A missing account and
// an account owned by someone else both surface domain.ErrAccountNotFound.
func (s *Service) GetBalance(ctx context.Context, accountID, ownerID uuid.UUID) (*dto.AccountView, error) {
	a, err := s.store.Get(ctx, accountID, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, err
		}
		return nil, asPersistence(err)
	}
	return view(*a), nil
}

// Deposit adds funds to the account and appends a Deposit record, as one
// atomic unit.
func (s *Service) Deposit(ctx context.Context, accountID, ownerID uuid.UUID, amount decimal.Decimal) (*dto.AccountView, error) {
	return s.mutate(ctx, accountID, ownerID, account.TypeDeposit, amount)
}

// Withdraw removes funds from the account and appends a Withdrawal record,
// as one atomic unit. Propagates domain.ErrInsufficientFunds.
func (s *Service) Withdraw(ctx context.Context, accountID, ownerID uuid.UUID, amount decimal.Decimal) (*dto.AccountView, error) {
	return s.mutate(ctx, accountID, ownerID, account.TypeWithdrawal, amount)
}

// GetTransactions returns the account's ledger records in creation order.
// The account is first resolved through the owner scope so histories never
// leak across owners.
func (s *Service) GetTransactions(ctx context.Context, accountID, ownerID uuid.UUID) ([]dto.TransactionRead, error) {
	a, err := s.store.Get(ctx, accountID, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, err
		}
		return nil, asPersistence(err)
	}
	txs, err := s.store.ListTransactions(ctx, a.ID)
	if err != nil {
		return nil, asPersistence(err)
	}
	reads := make([]dto.TransactionRead, 0, len(txs))
	for _, tx := range txs {
		reads = append(reads, dto.TransactionRead{
			ID:           tx.ID,
			AccountID:    tx.AccountID,
			Type:         string(tx.Type),
			Amount:       tx.Amount,
			BalanceAfter: tx.BalanceAfter,
			CreatedAt:    tx.CreatedAt,
		})
	}
	return reads, nil
}

// mutate runs the full load-mutate-persist cycle, retrying on version
// conflict up to the configured bound. The amount is re-validated against
// the freshly loaded balance on every attempt, so a retried withdraw
// re-evaluates insufficient funds against the latest state rather than a
// stale one.
func (s *Service) mutate(ctx context.Context, accountID, ownerID uuid.UUID, t account.TransactionType, amount decimal.Decimal) (*dto.AccountView, error) {
	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		loaded, err := s.store.Get(ctx, accountID, ownerID)
		if err != nil {
			if errors.Is(err, domain.ErrAccountNotFound) {
				return nil, err
			}
			return nil, asPersistence(err)
		}

		var updated account.Account
		if t == account.TypeDeposit {
			updated, err = loaded.Deposit(amount)
		} else {
			updated, err = loaded.Withdraw(amount)
		}
		if err != nil {
			// Aggregate errors surface unchanged; they are not retryable.
			return nil, err
		}

		tx := account.NewTransaction(updated.ID, t, amount, updated.Balance)
		err = s.store.UpdateWithTransaction(ctx, updated, loaded.Version, tx)
		if err == nil {
			s.logger.Info("transaction posted",
				"account_id", updated.ID,
				"type", t,
				"amount", amount,
				"balance_after", updated.Balance,
				"attempt", attempt,
			)
			s.publish(ctx, tx)
			return view(updated), nil
		}
		if !errors.Is(err, domain.ErrConcurrencyConflict) {
			return nil, asPersistence(err)
		}

		lastErr = err
		s.logger.Warn("version conflict, retrying",
			"account_id", accountID,
			"type", t,
			"attempt", attempt,
		)
	}
	return nil, fmt.Errorf("%w: gave up after %d attempts", lastErr, s.maxAttempts)
}

// publish emits the integration event for a committed mutation. The ledger
// row is the source of truth; a publish failure is logged and swallowed.
func (s *Service) publish(ctx context.Context, tx account.Transaction) {
	if s.publisher == nil {
		return
	}
	evt := eventbus.TransactionPosted{
		TransactionID: tx.ID,
		AccountID:     tx.AccountID,
		Type:          string(tx.Type),
		Amount:        tx.Amount,
		BalanceAfter:  tx.BalanceAfter,
		OccurredAt:    time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, eventbus.TopicTransactionPosted, evt); err != nil {
		s.logger.Warn("event publish failed", "transaction_id", tx.ID, "error", err)
	}
}

func view(a account.Account) *dto.AccountView {
	return &dto.AccountView{AccountID: a.ID, Balance: a.Balance}
}

// asPersistence wraps store failures that are not part of the domain error
// set, so callers can dispatch on domain.ErrPersistence.
func asPersistence(err error) error {
	if errors.Is(err, domain.ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
}
