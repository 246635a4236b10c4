// Package account contains the ledger's aggregate: an account balance and
// the transaction records produced by mutating it.
//
// Invariants:
//   - Balance is a fixed-point decimal with scale 4 and is never negative.
//   - Balance changes only through Deposit and Withdraw.
//   - Every value is immutable after construction; mutation produces a new
//     Account, and persisting it is the caller's responsibility.
package account

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sgbank/account-ledger/pkg/domain"
	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits the ledger stores.
const Scale = 4

// Account is the aggregate enforcing balance invariants. It never talks to
// storage; Version is the opaque concurrency token the store compares on
// write.
type Account struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Balance   decimal.Decimal
	Version   uint64
	CreatedAt time.Time
}

// New creates an account for the given owner with a zero balance, a fresh
// id and the current timestamp.
func New(ownerID uuid.UUID) Account {
	return Account{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Balance:   decimal.Zero,
		CreatedAt: time.Now().UTC(),
	}
}

// ValidateAmount rejects amounts that are not strictly positive or carry
// more than Scale fractional digits.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.Cmp(decimal.Zero) <= 0 {
		return fmt.Errorf("%w: amount must be positive, got %s", domain.ErrInvalidAmount, amount)
	}
	if !amount.Equal(amount.Truncate(Scale)) {
		return fmt.Errorf("%w: amount %s exceeds scale of %d fractional digits", domain.ErrInvalidAmount, amount, Scale)
	}
	return nil
}

// Deposit returns a copy of the account with the amount added to its
// balance. Fails with domain.ErrInvalidAmount on non-positive or
// over-precise amounts.
func (a Account) Deposit(amount decimal.Decimal) (Account, error) {
	if err := ValidateAmount(amount); err != nil {
		return a, err
	}
	a.Balance = a.Balance.Add(amount)
	return a, nil
}

// Withdraw returns a copy of the account with the amount subtracted from
// its balance. Fails with domain.ErrInvalidAmount on non-positive or
// over-precise amounts, and with domain.ErrInsufficientFunds when the
// amount exceeds the balance.
func (a Account) Withdraw(amount decimal.Decimal) (Account, error) {
	if err := ValidateAmount(amount); err != nil {
		return a, err
	}
	if amount.Cmp(a.Balance) > 0 {
		return a, fmt.Errorf("%w: withdraw %s exceeds balance %s", domain.ErrInsufficientFunds, amount, a.Balance)
	}
	a.Balance = a.Balance.Sub(amount)
	return a, nil
}
