package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType tells whether a transaction added or removed funds.
type TransactionType string

const (
	TypeDeposit    TransactionType = "Deposit"
	TypeWithdrawal TransactionType = "Withdrawal"
)

// Transaction is an append-only record of a single balance mutation.
// BalanceAfter snapshots the account balance immediately after the
// mutation, so replaying the records in creation order reconstructs the
// balance from zero.
type Transaction struct {
	ID           uuid.UUID
	AccountID    uuid.UUID
	Type         TransactionType
	Amount       decimal.Decimal
	BalanceAfter decimal.Decimal
	CreatedAt    time.Time
}

// NewTransaction records a mutation of the given account. The amount is
// assumed to be validated by the aggregate that produced it.
func NewTransaction(accountID uuid.UUID, t TransactionType, amount, balanceAfter decimal.Decimal) Transaction {
	return Transaction{
		ID:           uuid.New(),
		AccountID:    accountID,
		Type:         t,
		Amount:       amount,
		BalanceAfter: balanceAfter,
		CreatedAt:    time.Now().UTC(),
	}
}

// Signed returns the amount with the sign implied by the transaction type:
// positive for deposits, negative for withdrawals.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == TypeWithdrawal {
		return t.Amount.Neg()
	}
	return t.Amount
}
