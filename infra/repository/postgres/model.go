package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/sgbank/account-ledger/pkg/domain/account"
	"github.com/shopspring/decimal"
)

// accountModel is the accounts row. Version is the optimistic-concurrency
// token; every successful balance write increments it.
type accountModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Balance   decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	Version   uint64          `gorm:"not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

func (accountModel) TableName() string { return "accounts" }

// transactionModel is an append-only row; it is never updated or deleted.
type transactionModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	AccountID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type         string          `gorm:"type:varchar(20);not null"`
	Amount       decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	BalanceAfter decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	CreatedAt    time.Time       `gorm:"not null;index"`
}

func (transactionModel) TableName() string { return "transactions" }

func toAccountModel(a account.Account) accountModel {
	return accountModel{
		ID:        a.ID,
		OwnerID:   a.OwnerID,
		Balance:   a.Balance,
		Version:   a.Version,
		CreatedAt: a.CreatedAt,
	}
}

func toDomainAccount(m accountModel) account.Account {
	return account.Account{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Balance:   m.Balance,
		Version:   m.Version,
		CreatedAt: m.CreatedAt,
	}
}

func toTransactionModel(tx account.Transaction) transactionModel {
	return transactionModel{
		ID:           tx.ID,
		AccountID:    tx.AccountID,
		Type:         string(tx.Type),
		Amount:       tx.Amount,
		BalanceAfter: tx.BalanceAfter,
		CreatedAt:    tx.CreatedAt,
	}
}

func toDomainTransaction(m transactionModel) account.Transaction {
	return account.Transaction{
		ID:           m.ID,
		AccountID:    m.AccountID,
		Type:         account.TransactionType(m.Type),
		Amount:       m.Amount,
		BalanceAfter: m.BalanceAfter,
		CreatedAt:    m.CreatedAt,
	}
}
