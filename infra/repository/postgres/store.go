// Package postgres implements the LedgerStore on Postgres via GORM. The
// version column arbitrates concurrent writers: an update is applied only
// when the stored version still matches the one read at load time.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sgbank/account-ledger/pkg/domain"
	"github.com/sgbank/account-ledger/pkg/domain/account"
	"github.com/sgbank/account-ledger/pkg/repository"
	"gorm.io/gorm"
)

// Store is a LedgerStore backed by Postgres.
type Store struct {
	db *gorm.DB
}

// New creates a Store on the given connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the accounts and transactions tables.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&accountModel{}, &transactionModel{})
}

// Get implements repository.LedgerStore. The owner id is part of the
// lookup so a mismatch is indistinguishable from a missing row.
func (s *Store) Get(ctx context.Context, accountID, ownerID uuid.UUID) (*account.Account, error) {
	var m accountModel
	err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", accountID, ownerID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, accountID)
	}
	if err != nil {
		return nil, err
	}
	a := toDomainAccount(m)
	return &a, nil
}

// Create implements repository.LedgerStore.
func (s *Store) Create(ctx context.Context, a account.Account) error {
	m := toAccountModel(a)
	m.Version = 1
	return s.db.WithContext(ctx).Create(&m).Error
}

// UpdateWithTransaction implements repository.LedgerStore. The conditional
// balance update and the transaction insert run in one database
// transaction; a lost version check rolls the whole unit back and reports
// domain.ErrConcurrencyConflict.
func (s *Store) UpdateWithTransaction(ctx context.Context, a account.Account, expectedVersion uint64, tx account.Transaction) error {
	return s.db.WithContext(ctx).Transaction(func(dbTx *gorm.DB) error {
		res := dbTx.Model(&accountModel{}).
			Where("id = ? AND version = ?", a.ID, expectedVersion).
			Updates(map[string]any{
				"balance": a.Balance,
				"version": gorm.Expr("version + 1"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: account %s no longer at version %d",
				domain.ErrConcurrencyConflict, a.ID, expectedVersion)
		}
		m := toTransactionModel(tx)
		return dbTx.Create(&m).Error
	})
}

// ListTransactions implements repository.LedgerStore.
func (s *Store) ListTransactions(ctx context.Context, accountID uuid.UUID) ([]account.Transaction, error) {
	var models []transactionModel
	err := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at, id").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	txs := make([]account.Transaction, 0, len(models))
	for _, m := range models {
		txs = append(txs, toDomainTransaction(m))
	}
	return txs, nil
}

var _ repository.LedgerStore = (*Store)(nil)
