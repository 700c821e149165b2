package db

import (
	"context" // Request scoped queries
	"errors"  // Error matching
	"fmt"     // Error wrapping
	"strings" // Driver message matching

	"finance_tracker/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Fixed point balances
	"gorm.io/gorm"                  // GORM ORM library
	"gorm.io/gorm/clause"           // Row locking
)

// Store implements every domain repository on top of GORM.
// Inside Atomically the same type is bound to the open transaction.
type Store struct {
	db *gorm.DB
}

var (
	_ domain.UserRepository        = (*Store)(nil)
	_ domain.BankRepository        = (*Store)(nil)
	_ domain.CategoryRepository    = (*Store)(nil)
	_ domain.TransactionRepository = (*Store)(nil)
	_ domain.Ledger                = (*Store)(nil)
	_ domain.LedgerTx              = (*Store)(nil)
)

// NewStore creates a Store
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Atomically runs fn inside a database transaction. Returning an error rolls everything back.
func (s *Store) Atomically(ctx context.Context, fn func(tx domain.LedgerTx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx}) // Bind the store to the transaction
	})
}

// LockBank loads the bank with SELECT ... FOR UPDATE
func (s *Store) LockBank(ctx context.Context, bankID uint) (*domain.Bank, error) {
	var bank domain.Bank
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}). // Hold the row until commit
		First(&bank, bankID).Error
	if err != nil {
		return nil, translate("lock bank", err)
	}
	return &bank, nil
}

// UpdateBankBalance overwrites the stored balance
func (s *Store) UpdateBankBalance(ctx context.Context, bankID uint, balance decimal.Decimal) error {
	err := s.db.WithContext(ctx).Model(&domain.Bank{}).
		Where("id = ?", bankID).
		Update("balance", balance).Error
	return translate("update balance", err)
}

// InsertTransaction stores the transaction row and its category_transactions rows.
// Categories must already exist and are never upserted.
func (s *Store) InsertTransaction(ctx context.Context, tx *domain.Transaction) error {
	err := s.db.WithContext(ctx).Omit("Categories.*").Create(tx).Error
	return translate("insert transaction", err)
}

// RemoveTransaction deletes the transaction and its category links
func (s *Store) RemoveTransaction(ctx context.Context, transactionID uint) error {
	db := s.db.WithContext(ctx)
	if err := db.Exec("DELETE FROM category_transactions WHERE transaction_id = ?", transactionID).Error; err != nil {
		return translate("unlink categories", err)
	}
	res := db.Delete(&domain.Transaction{}, transactionID)
	if res.Error != nil {
		return translate("delete transaction", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecordNotFound // Removed concurrently
	}
	return nil
}

// translate maps GORM errors onto the repository error contract
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrRecordNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return domain.ErrDuplicateKey // SQLite may report unique violations untranslated
	default:
		return fmt.Errorf("%w: %s: %v", domain.ErrStorageFailure, op, err)
	}
}
