package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repositories return ErrRecordNotFound when a scoped lookup matches nothing and
// ErrDuplicateKey on unique constraint violations. Every other failure wraps ErrStorageFailure.

// UserRepository persists users and their refresh-token hashes
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	FindUserByID(ctx context.Context, id uint) (*User, error)
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	SetRefreshTokenHash(ctx context.Context, userID uint, hash *string) error
	RotateRefreshTokenHash(ctx context.Context, userID uint, oldHash, newHash string) error
	UpdateUserEmail(ctx context.Context, userID uint, email string) error
}

// BankRepository persists banks. Balances are only written through LedgerTx.
type BankRepository interface {
	CreateBank(ctx context.Context, bank *Bank) error
	ListBanks(ctx context.Context, userID uint) ([]Bank, error)
	FindBank(ctx context.Context, userID, bankID uint) (*Bank, error)
	RenameBank(ctx context.Context, bankID uint, name string) error
	DeleteBank(ctx context.Context, bankID uint) error
	CountBankTransactions(ctx context.Context, bankID uint) (int64, error)
}

// CategoryRepository persists categories
type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *Category) error
	ListCategories(ctx context.Context, userID uint) ([]Category, error)
	FindCategory(ctx context.Context, userID, categoryID uint) (*Category, error)
	RenameCategory(ctx context.Context, categoryID uint, name string) error
	DeleteCategory(ctx context.Context, categoryID uint) error
	CountCategoryTransactions(ctx context.Context, categoryID uint) (int64, error)
	// CategoriesForStatistics returns the user's categories from q.CategoryIDs that have at
	// least one transaction on q.BankID created within [q.From, q.To]. Each category carries
	// only those transactions. Ordered by category id.
	CategoriesForStatistics(ctx context.Context, q StatisticsQuery) ([]Category, error)
}

// TransactionRepository reads committed transactions
type TransactionRepository interface {
	ListTransactions(ctx context.Context, userID, bankID uint, page Page) ([]Transaction, error)
	FindTransaction(ctx context.Context, userID, bankID, transactionID uint) (*Transaction, error)
}

// LedgerTx is the write side of the ledger, valid only inside Ledger.Atomically
type LedgerTx interface {
	// LockBank reads the bank and holds a write lock on its row until the unit ends
	LockBank(ctx context.Context, bankID uint) (*Bank, error)
	UpdateBankBalance(ctx context.Context, bankID uint, balance decimal.Decimal) error
	// InsertTransaction stores tx with its category associations. tx.ID is set on return.
	InsertTransaction(ctx context.Context, tx *Transaction) error
	RemoveTransaction(ctx context.Context, transactionID uint) error
}

// Ledger runs fn as one all-or-nothing unit. If fn returns an error nothing it wrote is kept.
type Ledger interface {
	Atomically(ctx context.Context, fn func(tx LedgerTx) error) error
}

// StatisticsQuery scopes CategoriesForStatistics
type StatisticsQuery struct {
	UserID      uint
	BankID      uint
	CategoryIDs []uint
	From        time.Time
	To          time.Time
}
