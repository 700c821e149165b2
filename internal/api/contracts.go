package api

import (
	"context" // Request scoped calls

	"finance_tracker/internal/domain"  // Domain models
	"finance_tracker/internal/service" // Service inputs
)

// AuthAPI is the part of service.AuthService the auth handlers use
type AuthAPI interface {
	Register(ctx context.Context, in service.Credentials) (domain.AuthTokenPair, error)
	Login(ctx context.Context, in service.Credentials) (domain.AuthTokenPair, error)
	Refresh(ctx context.Context, principal domain.RefreshPrincipal) (domain.AuthTokenPair, error)
	Logout(ctx context.Context, userID uint) error
}

// UserAPI serves the signed-in user's profile
type UserAPI interface {
	Me(ctx context.Context, userID uint) (*domain.User, error)
	UpdateEmail(ctx context.Context, userID uint, in service.UpdateUserInput) (*domain.User, error)
}

// BankAPI manages banks
type BankAPI interface {
	Create(ctx context.Context, userID uint, in service.NameInput) (*domain.Bank, error)
	List(ctx context.Context, userID uint) ([]domain.Bank, error)
	Get(ctx context.Context, userID, bankID uint) (*domain.Bank, error)
	Rename(ctx context.Context, userID, bankID uint, in service.NameInput) (*domain.Bank, error)
	Delete(ctx context.Context, userID, bankID uint) error
}

// CategoryAPI manages categories
type CategoryAPI interface {
	Create(ctx context.Context, userID uint, in service.NameInput) (*domain.Category, error)
	List(ctx context.Context, userID uint) ([]domain.Category, error)
	Get(ctx context.Context, userID, categoryID uint) (*domain.Category, error)
	Rename(ctx context.Context, userID, categoryID uint, in service.NameInput) (*domain.Category, error)
	Delete(ctx context.Context, userID, categoryID uint) error
}

// TransactionAPI records, lists and deletes transactions
type TransactionAPI interface {
	Create(ctx context.Context, in service.CreateTransactionInput) (*domain.Transaction, error)
	List(ctx context.Context, userID, bankID uint, page domain.Page) ([]domain.Transaction, error)
	Delete(ctx context.Context, userID, bankID, transactionID uint) error
}

// StatisticsAPI aggregates per category totals
type StatisticsAPI interface {
	BankStatistics(ctx context.Context, userID, bankID uint, in service.StatisticsInput) ([]service.CategoryTotal, error)
}

// PageCache caches JSON responses and the version counters their keys embed.
// utils.Cache implements it.
type PageCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	DeletePrefix(ctx context.Context, prefix string) error
	Version(ctx context.Context, key string) (int64, error)
	Bump(ctx context.Context, key string) error
}

var (
	_ AuthAPI        = (*service.AuthService)(nil)
	_ UserAPI        = (*service.UserService)(nil)
	_ BankAPI        = (*service.BankService)(nil)
	_ CategoryAPI    = (*service.CategoryService)(nil)
	_ TransactionAPI = (*service.TransactionService)(nil)
	_ StatisticsAPI  = (*service.StatisticsService)(nil)
)
