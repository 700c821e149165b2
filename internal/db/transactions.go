package db

import (
	"context" // Request scoped queries
	"math"    // Unbounded page limit

	"finance_tracker/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// ownedTransactions scopes a query to transactions of a bank owned by the user
func (s *Store) ownedTransactions(ctx context.Context, userID, bankID uint) *gorm.DB {
	return s.db.WithContext(ctx).
		Joins("JOIN banks ON banks.id = transactions.bank_id").
		Where("banks.user_id = ? AND transactions.bank_id = ?", userID, bankID).
		Preload("Categories", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("categories.id")
		})
}

// ListTransactions returns a page of transactions ordered by id
func (s *Store) ListTransactions(ctx context.Context, userID, bankID uint, page domain.Page) ([]domain.Transaction, error) {
	q := s.ownedTransactions(ctx, userID, bankID).Order("transactions.id")
	if page.Take != nil {
		q = q.Limit(*page.Take)
	} else if page.Skip > 0 {
		q = q.Limit(math.MaxInt32) // MySQL rejects OFFSET without LIMIT
	}
	if page.Skip > 0 {
		q = q.Offset(page.Skip)
	}
	transactions := []domain.Transaction{}
	if err := q.Find(&transactions).Error; err != nil {
		return nil, translate("list transactions", err)
	}
	return transactions, nil
}

// FindTransaction loads one transaction of a bank owned by the user
func (s *Store) FindTransaction(ctx context.Context, userID, bankID, transactionID uint) (*domain.Transaction, error) {
	var tx domain.Transaction
	err := s.ownedTransactions(ctx, userID, bankID).
		Where("transactions.id = ?", transactionID).
		First(&tx).Error
	if err != nil {
		return nil, translate("find transaction", err)
	}
	return &tx, nil
}
