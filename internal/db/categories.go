package db

import (
	"context" // Request scoped queries

	"finance_tracker/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// CreateCategory inserts a category. Names are unique across all users.
func (s *Store) CreateCategory(ctx context.Context, category *domain.Category) error {
	return translate("create category", s.db.WithContext(ctx).Create(category).Error)
}

// ListCategories returns the categories owned by a user
func (s *Store) ListCategories(ctx context.Context, userID uint) ([]domain.Category, error) {
	categories := []domain.Category{}
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&categories).Error
	if err != nil {
		return nil, translate("list categories", err)
	}
	return categories, nil
}

// FindCategory loads a category only if it belongs to the user
func (s *Store) FindCategory(ctx context.Context, userID, categoryID uint) (*domain.Category, error) {
	var category domain.Category
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error
	if err != nil {
		return nil, translate("find category", err)
	}
	return &category, nil
}

// RenameCategory changes the category name
func (s *Store) RenameCategory(ctx context.Context, categoryID uint, name string) error {
	err := s.db.WithContext(ctx).Model(&domain.Category{}).Where("id = ?", categoryID).Update("name", name).Error
	return translate("rename category", err)
}

// DeleteCategory removes a category
func (s *Store) DeleteCategory(ctx context.Context, categoryID uint) error {
	return translate("delete category", s.db.WithContext(ctx).Delete(&domain.Category{}, categoryID).Error)
}

// CountCategoryTransactions counts transactions tagged with a category
func (s *Store) CountCategoryTransactions(ctx context.Context, categoryID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Table("category_transactions").Where("category_id = ?", categoryID).Count(&n).Error
	return n, translate("count category transactions", err)
}

// CategoriesForStatistics selects the matching category ids first, then preloads only the
// transactions on the requested bank within the period.
func (s *Store) CategoriesForStatistics(ctx context.Context, q domain.StatisticsQuery) ([]domain.Category, error) {
	categories := []domain.Category{}
	if len(q.CategoryIDs) == 0 {
		return categories, nil
	}
	db := s.db.WithContext(ctx)

	var ids []uint
	err := db.Model(&domain.Category{}).
		Distinct("categories.id").
		Joins("JOIN category_transactions ON category_transactions.category_id = categories.id").
		Joins("JOIN transactions ON transactions.id = category_transactions.transaction_id").
		Where("categories.user_id = ? AND categories.id IN ?", q.UserID, q.CategoryIDs).
		Where("transactions.bank_id = ? AND transactions.created_at BETWEEN ? AND ?", q.BankID, q.From, q.To).
		Order("categories.id").
		Pluck("categories.id", &ids).Error
	if err != nil {
		return nil, translate("select statistics categories", err)
	}
	if len(ids) == 0 {
		return categories, nil
	}

	err = db.Where("id IN ?", ids).
		Order("id").
		Preload("Transactions", func(tx *gorm.DB) *gorm.DB {
			return tx.Where("transactions.bank_id = ? AND transactions.created_at BETWEEN ? AND ?", q.BankID, q.From, q.To).
				Order("transactions.id")
		}).
		Find(&categories).Error
	if err != nil {
		return nil, translate("load statistics categories", err)
	}
	return categories, nil
}
