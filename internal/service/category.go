package service

import (
	"context"
	"errors"

	"finance_tracker/internal/domain"

	"github.com/sirupsen/logrus"
)

// CategoryService manages transaction categories. Names are unique across all users.
type CategoryService struct {
	categories domain.CategoryRepository
}

func NewCategoryService(categories domain.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) Create(ctx context.Context, userID uint, in NameInput) (*domain.Category, error) {
	in.Name = normalizeName(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	category := &domain.Category{Name: in.Name, UserID: userID}
	if err := s.categories.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, domain.ErrCategoryExists
		}
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"user_id": userID, "category_id": category.ID}).Info("Category created")
	return category, nil
}

func (s *CategoryService) List(ctx context.Context, userID uint) ([]domain.Category, error) {
	return s.categories.ListCategories(ctx, userID)
}

func (s *CategoryService) Get(ctx context.Context, userID, categoryID uint) (*domain.Category, error) {
	category, err := s.categories.FindCategory(ctx, userID, categoryID)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return nil, domain.ErrCategoryNotFound
	}
	return category, err
}

func (s *CategoryService) Rename(ctx context.Context, userID, categoryID uint, in NameInput) (*domain.Category, error) {
	in.Name = normalizeName(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	category, err := s.Get(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}
	if err := s.categories.RenameCategory(ctx, category.ID, in.Name); err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, domain.ErrCategoryExists
		}
		return nil, err
	}
	category.Name = in.Name
	return category, nil
}

// Delete removes a category no transaction is tagged with
func (s *CategoryService) Delete(ctx context.Context, userID, categoryID uint) error {
	category, err := s.Get(ctx, userID, categoryID)
	if err != nil {
		return err
	}
	n, err := s.categories.CountCategoryTransactions(ctx, category.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrCategoryInUse
	}
	if err := s.categories.DeleteCategory(ctx, category.ID); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"user_id": userID, "category_id": category.ID}).Info("Category deleted")
	return nil
}
