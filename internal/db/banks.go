package db

import (
	"context" // Request scoped queries

	"finance_tracker/internal/domain" // Importing domain models
)

// CreateBank inserts a bank
func (s *Store) CreateBank(ctx context.Context, bank *domain.Bank) error {
	return translate("create bank", s.db.WithContext(ctx).Create(bank).Error)
}

// ListBanks returns the banks owned by a user
func (s *Store) ListBanks(ctx context.Context, userID uint) ([]domain.Bank, error) {
	banks := []domain.Bank{}
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&banks).Error
	if err != nil {
		return nil, translate("list banks", err)
	}
	return banks, nil
}

// FindBank loads a bank only if it belongs to the user
func (s *Store) FindBank(ctx context.Context, userID, bankID uint) (*domain.Bank, error) {
	var bank domain.Bank
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", bankID, userID).First(&bank).Error
	if err != nil {
		return nil, translate("find bank", err)
	}
	return &bank, nil
}

// RenameBank changes the bank name. The balance column is never touched here.
func (s *Store) RenameBank(ctx context.Context, bankID uint, name string) error {
	err := s.db.WithContext(ctx).Model(&domain.Bank{}).Where("id = ?", bankID).Update("name", name).Error
	return translate("rename bank", err)
}

// DeleteBank removes a bank
func (s *Store) DeleteBank(ctx context.Context, bankID uint) error {
	return translate("delete bank", s.db.WithContext(ctx).Delete(&domain.Bank{}, bankID).Error)
}

// CountBankTransactions counts transactions recorded against a bank
func (s *Store) CountBankTransactions(ctx context.Context, bankID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&domain.Transaction{}).Where("bank_id = ?", bankID).Count(&n).Error
	return n, translate("count bank transactions", err)
}
