package service

import (
	"context"
	"errors"

	"finance_tracker/internal/domain"

	"github.com/sirupsen/logrus"
)

// NameInput is the body used to create or rename banks and categories
type NameInput struct {
	Name string `json:"name" validate:"required,max=100"`
}

// BankService manages the banks a user owns. Balances change only through TransactionService.
type BankService struct {
	banks domain.BankRepository
}

func NewBankService(banks domain.BankRepository) *BankService {
	return &BankService{banks: banks}
}

// Create opens a bank with a zero balance
func (s *BankService) Create(ctx context.Context, userID uint, in NameInput) (*domain.Bank, error) {
	in.Name = normalizeName(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	bank := &domain.Bank{Name: in.Name, UserID: userID}
	if err := s.banks.CreateBank(ctx, bank); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"user_id": userID, "bank_id": bank.ID}).Info("Bank created")
	return bank, nil
}

func (s *BankService) List(ctx context.Context, userID uint) ([]domain.Bank, error) {
	return s.banks.ListBanks(ctx, userID)
}

func (s *BankService) Get(ctx context.Context, userID, bankID uint) (*domain.Bank, error) {
	bank, err := s.banks.FindBank(ctx, userID, bankID)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return nil, domain.ErrBankNotFound
	}
	return bank, err
}

func (s *BankService) Rename(ctx context.Context, userID, bankID uint, in NameInput) (*domain.Bank, error) {
	in.Name = normalizeName(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	bank, err := s.Get(ctx, userID, bankID)
	if err != nil {
		return nil, err
	}
	if err := s.banks.RenameBank(ctx, bank.ID, in.Name); err != nil {
		return nil, err
	}
	bank.Name = in.Name
	return bank, nil
}

// Delete removes a bank that has no transactions
func (s *BankService) Delete(ctx context.Context, userID, bankID uint) error {
	bank, err := s.Get(ctx, userID, bankID)
	if err != nil {
		return err
	}
	n, err := s.banks.CountBankTransactions(ctx, bank.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrBankInUse
	}
	if err := s.banks.DeleteBank(ctx, bank.ID); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"user_id": userID, "bank_id": bank.ID}).Info("Bank deleted")
	return nil
}
