package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finance_tracker/internal/domain"
	"finance_tracker/internal/events"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// EventPublisher writes ledger events to a stream
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, string, any) error { return nil }

// CreateTransactionInput carries everything needed to record a transaction
type CreateTransactionInput struct {
	Amount      *decimal.Decimal        `json:"amount" validate:"required,money"`
	Type        *domain.TransactionType `json:"type" validate:"required,txtype"`
	BankID      uint                    `json:"bankId" validate:"gt=0"`
	UserID      uint                    `json:"userId" validate:"gt=0"`
	CategoryIDs []uint                  `json:"categoryIds" validate:"required,min=1,dive,gt=0"`
}

// Validate checks the input shape before any lookup happens
func (in CreateTransactionInput) Validate() error {
	return validateStruct(in)
}

// TransactionService records and removes transactions while keeping bank balances in step
type TransactionService struct {
	users        domain.UserRepository
	banks        domain.BankRepository
	categories   domain.CategoryRepository
	transactions domain.TransactionRepository
	ledger       domain.Ledger
	events       EventPublisher
}

// NewTransactionService creates a TransactionService. A nil publisher disables events.
func NewTransactionService(
	users domain.UserRepository,
	banks domain.BankRepository,
	categories domain.CategoryRepository,
	transactions domain.TransactionRepository,
	ledger domain.Ledger,
	publisher EventPublisher,
) *TransactionService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &TransactionService{
		users:        users,
		banks:        banks,
		categories:   categories,
		transactions: transactions,
		ledger:       ledger,
		events:       publisher,
	}
}

// Create records a transaction and applies it to the bank balance in one atomic unit.
// Balances may go negative.
func (s *TransactionService) Create(ctx context.Context, in CreateTransactionInput) (*domain.Transaction, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	amount, typ := *in.Amount, *in.Type

	user, err := s.users.FindUserByID(ctx, in.UserID)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return nil, domain.ErrIdentityNotFound
	}
	if err != nil {
		return nil, err
	}

	categories := make([]domain.Category, 0, len(in.CategoryIDs))
	for _, id := range uniqueIDs(in.CategoryIDs) {
		category, err := s.categories.FindCategory(ctx, user.ID, id)
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", domain.ErrCategoryNotFound, id)
		}
		if err != nil {
			return nil, err
		}
		categories = append(categories, *category)
	}

	bank, err := s.banks.FindBank(ctx, user.ID, in.BankID)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return nil, domain.ErrBankNotFound
	}
	if err != nil {
		return nil, err
	}

	tx := &domain.Transaction{
		Amount:     amount,
		Type:       typ,
		BankID:     bank.ID,
		Categories: categories,
	}
	var newBalance decimal.Decimal
	err = s.ledger.Atomically(ctx, func(ltx domain.LedgerTx) error {
		locked, err := ltx.LockBank(ctx, bank.ID)
		if err != nil {
			return err
		}
		newBalance = locked.Balance.Add(typ.Signed(amount))
		if err := checkBalance(newBalance); err != nil {
			return err
		}
		if err := ltx.UpdateBankBalance(ctx, bank.ID, newBalance); err != nil {
			return err
		}
		return ltx.InsertTransaction(ctx, tx)
	})
	if errors.Is(err, domain.ErrValidation) {
		return nil, err
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,
			"bank_id": bank.ID,
			"amount":  amount.String(),
			"type":    typ.String(),
			"error":   err.Error(),
		}).Error("Transaction failed")
		return nil, fmt.Errorf("%w: %w", domain.ErrAtomicUnitAborted, err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":        user.ID,
		"bank_id":        bank.ID,
		"transaction_id": tx.ID,
		"amount":         amount.String(),
		"type":           typ.String(),
		"balance":        newBalance.String(),
		"timestamp":      time.Now().Format(time.RFC3339),
	}).Info("Transaction recorded")

	s.publish(ctx, events.TransactionCreated, events.TransactionCreatedEvent{
		TransactionID: tx.ID,
		BankID:        bank.ID,
		UserID:        user.ID,
		Amount:        amount,
		Type:          typ.String(),
		CategoryIDs:   categoryIDs(categories),
	})
	s.publish(ctx, events.BalanceUpdated, events.BalanceUpdatedEvent{
		BankID:     bank.ID,
		NewBalance: newBalance,
		Change:     typ.Signed(amount),
	})
	return tx, nil
}

// List returns a page of the bank's transactions ordered by id
func (s *TransactionService) List(ctx context.Context, userID, bankID uint, page domain.Page) ([]domain.Transaction, error) {
	if page.Skip < 0 {
		return nil, invalid("skip", "gte", "Value must be greater than or equal to 0")
	}
	if page.Take != nil && *page.Take < 1 {
		return nil, invalid("take", "gte", "Value must be greater than or equal to 1")
	}
	return s.transactions.ListTransactions(ctx, userID, bankID, page)
}

// Delete removes a transaction and reverses its effect on the bank balance
func (s *TransactionService) Delete(ctx context.Context, userID, bankID, transactionID uint) error {
	existing, err := s.transactions.FindTransaction(ctx, userID, bankID, transactionID)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return domain.ErrTransactionNotFound
	}
	if err != nil {
		return err
	}

	change := existing.Type.Signed(existing.Amount).Neg()
	var newBalance decimal.Decimal
	err = s.ledger.Atomically(ctx, func(ltx domain.LedgerTx) error {
		locked, err := ltx.LockBank(ctx, existing.BankID)
		if err != nil {
			return err
		}
		if err := ltx.RemoveTransaction(ctx, existing.ID); err != nil {
			return err
		}
		newBalance = locked.Balance.Add(change)
		if err := checkBalance(newBalance); err != nil {
			return err
		}
		return ltx.UpdateBankBalance(ctx, existing.BankID, newBalance)
	})
	if errors.Is(err, domain.ErrRecordNotFound) {
		return domain.ErrTransactionNotFound // Deleted by a concurrent request
	}
	if errors.Is(err, domain.ErrValidation) {
		return err
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id":        userID,
			"bank_id":        existing.BankID,
			"transaction_id": existing.ID,
			"error":          err.Error(),
		}).Error("Transaction delete failed")
		return fmt.Errorf("%w: %w", domain.ErrAtomicUnitAborted, err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":        userID,
		"bank_id":        existing.BankID,
		"transaction_id": existing.ID,
		"balance":        newBalance.String(),
	}).Info("Transaction deleted")

	s.publish(ctx, events.TransactionDeleted, events.TransactionDeletedEvent{
		TransactionID: existing.ID,
		BankID:        existing.BankID,
		UserID:        userID,
		Amount:        existing.Amount,
		Type:          existing.Type.String(),
	})
	s.publish(ctx, events.BalanceUpdated, events.BalanceUpdatedEvent{
		BankID:     existing.BankID,
		NewBalance: newBalance,
		Change:     change,
	})
	return nil
}

// publish is best effort. The ledger is already committed when it runs.
func (s *TransactionService) publish(ctx context.Context, eventType string, data any) {
	if err := s.events.Publish(ctx, events.LedgerStream, eventType, data); err != nil {
		logrus.WithFields(logrus.Fields{"event": eventType, "error": err.Error()}).Warn("Failed to publish event")
	}
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func categoryIDs(categories []domain.Category) []uint {
	ids := make([]uint, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}
	return ids
}
