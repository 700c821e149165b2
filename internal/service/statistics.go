package service

import (
	"context"
	"errors"
	"time"

	"finance_tracker/internal/domain"

	"github.com/shopspring/decimal"
)

// StatisticsInput is the body of the bank statistics request.
// Periods accept YYYY-MM-DD or RFC3339. A date-only ToPeriod includes that whole day.
type StatisticsInput struct {
	CategoryIDs []uint `json:"categoryIds" validate:"required,min=1,dive,gt=0"`
	FromPeriod  string `json:"fromPeriod" validate:"required"`
	ToPeriod    string `json:"toPeriod" validate:"required"`
}

// CategoryTotal maps a category name to its signed total
type CategoryTotal map[string]decimal.Decimal

// StatisticsService aggregates transaction totals per category
type StatisticsService struct {
	banks      domain.BankRepository
	categories domain.CategoryRepository
}

// NewStatisticsService creates a StatisticsService
func NewStatisticsService(banks domain.BankRepository, categories domain.CategoryRepository) *StatisticsService {
	return &StatisticsService{banks: banks, categories: categories}
}

// BankStatistics returns one {name: total} entry per requested category that has transactions
// on the bank inside the period, ordered by category id. Profitable amounts count positive and
// consumable amounts negative.
func (s *StatisticsService) BankStatistics(ctx context.Context, userID, bankID uint, in StatisticsInput) ([]CategoryTotal, error) {
	if _, err := s.banks.FindBank(ctx, userID, bankID); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrBankNotFound
		}
		return nil, err
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	from, err := parsePeriod(in.FromPeriod, false)
	if err != nil {
		return nil, invalid("fromPeriod", "date", "Expected YYYY-MM-DD or RFC3339")
	}
	to, err := parsePeriod(in.ToPeriod, true)
	if err != nil {
		return nil, invalid("toPeriod", "date", "Expected YYYY-MM-DD or RFC3339")
	}
	if from.After(to) {
		return nil, invalid("fromPeriod", "ltefield", "fromPeriod must not be after toPeriod")
	}

	categories, err := s.categories.CategoriesForStatistics(ctx, domain.StatisticsQuery{
		UserID:      userID,
		BankID:      bankID,
		CategoryIDs: uniqueIDs(in.CategoryIDs),
		From:        from,
		To:          to,
	})
	if err != nil {
		return nil, err
	}
	return Totals(categories), nil
}

// Totals reduces each category's transactions to a signed sum. The result is never nil.
func Totals(categories []domain.Category) []CategoryTotal {
	out := make([]CategoryTotal, 0, len(categories))
	for _, c := range categories {
		total := decimal.Zero
		for _, tx := range c.Transactions {
			total = total.Add(tx.Type.Signed(tx.Amount))
		}
		out = append(out, CategoryTotal{c.Name: total})
	}
	return out
}

// parsePeriod reads a date or timestamp. With endOfDay, a bare date becomes its last instant.
func parsePeriod(value string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t, nil
}
