package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType tells whether a transaction takes money out of a bank or brings it in
type TransactionType int

const (
	Consumable TransactionType = 0 // Money spent
	Profitable TransactionType = 1 // Money earned
)

// Valid reports whether t is a known transaction type
func (t TransactionType) Valid() bool {
	return t == Consumable || t == Profitable
}

func (t TransactionType) String() string {
	switch t {
	case Consumable:
		return "consumable"
	case Profitable:
		return "profitable"
	default:
		return "unknown"
	}
}

// Signed returns the amount with the sign it contributes to a balance
func (t TransactionType) Signed(amount decimal.Decimal) decimal.Decimal {
	if t == Profitable {
		return amount
	}
	return amount.Neg()
}

// Transaction Model
type Transaction struct {
	ID         uint            `gorm:"primaryKey" json:"id"`                               // Primary key
	Amount     decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`          // Always positive
	Type       TransactionType `gorm:"not null" json:"type"`                               // Consumable or Profitable
	CreatedAt  time.Time       `gorm:"index" json:"createdAt"`                             // Creation time
	BankID     uint            `gorm:"index;not null" json:"bankId"`                       // Owning bank
	Categories []Category      `gorm:"many2many:category_transactions;" json:"categories"` // At least one
}

// Page slices a listing. A nil Take means no upper bound.
type Page struct {
	Skip int  // Rows to skip
	Take *int // Maximum rows to return
}
