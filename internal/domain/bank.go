package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxAmount is the exclusive bound of a decimal(14,2) column
var MaxAmount = decimal.New(1, 12)

// Bank Model
type Bank struct {
	ID           uint            `gorm:"primaryKey" json:"id"`                                 // Primary key
	Name         string          `gorm:"size:100;not null" json:"name"`                        // Display name
	Balance      decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"balance"` // Current balance
	CreatedAt    time.Time       `json:"createdAt"`                                            // Creation time
	UserID       uint            `gorm:"index;not null" json:"-"`                              // Owner
	Transactions []Transaction   `gorm:"constraint:OnDelete:RESTRICT;" json:"-"`               // Transactions against this bank
}
