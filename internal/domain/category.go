package domain

import "time"

// Category Model
type Category struct {
	ID           uint          `gorm:"primaryKey" json:"id"`                      // Primary key
	Name         string        `gorm:"uniqueIndex;size:100;not null" json:"name"` // Globally unique name
	CreatedAt    time.Time     `json:"createdAt"`                                 // Creation time
	UserID       uint          `gorm:"index;not null" json:"-"`                   // Owner
	Transactions []Transaction `gorm:"many2many:category_transactions;" json:"-"` // Tagged transactions
}
