package db

import (
	"fmt" // Error wrapping

	"finance_tracker/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logrus for structured logging
	"gorm.io/gorm"               // GORM ORM library
)

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate creates tables, the category_transactions join table, foreign keys and indexes
	err := db.AutoMigrate(&domain.User{}, &domain.Bank{}, &domain.Category{}, &domain.Transaction{})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}
