// Package dbtest opens throwaway migrated databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"finance_tracker/internal/config"
	"finance_tracker/internal/db"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// Open returns a migrated SQLite database stored under t.TempDir().
// A single connection is used so the transaction and the lookups around it never race for the file lock.
func Open(tb testing.TB) *gorm.DB {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "finance.db")
	gdb, err := gorm.Open(sqlite.Open(path), db.NewGormConfig())
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		tb.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return gdb
}

// OpenServer connects to the MySQL or Postgres database named by the usual DB_* variables
// and migrates it. The test is skipped when DB_NAME is unset. Rows are not cleaned up.
func OpenServer(tb testing.TB) *gorm.DB {
	tb.Helper()

	cfg := config.LoadConfig()
	if cfg.DBName == "" {
		tb.Skip("DB_NAME not set, skipping test against a database server")
	}
	gdb, err := db.Open(cfg)
	if err != nil {
		tb.Fatalf("open %s: %v", cfg.DBDriver, err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		tb.Fatalf("sql handle: %v", err)
	}
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return gdb
}
