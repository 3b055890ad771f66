// Package databasetest opens throwaway in-memory SQLite databases with the
// catalog schema for tests.
package databasetest

import (
	"context"
	"testing"

	"bank-branches-backend/internal/config"
	"bank-branches-backend/internal/database"
	"bank-branches-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DSN keeps LIKE case-sensitive, as it is on Postgres.
const DSN = "file::memory:?_cslike=true&_foreign_keys=true"

// Open returns a migrated, empty database closed when the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(context.Background(), config.DatabaseConfig{Driver: "sqlite", DSN: DSN})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// OpenSeeded returns a database holding Banks and Branches.
func OpenSeeded(t testing.TB) *gorm.DB {
	t.Helper()
	db := Open(t)
	Insert(t, db, append([]models.Bank(nil), Banks...), append([]models.Branch(nil), Branches...))
	return db
}

func Insert(t testing.TB, db *gorm.DB, banks []models.Bank, branches []models.Branch) {
	t.Helper()
	if len(banks) > 0 {
		if err := db.Create(&banks).Error; err != nil {
			t.Fatalf("insert banks: %v", err)
		}
	}
	if len(branches) > 0 {
		if err := db.Omit(clause.Associations).CreateInBatches(&branches, 100).Error; err != nil {
			t.Fatalf("insert branches: %v", err)
		}
	}
}

func str(s string) *string { return &s }

var Banks = []models.Bank{
	{ID: 1, Name: "State Bank of India"},
	{ID: 2, Name: "HDFC Bank"},
	{ID: 3, Name: "ICICI Bank"},
}

// Branches in listing order (bank name, then branch name):
// HDFC0000002, HDFC0000001, ICIC0000001, SBIN0000002, SBIN0000001, SBIN0000230.
var Branches = []models.Branch{
	{IFSC: "SBIN0000001", BankID: 1, Branch: "Mumbai Main Branch", Address: str("123 Fort Area, Mumbai"), City: str("Mumbai"), District: str("Mumbai"), State: str("Maharashtra")},
	{IFSC: "SBIN0000002", BankID: 1, Branch: "Ahmedabad Branch", Address: str("987 CG Road, Ahmedabad"), City: str("Ahmedabad"), District: str("Ahmedabad"), State: str("Gujarat")},
	{IFSC: "SBIN0000230", BankID: 1, Branch: "Pune Branch", Address: str("147 FC Road, Pune"), City: str("Pune"), District: str("Pune"), State: str("Maharashtra")},
	{IFSC: "HDFC0000001", BankID: 2, Branch: "Delhi Branch", Address: str("456 CP, New Delhi"), City: str("Delhi"), District: str("Central Delhi"), State: str("Delhi")},
	{IFSC: "HDFC0000002", BankID: 2, Branch: "Andheri Branch", Address: str("12 SV Road, Andheri"), City: str("Mumbai"), District: str("Mumbai Suburban"), State: str("Maharashtra")},
	{IFSC: "ICIC0000001", BankID: 3, Branch: "Bangalore Branch", City: str("Bangalore"), State: str("Karnataka")},
}
