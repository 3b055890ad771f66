package loader

import (
	"context"
	"fmt"

	"bank-branches-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SampleRecords is the small demo dataset used for local setups.
var SampleRecords = []Record{
	{IFSC: "SBIN0000001", BankName: "State Bank of India", Branch: "Mumbai Main Branch", Address: "123 Fort Area, Mumbai", City: "Mumbai", District: "Mumbai", State: "Maharashtra"},
	{IFSC: "HDFC0000001", BankName: "HDFC Bank", Branch: "Delhi Branch", Address: "456 CP, New Delhi", City: "Delhi", District: "Central Delhi", State: "Delhi"},
	{IFSC: "ICIC0000001", BankName: "ICICI Bank", Branch: "Bangalore Branch", Address: "789 MG Road, Bangalore", City: "Bangalore", District: "Bangalore Urban", State: "Karnataka"},
	{IFSC: "UTIB0000001", BankName: "Axis Bank", Branch: "Chennai Branch", Address: "321 Anna Salai, Chennai", City: "Chennai", District: "Chennai", State: "Tamil Nadu"},
	{IFSC: "PUNB0000001", BankName: "Punjab National Bank", Branch: "Chandigarh Branch", Address: "654 Sector 17, Chandigarh", City: "Chandigarh", District: "Chandigarh", State: "Chandigarh"},
	{IFSC: "BARB0000001", BankName: "Bank of Baroda", Branch: "Ahmedabad Branch", Address: "987 CG Road, Ahmedabad", City: "Ahmedabad", District: "Ahmedabad", State: "Gujarat"},
	{IFSC: "KKBK0000001", BankName: "Kotak Mahindra Bank", Branch: "Pune Branch", Address: "147 FC Road, Pune", City: "Pune", District: "Pune", State: "Maharashtra"},
}

// Seed inserts SampleRecords, leaving existing banks and branches untouched.
func Seed(ctx context.Context, db *gorm.DB) (Result, error) {
	var res Result
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bankIDs, err := ensureBanks(tx, SampleRecords)
		if err != nil {
			return err
		}
		res.Banks = len(bankIDs)

		branches := toBranches(SampleRecords, bankIDs)
		created := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "ifsc"}}, DoNothing: true}).
			Create(&branches)
		if created.Error != nil {
			return fmt.Errorf("insert sample branches: %w", created.Error)
		}
		res.Branches = int(created.RowsAffected)
		return nil
	})
	return res, err
}

// ensureBanks returns the id of every bank named in records, creating the
// missing ones in first-seen order.
func ensureBanks(tx *gorm.DB, records []Record) (map[string]int64, error) {
	ids := make(map[string]int64)
	for _, r := range records {
		if _, ok := ids[r.BankName]; ok {
			continue
		}
		bank := models.Bank{Name: r.BankName}
		if err := tx.Where(models.Bank{Name: r.BankName}).FirstOrCreate(&bank).Error; err != nil {
			return nil, fmt.Errorf("bank %q: %w", r.BankName, err)
		}
		ids[r.BankName] = bank.ID
	}
	return ids, nil
}

func toBranches(records []Record, bankIDs map[string]int64) []models.Branch {
	branches := make([]models.Branch, 0, len(records))
	for _, r := range records {
		branches = append(branches, models.Branch{
			IFSC:     r.IFSC,
			BankID:   bankIDs[r.BankName],
			Branch:   r.Branch,
			Address:  optional(r.Address),
			City:     optional(r.City),
			District: optional(r.District),
			State:    optional(r.State),
		})
	}
	return branches
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
