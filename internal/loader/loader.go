// Package loader fills the banks and branches tables from the sample dataset
// or from a bank_branches CSV/XLSX export.
package loader

import (
	"context"
	"fmt"

	"bank-branches-backend/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const batchSize = 500

// Record is one row of a bank_branches export.
type Record struct {
	IFSC     string
	BankName string
	Branch   string
	Address  string
	City     string
	District string
	State    string
}

type Result struct {
	Banks    int
	Branches int
}

type Options struct {
	// Reset deletes all branches and banks before loading.
	Reset bool
}

// Load writes records in one transaction. Banks are created once per
// distinct name; a branch whose IFSC already exists is overwritten.
func Load(ctx context.Context, db *gorm.DB, records []Record, opts Options) (Result, error) {
	var res Result
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if opts.Reset {
			if err := reset(tx); err != nil {
				return err
			}
		}

		bankIDs, err := ensureBanks(tx, records)
		if err != nil {
			return err
		}
		res.Banks = len(bankIDs)

		branches := toBranches(records, bankIDs)
		if len(branches) == 0 {
			return nil
		}
		err = tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "ifsc"}},
				DoUpdates: clause.AssignmentColumns([]string{"bank_id", "branch", "address", "city", "district", "state"}),
			}).
			CreateInBatches(&branches, batchSize).Error
		if err != nil {
			return fmt.Errorf("insert branches: %w", err)
		}
		res.Branches = len(branches)
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	log.Info().Int("banks", res.Banks).Int("branches", res.Branches).Bool("reset", opts.Reset).Msg("bank branches loaded")
	return res, nil
}

func reset(tx *gorm.DB) error {
	log.Info().Msg("clearing existing data")
	if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Branch{}).Error; err != nil {
		return fmt.Errorf("delete branches: %w", err)
	}
	if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Bank{}).Error; err != nil {
		return fmt.Errorf("delete banks: %w", err)
	}
	if tx.Dialector.Name() == "postgres" {
		if err := tx.Exec("ALTER SEQUENCE banks_id_seq RESTART WITH 1").Error; err != nil {
			return fmt.Errorf("reset banks sequence: %w", err)
		}
	}
	return nil
}
