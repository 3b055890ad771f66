package cli

import (
	"fmt"

	"bank-branches-backend/internal/database"
	"bank-branches-backend/internal/loader"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the banks and branches tables and the bank_branches view",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return withDatabase(cmd.Context(), cfg, func(db *gorm.DB) error {
			if err := database.Migrate(db); err != nil {
				return err
			}
			log.Info().Msg("migration completed")
			return nil
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the sample banks and branches",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return withDatabase(cmd.Context(), cfg, func(db *gorm.DB) error {
			if err := database.Migrate(db); err != nil {
				return err
			}
			res, err := loader.Seed(cmd.Context(), db)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d banks, inserted %d new branches\n", res.Banks, res.Branches)
			return nil
		})
	},
}

var (
	loadFile  string
	loadReset bool
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load banks and branches from a bank_branches CSV or XLSX file",
	Long: `Load banks and branches from a bank_branches export.

The first row must name the columns; ifsc, bank_name and branch are required,
address, city, district and state are optional.

Examples:
  bank-branches load --file bank_branches.csv
  bank-branches load --file bank_branches.xlsx --reset`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		records, err := loader.ReadFile(loadFile)
		if err != nil {
			return fmt.Errorf("%s: %w", loadFile, err)
		}

		return withDatabase(cmd.Context(), cfg, func(db *gorm.DB) error {
			if err := database.Migrate(db); err != nil {
				return err
			}
			res, err := loader.Load(cmd.Context(), db, records, loader.Options{Reset: loadReset})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d banks and %d branches from %s\n", res.Banks, res.Branches, loadFile)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, seedCmd, loadCmd)

	loadCmd.Flags().StringVar(&loadFile, "file", "bank_branches.csv", "CSV or XLSX file to load")
	loadCmd.Flags().BoolVar(&loadReset, "reset", false, "delete existing banks and branches first")
}
