package cli

import (
	"context"
	"fmt"

	"bank-branches-backend/internal/config"
	"bank-branches-backend/internal/database"
	"bank-branches-backend/internal/logger"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "bank-branches",
	Short: "GraphQL API over Indian bank branches and IFSC codes",
	Long: `Serves a read-only catalog of banks and their branches (IFSC codes)
through GraphQL at /gql and a small REST API under /api.

Settings come from an optional config file (--config, or ./bank-branches.yaml)
and environment variables such as DATABASE_URL, HTTP_PORT and JWT_SECRET.

Example usage:
  bank-branches migrate
  bank-branches load --file bank_branches.csv --reset
  bank-branches serve`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
}

// loadConfig reads the configuration and initialises logging from it.
func loadConfig() (*config.Config, error) {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("bank-branches")
		v.AddConfigPath(".")
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	logger.Init(cfg.Log.Level, cfg.Log.Format)
	for _, w := range cfg.Warnings() {
		log.Warn().Msg(w)
	}
	return cfg, nil
}

// withDatabase opens the database for the duration of fn and always releases it.
func withDatabase(ctx context.Context, cfg *config.Config, fn func(db *gorm.DB) error) error {
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("closing database")
		}
	}()
	return fn(db)
}

var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
