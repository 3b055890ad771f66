package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"bank-branches-backend/internal/catalog"
	"bank-branches-backend/internal/database"
	"bank-branches-backend/internal/server"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return withDatabase(ctx, cfg, func(db *gorm.DB) error {
			svc := catalog.NewService(database.NewStore(db),
				catalog.WithDefaultPageSize(cfg.Catalog.DefaultPageSize),
				catalog.WithConsistentReads(cfg.Catalog.ConsistentReads),
			)

			app, err := server.New(cfg, svc)
			if err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("port", cfg.HTTP.Port).Msg("server listening")
				errCh <- app.Listen(":" + cfg.HTTP.Port)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return app.ShutdownWithContext(shutdownCtx)
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
