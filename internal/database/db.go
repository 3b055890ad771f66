package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bank-branches-backend/internal/config"
	"bank-branches-backend/internal/logger"
	"bank-branches-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the configured database and checks the connection. The
// returned handle is safe for concurrent use; release it with Close.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres", "":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	zl := logger.Component("gorm")
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(&zl, gormlogger.Config{
			SlowThreshold:             cfg.SlowThreshold,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get connection pool: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	// every connection to :memory: is its own database
	if cfg.Driver == "sqlite" && strings.Contains(cfg.DSN, ":memory:") {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetConnMaxLifetime(0)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Close releases the connection pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

const bankBranchesView = `bank_branches AS
SELECT
    b.ifsc,
    b.branch,
    b.address,
    b.city,
    b.district,
    b.state,
    banks.name AS bank_name,
    banks.id AS bank_id
FROM branches b
JOIN banks ON b.bank_id = banks.id`

// Migrate creates the banks and branches tables and the bank_branches view.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Bank{}, &models.Branch{}); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	viewSQL := "CREATE OR REPLACE VIEW " + bankBranchesView
	if db.Dialector.Name() == "sqlite" {
		viewSQL = "CREATE VIEW IF NOT EXISTS " + bankBranchesView
	}
	if err := db.Exec(viewSQL).Error; err != nil {
		return fmt.Errorf("create bank_branches view: %w", err)
	}
	return nil
}
