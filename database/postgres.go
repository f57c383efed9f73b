package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ecocycle/backend/config"
)

// ConnectPostgres opens the order ledger database and runs migrations for the
// given models.
func ConnectPostgres(cfg config.Config, log *zap.Logger, autoMigrateModels ...interface{}) (*gorm.DB, error) {
	if cfg.PostgresUser == "" {
		return nil, fmt.Errorf("POSTGRES_USER not set")
	}
	if cfg.PostgresPassword == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD not set")
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		cfg.PostgresHost, cfg.PostgresUser, cfg.PostgresPassword,
		cfg.PostgresDB, cfg.PostgresPort, cfg.PostgresSSLMode, cfg.PostgresTimeZone,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	if len(autoMigrateModels) > 0 {
		if err := db.AutoMigrate(autoMigrateModels...); err != nil {
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}

	log.Info("Connected to Postgres", zap.String("db", cfg.PostgresDB))
	return db, nil
}
