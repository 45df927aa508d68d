package database

import (
	"fmt"
	"time"

	"blinds-backend/internal/config"
	"blinds-backend/internal/model"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const maxConnectAttempts = 8

// Models lists every table the service owns, in migration order.
var Models = []interface{}{
	&model.Job{},
	&model.CostSummary{},
	&model.AdditionalCost{},
	&model.Blind{},
	&model.Task{},
	&model.Contact{},
	&model.Survey{},
	&model.CompanyProfile{},
	&model.ActivityLog{},
	&model.Quote{},
}

func dialector(cfg config.DBConfig) gorm.Dialector {
	if cfg.Driver == config.DriverSQLite {
		return sqlite.Open(cfg.DSN())
	}
	return postgres.Open(cfg.DSN())
}

// NewConnection opens the database, retrying with exponential backoff while the
// server comes up, then migrates the schema.
func NewConnection(cfg config.DBConfig, logger *zap.Logger) (*gorm.DB, error) {
	log := logger.Named("database")

	var db *gorm.DB
	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxConnectAttempts)
	err := backoff.RetryNotify(func() error {
		conn, err := gorm.Open(dialector(cfg), &gorm.Config{TranslateError: true})
		if err != nil {
			return err
		}
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.Ping(); err != nil {
			return err
		}
		db = conn
		return nil
	}, policy, func(err error, next time.Duration) {
		log.Warn("database not ready, retrying", zap.Error(err), zap.Duration("retry_in", next))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Driver, err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	log.Info("database ready", zap.String("driver", cfg.Driver))
	return db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
