package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/dealerportal/backend/internal/domain/backorder"
	"github.com/dealerportal/backend/internal/domain/catalog"
	"github.com/dealerportal/backend/internal/domain/dealer"
	"github.com/dealerportal/backend/internal/domain/imports"
	"github.com/dealerportal/backend/internal/domain/trade"
	"github.com/dealerportal/backend/internal/infrastructure/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database holds the database connection and provides the transaction scope
// used by the commit engine
type Database struct {
	DB *gorm.DB
}

// NewDatabase creates a new database connection with the given configuration
func NewDatabase(cfg *config.DatabaseConfig) (*Database, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{DB: db}, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Ping()
}

type txKey struct{}

// WithinTx runs fn inside one database transaction. Repository calls made
// with the context passed to fn join the transaction; any error rolls the
// whole scope back.
func (d *Database) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFor returns the transaction bound to ctx, or the fallback handle
func dbFor(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}

// Migrate creates or updates the schema for every aggregate.
// Production deployments run cmd/migrate instead; this covers dev and tests.
func (d *Database) Migrate() error {
	return AutoMigrate(d.DB)
}

// AutoMigrate runs gorm schema migration on the given handle
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&catalog.Product{},
		&catalog.ProductStock{},
		&catalog.ProductPriceReference{},
		&catalog.ProductPriceBand{},
		&catalog.ProductAlias{},
		&dealer.DealerAccount{},
		&dealer.BandAssignment{},
		&imports.ImportBatch{},
		&imports.ImportError{},
		&imports.ProductStagingRow{},
		&imports.BackorderStagingRow{},
		&imports.SupersessionStagingRow{},
		&imports.FulfillmentStagingRow{},
		&backorder.Dataset{},
		&backorder.Line{},
		&trade.DealerOrder{},
	)
}
