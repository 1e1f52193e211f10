// Package database manages the persistence backend. Two interchangeable
// backends are supported: a local SQLite file and a hosted Postgres
// instance. The choice is made once at startup via configuration; all
// business logic talks to the same *gorm.DB regardless of backend.
package database

import (
	"fmt"
	"time"

	"gullak/internal/config"
	"gullak/internal/logger"
	"gullak/internal/models"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Manager handles database operations
type Manager struct {
	db     *gorm.DB
	driver string
	pgURL  string
}

// NewManager opens a connection to the configured backend.
func NewManager(cfg *config.Config) (*Manager, error) {
	var db *gorm.DB
	var err error

	switch cfg.DBDriver {
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	case "postgres":
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.PostgresDSN(),
			PreferSimpleProtocol: true, // Required for Supabase Supavisor; harmless for direct connections
		}), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.DBDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &Manager{db: db, driver: cfg.DBDriver, pgURL: cfg.PostgresURL()}, nil
}

// Migrate brings the schema up to date. Postgres uses versioned SQL
// migrations from the migrations/ directory; the local SQLite backend
// relies on GORM auto-migration.
func (m *Manager) Migrate() error {
	if m.driver == "sqlite" {
		logger.Get().Info("Auto-migrating local SQLite schema...")
		return m.db.AutoMigrate(
			&models.User{},
			&models.Budget{},
			&models.Expense{},
			&models.LendingRecord{},
			&models.AuditLog{},
		)
	}

	logger.Get().Info("Running database migrations...")

	mig, err := migrate.New("file://migrations", m.pgURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := mig.Close()
		if srcErr != nil {
			logger.Get().Warnf("migrate source close error: %v", srcErr)
		}
		if dbErr != nil {
			logger.Get().Warnf("migrate database close error: %v", dbErr)
		}
	}()

	if err := mig.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Get().Info("Database migrations completed successfully")
	return nil
}

// DB returns the underlying GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}
