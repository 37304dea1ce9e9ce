package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/receptio/visitlog/internal/config"
	"github.com/receptio/visitlog/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open connects to the configured database and migrates the schema. SQLite is
// the default for a single front desk; postgres is available for shared
// deployments and is retried because the server may come up before the
// database does.
func Open(logger *logrus.Logger, cfg *config.Config) (*gorm.DB, error) {
	log := logger.WithFields(logrus.Fields{
		"component": "database",
		"driver":    cfg.DBDriver,
	})

	var db *gorm.DB
	var err error

	switch cfg.DBDriver {
	case "postgres":
		db, err = openPostgres(log, cfg)
	case "sqlite", "":
		db, err = openSQLite(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	if err != nil {
		log.WithError(err).Error("Failed to connect to database")
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if err := db.AutoMigrate(&models.Visit{}, &models.AuditLog{}); err != nil {
		log.WithError(err).Error("Database migration failed")
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	log.Info("Database connection established")
	return db, nil
}

func openSQLite(cfg *config.Config) (*gorm.DB, error) {
	if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	return gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{})
}

func openPostgres(log *logrus.Entry, cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPassword,
		cfg.PostgresDatabase, cfg.PostgresSSLMode)

	var db *gorm.DB
	var err error
	const maxRetries = 5
	retryDelay := 2 * time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			return db, nil
		}

		log.WithFields(logrus.Fields{
			"attempt": attempt,
			"error":   err,
		}).Warn("Database connection failed")

		if attempt < maxRetries {
			time.Sleep(retryDelay)
			retryDelay *= 2
		}
	}

	return nil, err
}
