package db

import (
	"fmt"
	"os"
	"strings"

	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/silvertrading/billing/internal/models"
)

// Connect opens the database behind the DSN. A postgres:// URL selects the
// postgres driver, anything else is treated as a sqlite file path.
func Connect(dsn string) (*gorm.DB, error) {
	dsn = NormalizeDSN(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_DSN is empty, check environment configuration")
	}
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var (
		conn *gorm.DB
		err  error
	)
	if isPostgresDSN(dsn) {
		conn, err = gorm.Open(postgres.Open(dsn), cfg)
	} else {
		conn, err = gorm.Open(sqlite.Open(dsn), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if pingErr := conn.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}
	return conn, nil
}

// ConnectAndMigrate opens the database and brings the schema up to date.
// With MIGRATIONS=1 (postgres only) SQL migrations run via golang-migrate;
// otherwise AutoMigrate covers the schema, which is the dev default.
func ConnectAndMigrate(dsn string) (*gorm.DB, error) {
	conn, err := Connect(dsn)
	if err != nil {
		return nil, err
	}
	dsn = NormalizeDSN(dsn)
	if v := strings.ToLower(os.Getenv("MIGRATIONS")); (v == "1" || v == "true" || v == "yes") && isPostgresDSN(dsn) {
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
		return conn, nil
	}
	if err := AutoMigrate(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// AutoMigrate creates or updates the schema for all ledger models.
func AutoMigrate(conn *gorm.DB) error {
	for _, m := range []any{
		&models.Customer{}, &models.Invoice{}, &models.Payment{}, &models.AuditEntry{},
	} {
		if err := conn.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

func isPostgresDSN(dsn string) bool {
	lower := strings.ToLower(dsn)
	return strings.HasPrefix(lower, "postgres://") ||
		strings.HasPrefix(lower, "postgresql://") ||
		strings.Contains(lower, "host=")
}

// runSQLMigrations executes migrations in ./migrations using the
// golang-migrate file source.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
