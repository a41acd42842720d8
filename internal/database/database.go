// Package database provides database connection management and utilities.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// pingTimeout bounds the connectivity check performed by Connect.
const pingTimeout = 5 * time.Second

// Config holds database configuration settings.
type Config struct {
	Driver             string
	ConnectionString   string
	MaxOpenConnections int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// Connect establishes a database connection with the given configuration.
func Connect(cfg Config) (*sql.DB, error) {
	db, err := sql.Open(cfg.Driver, cfg.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// MigrationsPath returns the golang-migrate source URL for driver.
func MigrationsPath(driver string) string {
	if driver == DriverMySQL {
		return "file://migrations/mysql"
	}
	return "file://migrations/postgresql"
}

// MigrationDatabaseURL returns the golang-migrate database URL for a driver DSN. MySQL DSNs
// are not URLs and need the scheme prefix; PostgreSQL URLs are used as is.
func MigrationDatabaseURL(driver, dsn string) string {
	if driver == DriverMySQL && !hasScheme(dsn, "mysql://") {
		return "mysql://" + dsn
	}
	return dsn
}

func hasScheme(dsn, scheme string) bool {
	return len(dsn) >= len(scheme) && dsn[:len(scheme)] == scheme
}
