// database/connection.go
package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gewnthar/airtraffic/config"
	_ "github.com/go-sql-driver/mysql" // MariaDB / MySQL driver
	_ "modernc.org/sqlite"             // pure-Go SQLite driver, registered as "sqlite"
)

// Open opens and pings the configured database. SQLite files get their parent
// directory created first.
func Open(cfg config.DatabaseConfig) (*sql.DB, error) {
	switch cfg.Driver {
	case config.DriverMySQL:
	case config.DriverSQLite:
		if cfg.DSN == "" && cfg.Path != "" {
			if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, cfg.DataSourceName())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Configure connection pool settings
	if cfg.Driver == config.DriverSQLite {
		// SQLite has a single writer.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
	}
	db.SetConnMaxLifetime(5 * time.Minute)

	// Ping the database to verify connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database: Connected (%s)\n", cfg.Driver)
	return db, nil
}
