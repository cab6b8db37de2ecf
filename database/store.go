// database/store.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/gewnthar/airtraffic/config"
)

// ErrNotStored is returned when no dataset exists for an airline/airport pair.
var ErrNotStored = errors.New("no stored dataset")

// Store persists merged datasets and the extraction-run log.
type Store struct {
	db     *sql.DB
	driver string
}

// NewStore wraps an open database. driver selects the DDL dialect.
func NewStore(db *sql.DB, driver string) *Store {
	return &Store{db: db, driver: driver}
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	log.Println("Database: Connection closed.")
	return s.db.Close()
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS monthly_traffic (
		airline           VARCHAR(8)  NOT NULL,
		airport           VARCHAR(8)  NOT NULL,
		month             CHAR(7)     NOT NULL,
		metric            VARCHAR(16) NOT NULL,
		metric_order      INT         NOT NULL,
		has_international BOOLEAN     NOT NULL,
		domestic          BIGINT      NULL,
		international     BIGINT      NULL,
		updated_at        DATETIME    NOT NULL,
		PRIMARY KEY (airline, airport, month, metric)
	)`,
	`CREATE TABLE IF NOT EXISTS extraction_runs (
		id             BIGINT       NOT NULL AUTO_INCREMENT PRIMARY KEY,
		airline        VARCHAR(8)   NOT NULL,
		airport        VARCHAR(8)   NOT NULL,
		metrics        VARCHAR(64)  NOT NULL,
		international  BOOLEAN      NOT NULL,
		status         VARCHAR(16)  NOT NULL,
		message        TEXT         NULL,
		month_count    INT          NOT NULL,
		first_month    CHAR(7)      NULL,
		last_month     CHAR(7)      NULL,
		duration_ms    BIGINT       NOT NULL,
		started_at     DATETIME     NOT NULL,
		finished_at    DATETIME     NULL,
		INDEX idx_runs_pair (airline, airport)
	)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS monthly_traffic (
		airline           TEXT     NOT NULL,
		airport           TEXT     NOT NULL,
		month             TEXT     NOT NULL,
		metric            TEXT     NOT NULL,
		metric_order      INTEGER  NOT NULL,
		has_international BOOLEAN  NOT NULL,
		domestic          INTEGER  NULL,
		international     INTEGER  NULL,
		updated_at        DATETIME NOT NULL,
		PRIMARY KEY (airline, airport, month, metric)
	)`,
	`CREATE TABLE IF NOT EXISTS extraction_runs (
		id             INTEGER  PRIMARY KEY AUTOINCREMENT,
		airline        TEXT     NOT NULL,
		airport        TEXT     NOT NULL,
		metrics        TEXT     NOT NULL,
		international  BOOLEAN  NOT NULL,
		status         TEXT     NOT NULL,
		message        TEXT     NULL,
		month_count    INTEGER  NOT NULL,
		first_month    TEXT     NULL,
		last_month     TEXT     NULL,
		duration_ms    INTEGER  NOT NULL,
		started_at     DATETIME NOT NULL,
		finished_at    DATETIME NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_pair ON extraction_runs (airline, airport)`,
}

// EnsureSchema creates the tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	statements := mysqlSchema
	if s.driver == config.DriverSQLite {
		statements = sqliteSchema
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
