// database/traffic_store.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gewnthar/airtraffic/models"
)

// SaveDataset replaces everything stored for the dataset's airline/airport pair
// ("clear and load" in one transaction).
func (s *Store) SaveDataset(ctx context.Context, dataset *models.MergedDataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for %s-%s: %w", dataset.Airline, dataset.Airport, err)
	}
	defer tx.Rollback()

	// Step 1: Delete existing rows for this pair.
	_, err = tx.ExecContext(ctx, "DELETE FROM monthly_traffic WHERE airline = ? AND airport = ?", dataset.Airline, dataset.Airport)
	if err != nil {
		return fmt.Errorf("failed to delete old traffic for %s-%s: %w", dataset.Airline, dataset.Airport, err)
	}

	// Step 2: Insert new rows
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO monthly_traffic (
			airline, airport, month, metric, metric_order,
			has_international, domestic, international, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare traffic insert statement: %w", err)
	}
	defer stmt.Close()

	now := formatTime(time.Now())
	for order, col := range dataset.Columns {
		for i, month := range dataset.Months {
			var intl sql.NullInt64
			if dataset.International {
				intl = nullInt(col.International[i])
			}
			_, err := stmt.ExecContext(ctx,
				dataset.Airline, dataset.Airport, month.String(), string(col.Metric), order,
				dataset.International, nullInt(col.Domestic[i]), intl, now,
			)
			if err != nil {
				return fmt.Errorf("failed to insert %s %s for %s-%s: %w", col.Metric, month, dataset.Airline, dataset.Airport, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit traffic for %s-%s: %w", dataset.Airline, dataset.Airport, err)
	}
	log.Printf("Database: Stored %d months x %d metric(s) for %s-%s\n",
		len(dataset.Months), len(dataset.Columns), dataset.Airline, dataset.Airport)
	return nil
}

// LoadDataset reads back the dataset last stored for a pair. It returns
// ErrNotStored when the pair has never been saved.
func (s *Store) LoadDataset(ctx context.Context, airline, airport string) (*models.MergedDataset, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT month, metric, has_international, domestic, international
		FROM monthly_traffic
		WHERE airline = ? AND airport = ?
		ORDER BY metric_order, month
	`, airline, airport)
	if err != nil {
		return nil, fmt.Errorf("failed to query traffic for %s-%s: %w", airline, airport, err)
	}
	defer rows.Close()

	dataset := &models.MergedDataset{Airline: airline, Airport: airport}
	for rows.Next() {
		var monthText, metric string
		var hasIntl bool
		var dom, intl sql.NullInt64
		if err := rows.Scan(&monthText, &metric, &hasIntl, &dom, &intl); err != nil {
			return nil, fmt.Errorf("failed to scan traffic row: %w", err)
		}

		month, err := parseStoredMonth(monthText)
		if err != nil {
			return nil, err
		}
		dataset.International = hasIntl

		n := len(dataset.Columns)
		if n == 0 || dataset.Columns[n-1].Metric != models.Metric(metric) {
			dataset.Columns = append(dataset.Columns, models.MetricColumn{Metric: models.Metric(metric)})
			n++
		}
		col := &dataset.Columns[n-1]
		if n == 1 {
			dataset.Months = append(dataset.Months, month)
		} else if len(col.Domestic) >= len(dataset.Months) || dataset.Months[len(col.Domestic)] != month {
			return nil, &models.AlignmentError{Metric: col.Metric, Reason: fmt.Sprintf("stored month %s out of place", month)}
		}
		col.Domestic = append(col.Domestic, countOf(dom))
		if hasIntl {
			col.International = append(col.International, countOf(intl))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating traffic rows: %w", err)
	}
	if len(dataset.Columns) == 0 {
		return nil, fmt.Errorf("%s-%s: %w", airline, airport, ErrNotStored)
	}
	for _, col := range dataset.Columns[1:] {
		if len(col.Domestic) != len(dataset.Months) {
			return nil, &models.AlignmentError{Metric: col.Metric, Reason: "stored series is incomplete"}
		}
	}
	return dataset, nil
}

func parseStoredMonth(text string) (models.MonthKey, error) {
	t, err := time.Parse("2006-01", text)
	if err != nil {
		return models.MonthKey{}, fmt.Errorf("invalid stored month %q: %w", text, err)
	}
	return models.MonthKey{Year: t.Year(), Month: t.Month()}, nil
}

func nullInt(c models.Count) sql.NullInt64 {
	return sql.NullInt64{Int64: c.Value, Valid: c.Valid}
}

func countOf(n sql.NullInt64) models.Count {
	if !n.Valid {
		return models.Missing
	}
	return models.Known(n.Int64)
}
