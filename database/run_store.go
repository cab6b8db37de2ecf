// database/run_store.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gewnthar/airtraffic/models"
)

// LogRun inserts one record into the extraction_runs table.
func (s *Store) LogRun(ctx context.Context, run models.ExtractionRun) error {
	var finishedAt sql.NullString
	if run.FinishedAt != nil {
		finishedAt = sql.NullString{String: formatTime(*run.FinishedAt), Valid: true}
	}

	query := `
		INSERT INTO extraction_runs (
			airline, airport, metrics, international, status, message,
			month_count, first_month, last_month, duration_ms, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		run.Airline, run.Airport, run.Metrics, run.International, run.Status, nullString(run.Message),
		run.MonthCount, nullString(run.FirstMonth), nullString(run.LastMonth), run.DurationMS,
		formatTime(run.StartedAt), finishedAt,
	)
	if err != nil {
		log.Printf("ERROR Database: Failed to log extraction run for %s-%s: %v", run.Airline, run.Airport, err)
		return fmt.Errorf("failed to log extraction run for %s-%s: %w", run.Airline, run.Airport, err)
	}

	log.Printf("Database: Logged %s run for %s-%s (%d months)\n", run.Status, run.Airline, run.Airport, run.MonthCount)
	return nil
}

// ListRuns returns the most recent runs, newest first. limit <= 0 means 50.
// An empty airline or airport matches every pair.
func (s *Store) ListRuns(ctx context.Context, airline, airport string, limit int) ([]models.ExtractionRun, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, airline, airport, metrics, international, status, message,
		       month_count, first_month, last_month, duration_ms, started_at, finished_at
		FROM extraction_runs
		WHERE (? = '' OR airline = ?) AND (? = '' OR airport = ?)
		ORDER BY id DESC
		LIMIT ?
	`, airline, airline, airport, airport, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query extraction_runs: %w", err)
	}
	defer rows.Close()

	var runs []models.ExtractionRun
	for rows.Next() {
		var r models.ExtractionRun
		var message, firstMonth, lastMonth, finishedAt sql.NullString
		var startedAt string

		err := rows.Scan(
			&r.ID, &r.Airline, &r.Airport, &r.Metrics, &r.International, &r.Status, &message,
			&r.MonthCount, &firstMonth, &lastMonth, &r.DurationMS, &startedAt, &finishedAt,
		)
		if err != nil {
			log.Printf("ERROR Database: Failed to scan extraction_run row: %v", err)
			continue
		}
		r.Message = message.String
		r.FirstMonth = firstMonth.String
		r.LastMonth = lastMonth.String
		if r.StartedAt, err = parseTime(startedAt); err != nil {
			log.Printf("ERROR Database: Run %d has an unreadable started_at: %v", r.ID, err)
			continue
		}
		if finishedAt.Valid {
			t, err := parseTime(finishedAt.String)
			if err == nil {
				r.FinishedAt = &t
			}
		}
		runs = append(runs, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating extraction_run rows: %w", err)
	}
	return runs, nil
}

// timeLayout is accepted by MySQL DATETIME columns and sorts as text in SQLite.
const timeLayout = "2006-01-02 15:04:05"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime reads a stored timestamp. Drivers hand DATETIME values back either as
// the written text or as a time.Time, which database/sql renders as RFC 3339.
func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, timeLayout, "2006-01-02 15:04:05.999999999-07:00"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
