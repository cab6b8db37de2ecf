// models/meta.go
package models

import "time"

// ExtractionRun records one extraction attempt for an airline/airport pair.
type ExtractionRun struct {
	ID            int64      `db:"id" json:"id"`
	Airline       string     `db:"airline" json:"airline"`
	Airport       string     `db:"airport" json:"airport"`
	Metrics       string     `db:"metrics" json:"metrics"` // comma separated, primary first
	International bool       `db:"international" json:"international"`
	Status        string     `db:"status" json:"status"` // RunStatus* below
	Message       string     `db:"message" json:"message,omitempty"`
	MonthCount    int        `db:"month_count" json:"month_count"`
	FirstMonth    string     `db:"first_month" json:"first_month,omitempty"` // YYYY-MM
	LastMonth     string     `db:"last_month" json:"last_month,omitempty"`
	DurationMS    int64      `db:"duration_ms" json:"duration_ms"`
	StartedAt     time.Time  `db:"started_at" json:"started_at"`
	FinishedAt    *time.Time `db:"finished_at" json:"finished_at,omitempty"`
}

const (
	RunStatusOK     = "ok"
	RunStatusNoData = "no_data"
	RunStatusFailed = "failed"
)
