// models/errors.go
package models

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks. Each typed fault below matches exactly one.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrProtocol     = errors.New("form session protocol fault")
	ErrNoData       = errors.New("query produced no data")
	ErrMalformedRow = errors.New("malformed table row")
	ErrAlignment    = errors.New("metric series are not aligned")
)

// ValidationError rejects an airline, airport or metric code before any request is made.
type ValidationError struct {
	Field      string // "airline", "airport" or "metric"
	Value      string
	Suggestion string // closest valid code, if any
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s is an invalid %s code", e.Value, e.Field)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %s?)", e.Suggestion)
	}
	return msg
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// ProtocolError means a hidden form token was not present on the landing page,
// which usually means the portal changed its markup.
type ProtocolError struct {
	Token string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("form token %s not found on landing page", e.Token)
}

func (e *ProtocolError) Is(target error) bool { return target == ErrProtocol }

// NoDataError means the response for a metric had no DataGrid1 table.
type NoDataError struct {
	Airline string
	Airport string
	Metric  Metric
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no %s data exists for %s at %s, try a different combination", e.Metric, e.Airline, e.Airport)
}

func (e *NoDataError) Is(target error) bool { return target == ErrNoData }

// MalformedRowError reports a table row that cannot be indexed by month.
type MalformedRowError struct {
	Metric Metric
	Row    int // zero-based position after header and TOTAL rows are removed
	Reason string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("%s row %d: %s", e.Metric, e.Row, e.Reason)
}

func (e *MalformedRowError) Is(target error) bool { return target == ErrMalformedRow }

// AlignmentError reports an additional metric whose months do not match the primary metric.
type AlignmentError struct {
	Metric Metric
	Reason string
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("%s not aligned with %s: %s", e.Metric, MetricPassengers, e.Reason)
}

func (e *AlignmentError) Is(target error) bool { return target == ErrAlignment }
