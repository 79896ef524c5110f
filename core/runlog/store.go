// Package runlog persists one record per prediction pipeline pass so that past
// predictions can be audited and queried.
package runlog

import (
	"context"
	"time"
)

// RunRecord captures one pipeline pass and its outcome.
type RunRecord struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Mode         string    `json:"mode"`
	Line         string    `json:"line,omitempty"`
	Date         time.Time `json:"date"`
	Source       string    `json:"source"`
	ModelVersion string    `json:"model_version"`
	Stations     int       `json:"stations"`
	Failures     int       `json:"failures"`
	// FailingStations lists the stations predicted to fail.
	FailingStations []string `json:"failing_stations,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// Query defines filters for retrieving records. Zero values match everything.
type Query struct {
	Start time.Time
	End   time.Time
	Line  string
	Mode  string
	// Limit keeps only the most recent records when positive.
	Limit int
}

// Match reports whether r satisfies the filters of q, ignoring Limit.
func (q Query) Match(r RunRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Line != "" && r.Line != q.Line {
		return false
	}
	if q.Mode != "" && r.Mode != q.Mode {
		return false
	}
	return true
}

// Store persists RunRecords and supports querying. Records are returned in
// timestamp order.
type Store interface {
	Append(ctx context.Context, rec RunRecord) error
	Query(ctx context.Context, q Query) ([]RunRecord, error)
	Close() error
}

// NopStore drops every record.
type NopStore struct{}

func (NopStore) Append(context.Context, RunRecord) error           { return nil }
func (NopStore) Query(context.Context, Query) ([]RunRecord, error) { return nil, nil }
func (NopStore) Close() error                                      { return nil }

// applyLimit keeps the last n records of a timestamp-ordered slice.
func applyLimit(recs []RunRecord, n int) []RunRecord {
	if n > 0 && len(recs) > n {
		return recs[len(recs)-n:]
	}
	return recs
}
