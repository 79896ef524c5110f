// Package runlog opens the configured run log backend, including the
// PostgreSQL store.
package runlog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	corerunlog "github.com/kilianp07/failpredict/core/runlog"
)

const pgSchema = `CREATE TABLE IF NOT EXISTS prediction_runs (
    id TEXT PRIMARY KEY,
    ts TIMESTAMPTZ NOT NULL,
    mode TEXT NOT NULL,
    line TEXT NOT NULL DEFAULT '',
    record JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS prediction_runs_ts ON prediction_runs (ts);`

// PostgresStore persists records to PostgreSQL through a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to dsn and ensures the schema exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Append inserts the record.
func (s *PostgresStore) Append(ctx context.Context, rec corerunlog.RunRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO prediction_runs (id, ts, mode, line, record) VALUES ($1, $2, $3, $4, $5)`,
		rec.ID, rec.Timestamp, rec.Mode, rec.Line, b)
	return err
}

// Query returns records matching q ordered by timestamp.
func (s *PostgresStore) Query(ctx context.Context, q corerunlog.Query) ([]corerunlog.RunRecord, error) {
	sql, args := buildQuery(q)
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	recs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (corerunlog.RunRecord, error) {
		var data []byte
		var r corerunlog.RunRecord
		if err := row.Scan(&data); err != nil {
			return r, err
		}
		if err := json.Unmarshal(data, &r); err != nil {
			return r, fmt.Errorf("unmarshal record: %w", err)
		}
		return r, nil
	})
	if err != nil {
		return nil, err
	}
	// newest-first from the limit clause, back to timestamp order
	if q.Limit > 0 {
		for i, j := 0, len(recs)-1; i < j; i, j = i+1, j-1 {
			recs[i], recs[j] = recs[j], recs[i]
		}
	}
	return recs, nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func buildQuery(q corerunlog.Query) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if !q.Start.IsZero() {
		add("ts >= $%d", q.Start)
	}
	if !q.End.IsZero() {
		add("ts <= $%d", q.End)
	}
	if q.Line != "" {
		add("line = $%d", q.Line)
	}
	if q.Mode != "" {
		add("mode = $%d", q.Mode)
	}
	sql := "SELECT record FROM prediction_runs"
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	if q.Limit > 0 {
		args = append(args, q.Limit)
		sql += fmt.Sprintf(" ORDER BY ts DESC LIMIT $%d", len(args))
	} else {
		sql += " ORDER BY ts"
	}
	return sql, args
}
