package runlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/failpredict/config"
	corerunlog "github.com/kilianp07/failpredict/core/runlog"
	"github.com/kilianp07/failpredict/test/util"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		cfg  config.RunLogConfig
		want any
	}{
		{config.RunLogConfig{Backend: "none"}, corerunlog.NopStore{}},
		{config.RunLogConfig{Backend: "jsonl", Path: filepath.Join(dir, "a.jsonl")}, &corerunlog.JSONLStore{}},
		{config.RunLogConfig{Backend: "jsonl", Path: filepath.Join(dir, "b.jsonl"), MaxSizeMB: 1}, &corerunlog.RotatingJSONLStore{}},
		{config.RunLogConfig{Backend: "sqlite", Path: filepath.Join(dir, "c.db")}, &corerunlog.SQLiteStore{}},
	}
	for _, c := range cases {
		s, err := Open(context.Background(), c.cfg)
		require.NoError(t, err, c.cfg.Backend)
		assert.IsType(t, c.want, s)
		_ = s.Close()
	}
	_, err := Open(context.Background(), config.RunLogConfig{Backend: "mongo"})
	assert.Error(t, err)
}

func TestBuildQuery(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	sql, args := buildQuery(corerunlog.Query{Start: start, Line: "AB12", Limit: 5})
	assert.Equal(t, "SELECT record FROM prediction_runs WHERE ts >= $1 AND line = $2 ORDER BY ts DESC LIMIT $3", sql)
	assert.Equal(t, []any{start, "AB12", 5}, args)

	sql, args = buildQuery(corerunlog.Query{})
	assert.Equal(t, "SELECT record FROM prediction_runs ORDER BY ts", sql)
	assert.Empty(t, args)
}

func TestPostgresStore_Integration(t *testing.T) {
	util.RequireDocker(t)
	ctx := context.Background()
	dsn, cleanup, err := util.StartPostgres(ctx)
	require.NoError(t, err)
	defer cleanup()

	store, err := Open(ctx, config.RunLogConfig{Backend: "postgres", DSN: dsn})
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, line := range []string{"AB12", "CD34", "AB12"} {
		rec := corerunlog.RunRecord{ID: line + string(rune('a'+i)), Timestamp: base.Add(time.Duration(i) * time.Minute), Mode: "precomputed", Line: line}
		require.NoError(t, store.Append(ctx, rec))
	}
	out, err := store.Query(ctx, corerunlog.Query{Line: "AB12"})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.True(t, out[0].Timestamp.Before(out[1].Timestamp))

	last, err := store.Query(ctx, corerunlog.Query{Limit: 1})
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.Equal(t, "AB12c", last[0].ID)
}
