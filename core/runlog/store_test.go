package runlog

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 5, 26, 8, 0, 0, 0, time.UTC)

// history returns four runs one minute apart, deliberately out of order.
func history() []RunRecord {
	return []RunRecord{
		{ID: "r3", Timestamp: t0.Add(2 * time.Minute), Mode: "upload", Source: "DispatchHistory--2025-05-26.csv", Stations: 2},
		{ID: "r1", Timestamp: t0, Mode: "precomputed", Line: "LA01", Stations: 3, Failures: 1, FailingStations: []string{"LA01ST2"}},
		{ID: "r4", Timestamp: t0.Add(3 * time.Minute), Mode: "precomputed", Line: "LA01", Error: "model down"},
		{ID: "r2", Timestamp: t0.Add(time.Minute), Mode: "precomputed", Line: "LB02", Stations: 1},
	}
}

func ids(recs []RunRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

// exerciseStore runs the shared query contract against a store backend.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	for _, r := range history() {
		require.NoError(t, s.Append(ctx, r))
	}

	cases := []struct {
		name string
		q    Query
		want []string
	}{
		{"all ordered", Query{}, []string{"r1", "r2", "r3", "r4"}},
		{"line", Query{Line: "LA01"}, []string{"r1", "r4"}},
		{"mode", Query{Mode: "upload"}, []string{"r3"}},
		{"start inclusive", Query{Start: t0.Add(2 * time.Minute)}, []string{"r3", "r4"}},
		{"end inclusive", Query{End: t0.Add(time.Minute)}, []string{"r1", "r2"}},
		{"window and line", Query{Start: t0.Add(30 * time.Second), End: t0.Add(5 * time.Minute), Line: "LA01"}, []string{"r4"}},
		{"limit keeps latest", Query{Limit: 2}, []string{"r3", "r4"}},
		{"no match", Query{Line: "ZZ99"}, []string{}},
	}
	for _, tc := range cases {
		got, err := s.Query(ctx, tc.q)
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.want, ids(got), tc.name)
	}

	got, err := s.Query(ctx, Query{Line: "LA01", Limit: 1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "model down", got[0].Error)
	assert.True(t, got[0].Timestamp.Equal(t0.Add(3*time.Minute)))

	got, err = s.Query(ctx, Query{Start: t0, End: t0})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"LA01ST2"}, got[0].FailingStations)
}

func TestQuery_Match(t *testing.T) {
	r := RunRecord{Timestamp: t0, Mode: "precomputed", Line: "LA01"}
	assert.True(t, Query{}.Match(r))
	assert.True(t, Query{Start: t0, End: t0}.Match(r))
	assert.False(t, Query{Start: t0.Add(time.Nanosecond)}.Match(r))
	assert.False(t, Query{End: t0.Add(-time.Nanosecond)}.Match(r))
	assert.False(t, Query{Line: "LA0"}.Match(r), "line filter is exact")
	assert.False(t, Query{Mode: "upload"}.Match(r))
	assert.True(t, Query{Line: "LA01", Mode: "precomputed", Limit: 1}.Match(r))
}

func TestApplyLimit(t *testing.T) {
	recs := []RunRecord{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	assert.Equal(t, []string{"b", "c"}, ids(applyLimit(recs, 2)))
	assert.Equal(t, []string{"a", "b", "c"}, ids(applyLimit(recs, 0)))
	assert.Equal(t, []string{"a", "b", "c"}, ids(applyLimit(recs, 5)))
	assert.Empty(t, applyLimit(nil, 1))
}

func TestRunRecord_JSON(t *testing.T) {
	data, err := json.Marshal(history()[1])
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	for _, k := range []string{"id", "timestamp", "mode", "line", "date", "source", "model_version", "stations", "failures", "failing_stations"} {
		assert.Contains(t, m, k)
	}
	assert.NotContains(t, m, "error")
}

func TestNopStore(t *testing.T) {
	var s Store = NopStore{}
	require.NoError(t, s.Append(context.Background(), RunRecord{ID: "x"}))
	got, err := s.Query(context.Background(), Query{})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, s.Close())
}
