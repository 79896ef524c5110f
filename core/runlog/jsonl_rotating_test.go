package runlog

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotatingJSONLStore_Query(t *testing.T) {
	s, err := NewRotatingJSONLStore(filepath.Join(t.TempDir(), "runs.jsonl"), 1, 2, 1)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	exerciseStore(t, s)
}

func TestRotatingJSONLStore_Rotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runs.jsonl")
	s, err := NewRotatingJSONLStore(path, 1, 5, 1)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	// Records of ~300KB make the fourth append exceed the 1MB limit.
	big := strings.Repeat("x", 300*1024)
	for i := 0; i < 5; i++ {
		rec := RunRecord{ID: string(rune('a' + i)), Timestamp: t0.Add(time.Duration(i) * time.Minute), Source: big}
		require.NoError(t, s.Append(context.Background(), rec))
	}
	backups, err := filepath.Glob(filepath.Join(dir, "runs-*.jsonl"))
	require.NoError(t, err)
	assert.Len(t, backups, 1, "expected one rotated file")

	got, err := s.Query(context.Background(), Query{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids(got))
}

func TestRotatingJSONLStore_IgnoresUnrelatedSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runs.jsonl")
	write := func(name string, recs ...RunRecord) {
		t.Helper()
		var b strings.Builder
		for _, r := range recs {
			data, err := json.Marshal(r)
			require.NoError(t, err)
			b.Write(data)
			b.WriteByte('\n')
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(b.String()), 0o644))
	}
	write("runs.jsonl", RunRecord{ID: "active", Timestamp: t0.Add(2)})
	write("runs-2025-05-25T10-00-00.000.jsonl", RunRecord{ID: "backup", Timestamp: t0.Add(1)})
	write("runs-archive.jsonl", RunRecord{ID: "archive", Timestamp: t0})
	write("runsold.jsonl", RunRecord{ID: "old", Timestamp: t0})
	write("runs-2025-05-25.jsonl", RunRecord{ID: "dated", Timestamp: t0})

	s, err := NewRotatingJSONLStore(path, 1, 2, 1)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	got, err := s.Query(context.Background(), Query{})
	require.NoError(t, err)
	assert.Equal(t, []string{"backup", "active"}, ids(got))
}

func TestRotatingJSONLStore_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "nested", "runs.jsonl")
	s, err := NewRotatingJSONLStore(path, 1, 1, 1)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	require.NoError(t, s.Append(context.Background(), RunRecord{ID: "x", Timestamp: t0}))
	_, err = os.Stat(path)
	assert.NoError(t, err)

	got, err := s.Query(context.Background(), Query{})
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, ids(got))
}
