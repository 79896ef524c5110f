package runlog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLStore_Query(t *testing.T) {
	s, err := NewJSONLStore(filepath.Join(t.TempDir(), "runs.jsonl"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	exerciseStore(t, s)
}

func TestJSONLStore_SkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.jsonl")
	s, err := NewJSONLStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Append(context.Background(), RunRecord{ID: "ok1", Timestamp: t0}))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("{not json\n\n[1,2]\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, s.Append(context.Background(), RunRecord{ID: "ok2", Timestamp: t0.Add(1)}))
	got, err := s.Query(context.Background(), Query{})
	require.NoError(t, err)
	assert.Equal(t, []string{"ok1", "ok2"}, ids(got))
}

func TestNewJSONLStore_BadPath(t *testing.T) {
	_, err := NewJSONLStore(filepath.Join(t.TempDir(), "missing", "runs.jsonl"))
	assert.Error(t, err)
}
