package app

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/failpredict/api/predictions"
	"github.com/kilianp07/failpredict/api/uploads"
	"github.com/kilianp07/failpredict/config"
	"github.com/kilianp07/failpredict/core/factory"
	"github.com/kilianp07/failpredict/core/runlog"
)

const stations = `data_dzienna,Stacja,Linia,awaria
2025-05-26,LA01ST1,LA01,0
2025-05-27,LA01ST1,LA01,0
2025-05-27,LA01ST2,LA01,0
2025-05-27,LB02ST1,LB02,0
`

const artifact = `{"version":"v1","feature_names":["LA01ST1","LA01ST2","LB02ST1"],"coefficients":[4,-4,4],"intercept":-1}`

func newTestService(t *testing.T, token string) *Service {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stations.csv"), []byte(stations), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.json"), []byte(artifact), 0o600))

	cfg := &config.Config{
		Model:   factory.ModuleConfig{Type: "logistic", Conf: map[string]any{"path": filepath.Join(dir, "model.json")}},
		Dataset: config.DatasetConfig{Path: filepath.Join(dir, "stations.csv")},
		Server:  config.ServerConfig{Token: token},
		RunLog:  config.RunLogConfig{Backend: "jsonl", Path: filepath.Join(dir, "runs.jsonl")},
	}
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())

	svc, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestService_Predictions(t *testing.T) {
	svc := newTestService(t, "")
	srv := httptest.NewServer(svc.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/lines")
	require.NoError(t, err)
	var ls []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ls))
	_ = resp.Body.Close()
	assert.Equal(t, []string{"LA01", "LB02"}, ls)

	resp, err = http.Get(srv.URL + "/api/predictions?line=LA01")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body predictions.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "2025-05-27", body.Date)
	assert.Equal(t, "v1", body.ModelVersion)
	require.Len(t, body.Rows, 2)
	assert.Equal(t, "will fail", body.Rows[0].Prediction)
	assert.Equal(t, "no failure", body.Rows[1].Prediction)
	assert.Equal(t, 1, body.Summary.Failures)

	recs, err := svc.runs.Query(context.Background(), runlog.Query{})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, body.RunID, recs[0].ID)
	assert.Equal(t, []string{"LA01ST1"}, recs[0].FailingStations)
}

func TestService_Upload(t *testing.T) {
	svc := newTestService(t, "")
	srv := httptest.NewServer(svc.Handler())
	defer srv.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(uploads.FormField, "DispatchHistory--2025-06-01.csv")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("machinecode,linecode\nLB02ST1,LB02\nLB02ST1,LB02\nZZ99ST9,ZZ99\n"))
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/api/uploads", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body uploads.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "2025-06-01", body.Date)
	require.Len(t, body.Rows, 2)
	assert.Equal(t, "will fail", body.Rows[0].Prediction)
	assert.Equal(t, "no failure", body.Rows[1].Prediction)
}

func TestService_Token(t *testing.T) {
	svc := newTestService(t, "secret")
	h := svc.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	for _, path := range []string{"/api/lines", "/api/predictions?line=LA01", "/api/runs"} {
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/lines", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNew_MissingDataset(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.json"), []byte(artifact), 0o600))
	cfg := &config.Config{
		Model:   factory.ModuleConfig{Type: "logistic", Conf: map[string]any{"path": filepath.Join(dir, "model.json")}},
		Dataset: config.DatasetConfig{Path: filepath.Join(dir, "missing.csv")},
		RunLog:  config.RunLogConfig{Backend: "none"},
	}
	cfg.SetDefaults()
	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}
