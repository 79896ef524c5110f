package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/failpredict/core/model"
	"github.com/kilianp07/failpredict/core/pipeline"
	"github.com/kilianp07/failpredict/core/upload"
)

type stubUploader struct {
	filename string
	body     string
	err      error
}

func (s *stubUploader) Upload(_ context.Context, filename string, r io.Reader) (pipeline.UploadResult, error) {
	s.filename = filename
	b, _ := io.ReadAll(r)
	s.body = string(b)
	if s.err != nil {
		return pipeline.UploadResult{}, s.err
	}
	d := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	return pipeline.UploadResult{
		RunID:    "r1",
		Filename: filename,
		Date:     d,
		Records:  []model.StationRecord{{Date: d, StationID: "AB1202", LineID: "AB12", FailureOccurred: true}},
		Rows:     []model.Row{{Seq: 1, LineID: "AB12", StationID: "AB1202", Prediction: model.DisplayFailure, Label: model.LabelFailure, Date: d}},
		Summary:  model.Summary{Date: d, Stations: 1, Failures: 1},
	}, nil
}

func multipartRequest(t *testing.T, field, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadHandler(t *testing.T) {
	u := &stubUploader{}
	rr := httptest.NewRecorder()
	NewHandler(u, 1<<20).ServeHTTP(rr, multipartRequest(t, FormField, "DispatchHistory--2024-05-02.csv", "machinecode,linecode\nAB1202,AB12\n"))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "DispatchHistory--2024-05-02.csv", u.filename)
	assert.Contains(t, u.body, "AB1202,AB12")

	var resp Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "2024-05-02", resp.Date)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, model.LabelFailure, resp.Rows[0].Label)
	assert.True(t, resp.Records[0].FailureOccurred)
}

func TestUploadHandler_ClientError(t *testing.T) {
	u := &stubUploader{err: &upload.MissingColumnError{Name: "linecode"}}
	rr := httptest.NewRecorder()
	NewHandler(u, 0).ServeHTTP(rr, multipartRequest(t, FormField, "x.csv", "machinecode\nA\n"))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.JSONEq(t, `{"error":"missing column: linecode"}`, rr.Body.String())
}

func TestUploadHandler_ServerError(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHandler(&stubUploader{err: errors.New("model down")}, 0).ServeHTTP(rr, multipartRequest(t, FormField, "x.csv", "a"))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestUploadHandler_BadRequests(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHandler(&stubUploader{}, 0).ServeHTTP(rr, multipartRequest(t, "other", "x.csv", "a"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	NewHandler(&stubUploader{}, 0).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/uploads", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestUploadHandler_TooLarge(t *testing.T) {
	rr := httptest.NewRecorder()
	big := strings.Repeat("x", 4096)
	NewHandler(&stubUploader{}, 1024).ServeHTTP(rr, multipartRequest(t, FormField, "x.csv", big))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}
