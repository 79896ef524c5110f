// Package uploads accepts dispatch-history exports and returns predictions
// for the stations they contain.
package uploads

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/kilianp07/failpredict/api"
	"github.com/kilianp07/failpredict/core/model"
	"github.com/kilianp07/failpredict/core/pipeline"
	"github.com/kilianp07/failpredict/core/upload"
)

// FormField is the multipart field carrying the file.
const FormField = "file"

// Uploader is the subset of the pipeline served by this handler.
type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (pipeline.UploadResult, error)
}

// Response is the JSON body of POST /api/uploads.
type Response struct {
	RunID        string                `json:"run_id"`
	Filename     string                `json:"filename"`
	Date         string                `json:"date"`
	ModelVersion string                `json:"model_version"`
	Summary      model.Summary         `json:"summary"`
	Records      []model.StationRecord `json:"records"`
	Rows         []model.Row           `json:"rows"`
}

// NewHandler serves POST /api/uploads. Bodies over maxBytes are refused with
// 413; conversion failures caused by the file are answered with 422.
func NewHandler(u Uploader, maxBytes int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			api.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if maxBytes > 0 && r.ContentLength > maxBytes {
			api.WriteError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		if maxBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		}
		file, hdr, err := r.FormFile(FormField)
		if err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				api.WriteError(w, http.StatusRequestEntityTooLarge, "upload too large")
				return
			}
			api.WriteError(w, http.StatusBadRequest, "missing multipart field "+FormField)
			return
		}
		defer func() { _ = file.Close() }()

		res, err := u.Upload(r.Context(), hdr.Filename, file)
		switch {
		case err == nil:
		case upload.IsClientError(err):
			api.WriteError(w, http.StatusUnprocessableEntity, err.Error())
			return
		default:
			api.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		out := Response{
			RunID:        res.RunID,
			Filename:     res.Filename,
			Date:         res.Date.Format(model.DateLayout),
			ModelVersion: res.ModelVersion,
			Summary:      res.Summary,
			Records:      res.Records,
			Rows:         res.Rows,
		}
		if out.Records == nil {
			out.Records = []model.StationRecord{}
		}
		if out.Rows == nil {
			out.Rows = []model.Row{}
		}
		api.WriteJSON(w, http.StatusOK, out)
	})
}
