// Package predictions exposes the pre-computed prediction pipeline over HTTP.
package predictions

import (
	"bytes"
	"context"
	"net/http"
	"strconv"

	"github.com/kilianp07/failpredict/api"
	"github.com/kilianp07/failpredict/core/model"
	"github.com/kilianp07/failpredict/core/pipeline"
	"github.com/kilianp07/failpredict/pkg/export"
)

// Predictor is the subset of the pipeline served by these handlers.
type Predictor interface {
	Lines(ctx context.Context) ([]string, error)
	Precomputed(ctx context.Context, line string) (pipeline.Result, error)
}

// Response is the JSON body of GET /api/predictions.
type Response struct {
	RunID        string        `json:"run_id"`
	Line         string        `json:"line"`
	Date         string        `json:"date,omitempty"`
	ModelVersion string        `json:"model_version"`
	Empty        bool          `json:"empty"`
	Summary      model.Summary `json:"summary"`
	Rows         []model.Row   `json:"rows"`
}

// NewResponse converts a pipeline result to its JSON form.
func NewResponse(res pipeline.Result) Response {
	out := Response{
		RunID:        res.RunID,
		Line:         res.Line,
		ModelVersion: res.ModelVersion,
		Empty:        res.Empty,
		Summary:      res.Summary,
		Rows:         res.Rows,
	}
	if !res.Date.IsZero() {
		out.Date = res.Date.Format(model.DateLayout)
	}
	if out.Rows == nil {
		out.Rows = []model.Row{}
	}
	return out
}

// NewLinesHandler serves GET /api/lines.
func NewLinesHandler(p Predictor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			api.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		ls, err := p.Lines(r.Context())
		if err != nil {
			api.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if ls == nil {
			ls = []string{}
		}
		api.WriteJSON(w, http.StatusOK, ls)
	})
}

// NewPredictionsHandler serves GET /api/predictions?line=L.
func NewPredictionsHandler(p Predictor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res, ok := run(w, r, p)
		if !ok {
			return
		}
		api.WriteJSON(w, http.StatusOK, NewResponse(res))
	})
}

// NewExportHandler serves GET /api/predictions/export?line=L&format=csv|xlsx|json
// as a file attachment.
func NewExportHandler(p Predictor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		format, err := export.ParseFormat(r.URL.Query().Get("format"))
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		res, ok := run(w, r, p)
		if !ok {
			return
		}
		var buf bytes.Buffer
		if err := export.Write(&buf, format, res.Rows); err != nil {
			api.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Content-Disposition", `attachment; filename="`+format.FileName()+`"`)
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		_, _ = buf.WriteTo(w)
	})
}

func run(w http.ResponseWriter, r *http.Request, p Predictor) (pipeline.Result, bool) {
	if r.Method != http.MethodGet {
		api.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return pipeline.Result{}, false
	}
	line := r.URL.Query().Get("line")
	if line == "" {
		api.WriteError(w, http.StatusBadRequest, pipeline.ErrLineRequired.Error())
		return pipeline.Result{}, false
	}
	res, err := p.Precomputed(r.Context(), line)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, err.Error())
		return pipeline.Result{}, false
	}
	return res, true
}
