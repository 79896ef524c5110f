// Package runs exposes the prediction run log over HTTP.
package runs

import (
	"net/http"
	"strconv"
	"time"

	"github.com/kilianp07/failpredict/api"
	"github.com/kilianp07/failpredict/core/runlog"
)

// NewHandler returns an HTTP handler exposing run records via GET /api/runs.
// Supported filters are start and end (RFC3339), line, mode and limit.
// Requests must include an Authorization header with "Bearer <token>" when
// token is non-empty.
func NewHandler(store runlog.Store, token string) http.Handler {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			api.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		q, err := parseQuery(r)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			api.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if records == nil {
			records = []runlog.RunRecord{}
		}
		api.WriteJSON(w, http.StatusOK, records)
	})
	return api.RequireToken(token, h)
}

func parseQuery(r *http.Request) (runlog.Query, error) {
	v := r.URL.Query()
	q := runlog.Query{Line: v.Get("line"), Mode: v.Get("mode")}
	var err error
	if s := v.Get("start"); s != "" {
		if q.Start, err = time.Parse(time.RFC3339, s); err != nil {
			return q, err
		}
	}
	if s := v.Get("end"); s != "" {
		if q.End, err = time.Parse(time.RFC3339, s); err != nil {
			return q, err
		}
	}
	if s := v.Get("limit"); s != "" {
		if q.Limit, err = strconv.Atoi(s); err != nil {
			return q, err
		}
	}
	return q, nil
}
