package notify

import (
	"context"
	"sync"

	"github.com/kilianp07/failpredict/core/model"
)

// Recorder keeps notifications in memory. It is meant for tests.
type Recorder struct {
	mu        sync.Mutex
	Summaries []model.Summary
	Rows      [][]model.Row
	// Err is returned from every Notify call when set.
	Err error
}

// Notify stores the summary and rows.
func (r *Recorder) Notify(_ context.Context, sum model.Summary, rows []model.Row) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Summaries = append(r.Summaries, sum)
	r.Rows = append(r.Rows, rows)
	return r.Err
}

// Count returns the number of notifications received.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Summaries)
}
