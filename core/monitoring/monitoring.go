// Package monitoring defines error reporting for pipeline failures. The
// monitor is owned by the application context and passed explicitly.
package monitoring

import (
	"sync"
	"time"
)

// Monitor defines methods used for error reporting.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	Flush(timeout time.Duration)
}

// NopMonitor discards every report.
type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Flush(time.Duration)                       {}

// Recorder keeps captured errors in memory. It is meant for tests.
type Recorder struct {
	mu     sync.Mutex
	Errors []error
	Tags   []map[string]string
}

// CaptureException stores the error and its tags.
func (r *Recorder) CaptureException(err error, tags map[string]string) {
	if err == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, err)
	r.Tags = append(r.Tags, tags)
}

// Len returns the number of captured errors.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Errors)
}

// Flush is a no-op.
func (r *Recorder) Flush(time.Duration) {}
