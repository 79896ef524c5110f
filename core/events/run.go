package events

import "time"

// Mode identifies which pipeline produced an event.
type Mode string

const (
	// ModePrecomputed is the on-disk station table pipeline.
	ModePrecomputed Mode = "precomputed"
	// ModeUpload is the dispatch-history upload pipeline.
	ModeUpload Mode = "upload"
)

// RunEvent is published once per pipeline pass.
type RunEvent struct {
	RunID        string
	Mode         Mode
	Line         string
	Date         time.Time
	Stations     int
	Failures     int
	ModelVersion string
	Duration     time.Duration
	Err          error
	Time         time.Time
}

// ConversionEvent is published for every upload conversion attempt.
type ConversionEvent struct {
	Filename  string
	InputRows int
	Pairs     int
	Err       error
	Time      time.Time
}
