package metrics

import "time"

// PredictionRun describes one finished pipeline pass.
type PredictionRun struct {
	Mode         string
	Line         string
	Stations     int
	Failures     int
	ModelVersion string
	Duration     time.Duration
	Outcome      string
	Time         time.Time
}

// Outcomes recorded for runs and conversions.
const (
	OutcomeOK       = "ok"
	OutcomeEmpty    = "empty"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// MetricsSink records prediction runs for observability purposes.
type MetricsSink interface {
	RecordPredictionRun(run PredictionRun) error
}

// Conversion describes one upload conversion attempt.
type Conversion struct {
	InputRows int
	Pairs     int
	Outcome   string
	Time      time.Time
}

// ConversionRecorder is implemented by sinks able to record conversions.
type ConversionRecorder interface {
	RecordConversion(c Conversion) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordPredictionRun(PredictionRun) error { return nil }
func (NopSink) RecordConversion(Conversion) error       { return nil }
