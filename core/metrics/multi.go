package metrics

import "errors"

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordPredictionRun forwards the run to all sinks. Every sink is called;
// the errors are joined.
func (m *MultiSink) RecordPredictionRun(run PredictionRun) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordPredictionRun(run); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordConversion forwards the conversion to sinks that support it.
func (m *MultiSink) RecordConversion(c Conversion) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(ConversionRecorder); ok {
			if err := rec.RecordConversion(c); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Close closes the sinks that hold resources.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
