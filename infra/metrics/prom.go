package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/failpredict/core/metrics"
)

// PromSink records pipeline runs in Prometheus metrics.
type PromSink struct {
	runs        *prometheus.CounterVec
	failures    *prometheus.GaugeVec
	stations    *prometheus.GaugeVec
	duration    *prometheus.HistogramVec
	conversions *prometheus.CounterVec
	pairs       prometheus.Histogram
}

// NewPromSink registers pipeline metrics on the default Prometheus registerer.
// The /metrics endpoint is served separately by StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "failpredict_runs_total",
			Help: "Total number of prediction pipeline runs",
		}, []string{"mode", "outcome"}),
		failures: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "failpredict_predicted_failures",
			Help: "Stations predicted to fail on the target day, per line",
		}, []string{"line"}),
		stations: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "failpredict_line_stations",
			Help: "Stations in the last filtered table, per line",
		}, []string{"line"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "failpredict_run_duration_seconds",
			Help:    "Duration of a full pipeline pass",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}, []string{"mode"}),
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "failpredict_conversions_total",
			Help: "Total number of dispatch history conversions",
		}, []string{"outcome"}),
		pairs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "failpredict_conversion_pairs",
			Help:    "Distinct station/line pairs produced per conversion",
			Buckets: prometheus.ExponentialBuckets(1, 4, 6),
		}),
	}
	var err error
	s.runs, err = register(reg, s.runs)
	if err != nil {
		return nil, err
	}
	if s.failures, err = register(reg, s.failures); err != nil {
		return nil, err
	}
	if s.stations, err = register(reg, s.stations); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, s.duration); err != nil {
		return nil, err
	}
	if s.conversions, err = register(reg, s.conversions); err != nil {
		return nil, err
	}
	if s.pairs, err = register(reg, s.pairs); err != nil {
		return nil, err
	}
	return s, nil
}

// register reuses an already registered collector of the same shape so that
// several sinks can share the default registerer.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordPredictionRun updates run counters, duration and per-line gauges.
func (s *PromSink) RecordPredictionRun(run coremetrics.PredictionRun) error {
	s.runs.WithLabelValues(run.Mode, run.Outcome).Inc()
	s.duration.WithLabelValues(run.Mode).Observe(run.Duration.Seconds())
	if run.Line != "" && run.Outcome != coremetrics.OutcomeError {
		s.failures.WithLabelValues(run.Line).Set(float64(run.Failures))
		s.stations.WithLabelValues(run.Line).Set(float64(run.Stations))
	}
	return nil
}

// RecordConversion counts the conversion and observes its pair count.
func (s *PromSink) RecordConversion(c coremetrics.Conversion) error {
	s.conversions.WithLabelValues(c.Outcome).Inc()
	if c.Outcome == coremetrics.OutcomeOK {
		s.pairs.Observe(float64(c.Pairs))
	}
	return nil
}
