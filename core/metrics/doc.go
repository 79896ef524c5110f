// Package metrics defines interfaces for recording prediction pipeline
// metrics. Sinks like PromSink and InfluxSink (infra/metrics) record pipeline
// runs and upload conversions and can be combined with NewMultiSink. The
// factory helpers return a MultiSink automatically when multiple sinks are
// configured.
package metrics
