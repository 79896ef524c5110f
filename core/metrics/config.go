package metrics

import "github.com/kilianp07/failpredict/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusAddr serves /metrics when non-empty.
	PrometheusAddr string `json:"prometheus_addr"`
}
