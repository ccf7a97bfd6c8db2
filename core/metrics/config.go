package metrics

import "github.com/kilianp07/factorysched/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusPort is the listen port for the metrics HTTP server when a
	// prometheus sink is configured.
	PrometheusPort string `json:"prometheus_port"`
}
