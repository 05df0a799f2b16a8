// Package metrics defines the Prometheus counters for the generation engine.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RecordsGenerated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "synabon_records_generated_total",
		Help: "Total event records emitted across all generation and append runs",
	})

	ProviderFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "synabon_provider_fallbacks_total",
		Help: "How many times a caller-supplied value provider failed and the built-in default was used",
	})

	WeekendRedraws = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "synabon_weekend_redraws_total",
		Help: "How many sampled instants landed on a weekend and were redrawn",
	})
)

func Init() {
	prometheus.MustRegister(RecordsGenerated, ProviderFallbacks, WeekendRedraws)
}
