// Package cloudmetrics pushes aggregate rating volume from self-hosted
// installs to a hosted collection endpoint. It keeps its own registry so
// the pushed series never mix with the /metrics scrape surface, and it is
// disabled unless explicitly configured.
package cloudmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	ratingRuns   *prometheus.CounterVec
	engineErrors *prometheus.CounterVec
	rateTables   prometheus.Gauge
	memoryBytes  prometheus.Gauge
}

func newMetrics(registry *prometheus.Registry) *metrics {
	m := &metrics{
		ratingRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "insureflow_cloud_rating_runs_total",
			Help: "Rating runs by product type and terminal status.",
		}, []string{"product_type", "status"}),
		engineErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "insureflow_cloud_engine_errors_total",
			Help: "Engine failures by operation.",
		}, []string{"operation"}),
		rateTables: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "insureflow_cloud_rate_tables",
			Help: "Rate tables present in this install.",
		}),
		memoryBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "insureflow_cloud_memory_sys_bytes",
			Help: "Memory obtained from the OS.",
		}),
	}
	if registry != nil {
		registry.MustRegister(m.ratingRuns, m.engineErrors, m.rateTables, m.memoryBytes)
	}
	return m
}
