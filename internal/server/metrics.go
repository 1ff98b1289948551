package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Plan outcomes recorded in planner_plans_total
const (
	outcomeFound       = "found"
	outcomeUnreachable = "unreachable"
	outcomeInvalid     = "invalid"
)

// Metrics holds the collectors exported on /metrics
type Metrics struct {
	Registry *prometheus.Registry

	plans           *prometheus.CounterVec
	planDuration    prometheus.Histogram
	visibilityEdges prometheus.Histogram
}

// NewMetrics registers the planner collectors on a fresh registry
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		plans: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planner_plans_total",
				Help: "Total number of planning requests by outcome",
			},
			[]string{"outcome"},
		),
		planDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "planner_plan_duration_seconds",
				Help:    "Duration of planning requests",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
		),
		visibilityEdges: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "planner_visibility_edges",
				Help:    "Number of visibility edges built per request",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
	}

	m.Registry.MustRegister(
		m.plans,
		m.planDuration,
		m.visibilityEdges,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}
