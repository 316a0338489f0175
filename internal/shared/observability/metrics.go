package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	FetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cratemap_fetch_seconds",
		Help:    "Time spent fetching one crate's dependency list from the registry.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	FetchErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cratemap_fetch_errors_total",
		Help: "Total registry fetch failures by error code.",
	}, []string{"code"})

	BuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cratemap_build_seconds",
		Help:    "Time spent building the dependency graph.",
		Buckets: prometheus.DefBuckets,
	})

	BuildsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cratemap_builds_total",
		Help: "Total number of graph builds.",
	})

	GraphPackages = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cratemap_graph_packages_total",
		Help: "Number of expanded crates in the last built graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cratemap_graph_edges_total",
		Help: "Number of dependency edges in the last built graph.",
	})

	GraphCycles = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cratemap_graph_cycles_total",
		Help: "Number of cycles detected in the last built graph.",
	})
)
