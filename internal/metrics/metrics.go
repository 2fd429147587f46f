// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "recommender"

var (
	// RecommendLatency measures a whole recommendation, fetch included.
	RecommendLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "recommend_latency_seconds",
		Help:      "Latency of recommendation requests",
		Buckets:   prometheus.DefBuckets,
	})

	// RecommendRequests counts recommendations by outcome (ok, degraded).
	RecommendRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recommend_requests_total",
		Help:      "Total recommendation requests by outcome",
	}, []string{"outcome"})

	// CandidatesScored counts dishes passed through the scorer.
	CandidatesScored = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "candidates_scored_total",
		Help:      "Total candidate dishes scored",
	})

	// CatalogFetches counts catalog calls by result (success, failure, rejected).
	CatalogFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_fetches_total",
		Help:      "Catalog fetches by result",
	}, []string{"result"})

	// CatalogBreakerState is 0 closed, 1 half-open, 2 open.
	CatalogBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "catalog_breaker_state",
		Help:      "Catalog circuit breaker state (0=closed, 1=half-open, 2=open)",
	}, []string{"name"})
)

const (
	OutcomeOK       = "ok"
	OutcomeDegraded = "degraded"

	FetchSuccess  = "success"
	FetchFailure  = "failure"
	FetchRejected = "rejected"
)
