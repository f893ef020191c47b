// Package metrics holds the Prometheus collectors shared by the pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "quickdigest"

var (
	DigestRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "digest_requests_total",
		Help:      "Digest requests by outcome.",
	}, []string{"status"})

	DigestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "digest_duration_seconds",
		Help:      "Time spent assembling a digest.",
		Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	})

	Aggregations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "aggregations_total",
		Help:      "Aggregation passes by result (cache_hit, fetched).",
	}, []string{"result"})

	Extractions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "extractions_total",
		Help:      "Article text extraction attempts by strategy and result.",
	}, []string{"strategy", "result"})

	SummaryFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "summary_fallbacks_total",
		Help:      "Summarization passes that degraded to source text, by stage (chunk, final).",
	}, []string{"stage"})
)
