// Package metrics exposes the prometheus collectors of the ledger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kkp_asta"

type Metrics struct {
	TransactionsPosted *prometheus.CounterVec
	PostFailures       *prometheus.CounterVec
	PostDuration       prometheus.Histogram
	ReportDuration     *prometheus.HistogramVec
}

// New registers the collectors on reg. Pass prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		TransactionsPosted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "transactions_posted_total",
			Help:      "Transactions committed, by type.",
		}, []string{"type"}),
		PostFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "post_failures_total",
			Help:      "Rejected or rolled back postings, by reason.",
		}, []string{"reason"}),
		PostDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "post_duration_seconds",
			Help:      "Time spent posting one transaction.",
			Buckets:   prometheus.DefBuckets,
		}),
		ReportDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "reports",
			Name:      "query_duration_seconds",
			Help:      "Time spent computing a report.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"report"}),
	}
}
