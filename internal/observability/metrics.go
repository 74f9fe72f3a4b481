// Package observability provides the prometheus-backed implementation
// of the MetricsCollector interfaces the services define. Services
// depend on their own interface; this package is wired in once at boot.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector records service metrics into prometheus. One instance is
// shared by every service; each service sees only the slice of methods
// its own MetricsCollector interface declares.
type Collector struct {
	operationDuration *prometheus.HistogramVec
	cacheRequests     *prometheus.CounterVec
	transactions      *prometheus.CounterVec
	payoutFailures    *prometheus.CounterVec
	inconsistencies   prometheus.Counter
}

// NewCollector registers the arena metrics on reg. Pass nil to use the
// default registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		operationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "arena_wallet_operation_duration_seconds",
			Help:    "Latency of wallet ledger operations",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"operation"}),
		cacheRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "arena_cache_requests_total",
			Help: "Cache lookups by result",
		}, []string{"lookup", "result"}),
		transactions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "arena_transactions_total",
			Help: "Ledger transactions written, by type and final status",
		}, []string{"type", "status"}),
		payoutFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "arena_payout_failures_total",
			Help: "Withdrawal payout attempts that ended in a failure state",
		}, []string{"status"}),
		inconsistencies: factory.NewCounter(prometheus.CounterOpts{
			Name: "arena_critical_inconsistencies_total",
			Help: "Committed states that require manual reconciliation",
		}),
	}
}

func (c *Collector) RecordOperationDuration(operation string, duration time.Duration) {
	c.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (c *Collector) RecordCacheHit(lookup string) {
	c.cacheRequests.WithLabelValues(lookup, "hit").Inc()
}

func (c *Collector) RecordCacheMiss(lookup string) {
	c.cacheRequests.WithLabelValues(lookup, "miss").Inc()
}

func (c *Collector) RecordTransaction(txType, status string) {
	c.transactions.WithLabelValues(txType, status).Inc()
}

func (c *Collector) RecordPayoutFailure(status string) {
	c.payoutFailures.WithLabelValues(status).Inc()
}

func (c *Collector) RecordCriticalInconsistency() {
	c.inconsistencies.Inc()
}
