package wallet

import "time"

// MetricsCollector defines the metrics the ledger emits. The prometheus
// implementation lives in internal/observability; a nil collector is
// replaced with a no-op.
type MetricsCollector interface {
	RecordOperationDuration(operation string, duration time.Duration)
	RecordCacheHit(key string)
	RecordCacheMiss(key string)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordOperationDuration(string, time.Duration) {}
func (n *NoopMetricsCollector) RecordCacheHit(string)                         {}
func (n *NoopMetricsCollector) RecordCacheMiss(string)                        {}
