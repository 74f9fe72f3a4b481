package transaction

// MetricsCollector defines the metrics this service emits.
type MetricsCollector interface {
	RecordTransaction(txType, status string)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordTransaction(string, string) {}
