package withdrawal

import (
	"github.com/shopspring/decimal"

	"arena/internal/models"
)

// WithdrawalRequest carries a user's withdrawal submission. UserID and
// IdempotencyKey come from the request context, not the body, and are
// excluded from the fingerprint hash.
type WithdrawalRequest struct {
	UserID         uint            `json:"-"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency,omitempty"`
	PayoutDetails  models.JSON     `json:"payout_details"`
	IdempotencyKey string          `json:"-"`
}

// WithdrawalResponse acknowledges a registered withdrawal request.
type WithdrawalResponse struct {
	TransactionID uint                     `json:"transaction_id"`
	Status        models.TransactionStatus `json:"status"`
	Amount        decimal.Decimal          `json:"amount"`
	Message       string                   `json:"message"`
}

// MetricsCollector defines the metrics this service emits.
type MetricsCollector interface {
	RecordTransaction(txType, status string)
	RecordPayoutFailure(reason string)
	RecordCriticalInconsistency()
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordTransaction(string, string) {}
func (n *NoopMetricsCollector) RecordPayoutFailure(string)       {}
func (n *NoopMetricsCollector) RecordCriticalInconsistency()     {}
