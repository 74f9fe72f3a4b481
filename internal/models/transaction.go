package models

import (
	"time"

	"github.com/shopspring/decimal"

	domainErrors "arena/internal/errors"
)

// TransactionType classifies ledger entries. Direction is derived from
// the type: Amount is always positive and IsCredit decides the sign.
type TransactionType string

const (
	TransactionTypeDeposit          TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal       TransactionType = "WITHDRAWAL"
	TransactionTypeTournamentFee    TransactionType = "TOURNAMENT_FEE"
	TransactionTypePrizePayout      TransactionType = "PRIZE_PAYOUT"
	TransactionTypeRefund           TransactionType = "REFUND"
	TransactionTypeAdjustmentCredit TransactionType = "ADJUSTMENT_CREDIT"
	TransactionTypeAdjustmentDebit  TransactionType = "ADJUSTMENT_DEBIT"
)

// IsCredit reports whether the type adds funds to the wallet.
func (t TransactionType) IsCredit() bool {
	switch t {
	case TransactionTypeDeposit, TransactionTypePrizePayout, TransactionTypeRefund, TransactionTypeAdjustmentCredit:
		return true
	}
	return false
}

// Valid reports whether the type is one the ledger accepts.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeDeposit, TransactionTypeWithdrawal, TransactionTypeTournamentFee,
		TransactionTypePrizePayout, TransactionTypeRefund,
		TransactionTypeAdjustmentCredit, TransactionTypeAdjustmentDebit:
		return true
	}
	return false
}

// InitialStatus returns the status a new transaction of this type is
// created with. Withdrawals wait for manual approval, deposits wait for
// the payment collector, everything else settles in the creating scope.
func (t TransactionType) InitialStatus() TransactionStatus {
	switch t {
	case TransactionTypeDeposit:
		return TransactionStatusPending
	case TransactionTypeWithdrawal:
		return TransactionStatusRequiresApproval
	default:
		return TransactionStatusCompleted
	}
}

// TransactionStatus is the lifecycle state of a transaction.
type TransactionStatus string

const (
	TransactionStatusPending          TransactionStatus = "PENDING"
	TransactionStatusRequiresApproval TransactionStatus = "REQUIRES_APPROVAL"
	TransactionStatusProcessing       TransactionStatus = "PROCESSING"
	TransactionStatusCompleted        TransactionStatus = "COMPLETED"
	TransactionStatusFailed           TransactionStatus = "FAILED"
	TransactionStatusCanceled         TransactionStatus = "CANCELED"
	TransactionStatusRejected         TransactionStatus = "REJECTED"
	TransactionStatusPaymentFailed    TransactionStatus = "PAYMENT_FAILED"
	TransactionStatusRefunded         TransactionStatus = "REFUNDED"

	// TransactionStatusPostPaymentShortfall marks a withdrawal whose payout
	// was issued but whose wallet no longer covered the debit. Money has
	// left the gateway without a matching ledger debit; operators must
	// reconcile these rows by hand.
	TransactionStatusPostPaymentShortfall TransactionStatus = "ERROR_INSUFFICIENT_FUNDS_POST_PAYMENT"
)

// validTransitions is the whole lifecycle graph. A status with no entry
// is terminal.
var validTransitions = map[TransactionStatus][]TransactionStatus{
	TransactionStatusPending: {
		TransactionStatusCompleted,
		TransactionStatusCanceled,
		TransactionStatusFailed,
	},
	TransactionStatusProcessing: {
		TransactionStatusCompleted,
		TransactionStatusFailed,
	},
	TransactionStatusRequiresApproval: {
		TransactionStatusCompleted,
		TransactionStatusCanceled,
		TransactionStatusFailed,
		TransactionStatusRejected,
		TransactionStatusPaymentFailed,
		TransactionStatusPostPaymentShortfall,
	},
}

// CanTransitionTo reports whether the lifecycle graph has an edge from s
// to next.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s has no outbound edges.
func (s TransactionStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// Valid reports whether s is a status the lifecycle knows about.
func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusRequiresApproval, TransactionStatusProcessing,
		TransactionStatusCompleted, TransactionStatusFailed, TransactionStatusCanceled,
		TransactionStatusRejected, TransactionStatusPaymentFailed, TransactionStatusRefunded,
		TransactionStatusPostPaymentShortfall:
		return true
	}
	return false
}

// RequiresReason reports whether entering s must record an explanation.
func (s TransactionStatus) RequiresReason() bool {
	switch s {
	case TransactionStatusCanceled, TransactionStatusFailed, TransactionStatusRejected:
		return true
	}
	return false
}

// Transaction is one ledger entry. Rows are never deleted; after creation
// only Status, Description and Metadata may change, and Status only along
// the lifecycle graph.
type Transaction struct {
	ID              uint              `gorm:"primarykey" json:"id"`
	WalletID        uint              `gorm:"index;not null" json:"wallet_id"`
	Type            TransactionType   `gorm:"size:32;not null;index" json:"type"`
	Amount          decimal.Decimal   `gorm:"type:numeric(20,2);not null" json:"amount"`
	Status          TransactionStatus `gorm:"size:48;not null;index" json:"status"`
	IdempotencyKey  *string           `gorm:"size:64;uniqueIndex" json:"idempotency_key,omitempty"`
	Description     string            `json:"description"`
	Metadata        JSON              `gorm:"type:jsonb" json:"metadata,omitempty"`
	TransactionDate time.Time         `gorm:"index;not null" json:"transaction_date"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// TransitionTo moves the transaction to next along the lifecycle graph.
// Statuses that demand an explanation reject an empty reason; when given,
// the reason is recorded in the metadata. On error the transaction is
// left untouched.
func (t *Transaction) TransitionTo(next TransactionStatus, reason string) error {
	if !t.Status.CanTransitionTo(next) {
		return domainErrors.InvalidStateTransition("transaction %d cannot move from %s to %s", t.ID, t.Status, next)
	}
	if next.RequiresReason() && reason == "" {
		return domainErrors.Validation("a reason is required to move a transaction to %s", next)
	}
	if reason != "" {
		t.Metadata = t.Metadata.With("reason", reason)
	}
	t.Status = next
	return nil
}
