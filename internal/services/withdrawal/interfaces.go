package withdrawal

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"arena/internal/models"
	"arena/internal/services/idempotency"
	"arena/internal/services/payout"
)

// Service manages the withdrawal lifecycle from request to settlement.
type Service interface {
	// Request registers a withdrawal for manual approval. The balance
	// check is advisory; no funds are reserved until the withdrawal is
	// approved. An idempotency key makes the call safe to retry.
	Request(ctx context.Context, req WithdrawalRequest) (*WithdrawalResponse, error)

	// Approve executes an approved withdrawal: it issues the payout and
	// then debits the wallet. Failures after the payout call are
	// committed on the transaction record rather than rolled back, so
	// the returned transaction must be inspected even when err is
	// non-nil.
	Approve(ctx context.Context, transactionID uint, approverID uint, notes string) (*models.Transaction, error)

	// Reject declines a pending withdrawal with a mandatory reason.
	Reject(ctx context.Context, transactionID uint, approverID uint, reason string) (*models.Transaction, error)

	// ListPendingApprovals returns withdrawals awaiting review, oldest
	// first.
	ListPendingApprovals(ctx context.Context, page, limit int) ([]models.Transaction, int64, error)
}

// Transactor runs a function within a database transaction scope.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// WalletService is the slice of the wallet ledger this service uses.
type WalletService interface {
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	GetWalletByID(ctx context.Context, walletID uint) (*models.Wallet, error)
	Debit(tx *gorm.DB, walletID uint, amount decimal.Decimal) (*models.Wallet, error)
	InvalidateCache(ctx context.Context, userID uint)
}

// IdempotencyService guards Request against duplicate submissions.
type IdempotencyService interface {
	CheckAndLock(tx *gorm.DB, key string, fp idempotency.Fingerprint) (*idempotency.CheckResult, error)
	MarkCompleted(ctx context.Context, key string, resp idempotency.StoredResponse)
	MarkFailed(ctx context.Context, key string, fp idempotency.Fingerprint, resp idempotency.StoredResponse)
}

// Gateway issues payouts with an external provider.
type Gateway interface {
	ProcessPayout(ctx context.Context, req payout.PayoutRequest) (*payout.PayoutResult, error)
}
