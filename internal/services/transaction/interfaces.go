package transaction

import (
	"context"

	"arena/internal/models"
	"arena/internal/services/idempotency"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service owns the transaction log: deposits, immediate settlements and
// the history read path. Withdrawals live in the withdrawal package.
type Service interface {
	// Deposits
	InitializeDeposit(ctx context.Context, req DepositRequest) (*DepositResponse, error)
	ConfirmDeposit(ctx context.Context, transactionID uint, gatewayReference string) (*models.Transaction, error)
	CancelDeposit(ctx context.Context, transactionID uint, reason string) (*models.Transaction, error)

	// Reads
	GetTransaction(ctx context.Context, id uint) (*models.Transaction, error)
	GetHistory(ctx context.Context, userID uint, q HistoryQuery) ([]models.Transaction, int64, error)

	// Immediate settlements: debit or credit plus its ledger entry in one
	// atomic scope.
	ChargeTournamentFee(ctx context.Context, req FeeRequest) (*models.Transaction, error)
	CreditPrize(ctx context.Context, req PrizeRequest) (*models.Transaction, error)
	Adjust(ctx context.Context, req AdjustmentRequest) (*models.Transaction, error)
	Refund(ctx context.Context, req RefundRequest) (*models.Transaction, error)
}

// Transactor runs a function inside a database transaction.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// WalletService is the slice of the ledger this service uses.
type WalletService interface {
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	GetWalletByID(ctx context.Context, walletID uint) (*models.Wallet, error)
	Debit(tx *gorm.DB, walletID uint, amount decimal.Decimal) (*models.Wallet, error)
	Credit(tx *gorm.DB, walletID uint, amount decimal.Decimal) (*models.Wallet, error)
	InvalidateCache(ctx context.Context, userID uint)
}

// IdempotencyService is the slice of the registry this service uses.
type IdempotencyService interface {
	CheckAndLock(tx *gorm.DB, key string, fp idempotency.Fingerprint) (*idempotency.CheckResult, error)
	MarkCompleted(ctx context.Context, key string, response idempotency.StoredResponse)
	MarkFailed(ctx context.Context, key string, fp idempotency.Fingerprint, response idempotency.StoredResponse)
}
