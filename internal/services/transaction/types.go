package transaction

import (
	"time"

	"arena/internal/models"

	"github.com/shopspring/decimal"
)

// DepositRequest starts a deposit that an external payment collector
// later confirms or cancels.
type DepositRequest struct {
	UserID         uint            `json:"-"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	IdempotencyKey string          `json:"-"`
}

// DepositResponse is returned on initiation and stored for idempotent
// replay.
type DepositResponse struct {
	Transaction      *models.Transaction `json:"transaction"`
	PaymentReference string              `json:"payment_reference"`
}

// HistoryQuery filters and pages a user's transaction history. Zero
// values mean "no constraint".
type HistoryQuery struct {
	Type    models.TransactionType
	Status  models.TransactionStatus
	From    time.Time
	To      time.Time
	SortAsc bool
	Page    int
	Limit   int
}

// FeeRequest charges a tournament entry fee. Sent by the tournament
// engine, which must retry with the same idempotency key.
type FeeRequest struct {
	UserID         uint            `json:"user_id"`
	Amount         decimal.Decimal `json:"amount"`
	TournamentRef  string          `json:"tournament_ref"`
	IdempotencyKey string          `json:"-"`
}

// PrizeRequest credits tournament winnings.
type PrizeRequest struct {
	UserID         uint            `json:"user_id"`
	Amount         decimal.Decimal `json:"amount"`
	TournamentRef  string          `json:"tournament_ref"`
	IdempotencyKey string          `json:"-"`
}

// AdjustmentRequest is a manual admin correction. Credit picks the
// direction; the reason is recorded on the ledger entry.
type AdjustmentRequest struct {
	AdminID        uint            `json:"-"`
	UserID         uint            `json:"user_id"`
	Amount         decimal.Decimal `json:"amount"`
	Credit         bool            `json:"credit"`
	Reason         string          `json:"reason"`
	IdempotencyKey string          `json:"-"`
}

// RefundRequest credits back a completed debit transaction. The refund
// is a new REFUND entry linked to the original; the original keeps its
// terminal status.
type RefundRequest struct {
	AdminID               uint   `json:"-"`
	OriginalTransactionID uint   `json:"-"`
	Reason                string `json:"reason"`
}
