package transaction

// Request paths recorded in idempotency fingerprints.
const (
	PathDeposit    = "/api/wallet/deposits"
	PathFee        = "/api/internal/fees"
	PathPrize      = "/api/internal/prizes"
	PathAdjustment = "/api/admin/adjustments"
	PathRefund     = "/api/admin/refunds"
)

// Metadata keys used on ledger entries.
const (
	MetaPaymentReference    = "payment_reference"
	MetaGatewayReference    = "gateway_reference"
	MetaTournamentReference = "tournament_reference"
	MetaOriginalTransaction = "original_transaction_id"
	MetaActorID             = "actor_id"
)

// Pagination bounds for the history read path.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)
