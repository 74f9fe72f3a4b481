package transaction

import domainErrors "arena/internal/errors"

// Service errors
var (
	ErrTransactionNotFound = domainErrors.ErrTransactionNotFound
	ErrInvalidAmount       = domainErrors.ErrInvalidAmount
	ErrCurrencyMismatch    = domainErrors.ErrCurrencyMismatch
	ErrMissingKey          = domainErrors.Validation("an idempotency key is required for this operation")
	ErrRefundReason        = domainErrors.Validation("a refund reason is required")
	ErrRefundDirection     = domainErrors.Validation("only debit transactions can be refunded")
)
