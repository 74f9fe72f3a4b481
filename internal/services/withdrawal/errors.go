package withdrawal

import (
	domainErrors "arena/internal/errors"
)

// Errors returned by the withdrawal service.
var (
	ErrInvalidAmount       = domainErrors.ErrInvalidAmount
	ErrInsufficientBalance = domainErrors.ErrInsufficientBalance
	ErrCurrencyMismatch    = domainErrors.ErrCurrencyMismatch

	ErrRejectReason = domainErrors.Validation("a reason is required to reject a withdrawal")

	ErrMissingPayoutDetails = domainErrors.Validation("payout details are required to request a withdrawal")
)
