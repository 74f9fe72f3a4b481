package wallet

import domainErrors "arena/internal/errors"

// Service errors. All are domain errors so handlers can map them to an
// HTTP status by code.
var (
	ErrWalletNotFound      = domainErrors.ErrWalletNotFound
	ErrInsufficientBalance = domainErrors.ErrInsufficientBalance
	ErrInvalidAmount       = domainErrors.ErrInvalidAmount
	ErrInvalidCurrency     = domainErrors.Validation("invalid or unsupported currency")
)
