package errors

// Ledger errors reused across the wallet, withdrawal and transaction
// services.
var (
	ErrInsufficientBalance = &DomainError{
		Code:    CodeInsufficientFunds,
		Message: "insufficient wallet balance",
	}
	ErrInvalidAmount = &DomainError{
		Code:    CodeValidation,
		Message: "amount must be greater than zero",
	}
	ErrWalletNotFound = &DomainError{
		Code:    CodeNotFound,
		Message: "wallet not found",
	}
	ErrCurrencyMismatch = &DomainError{
		Code:    CodeValidation,
		Message: "currency does not match the wallet",
	}
	ErrTransactionNotFound = &DomainError{
		Code:    CodeNotFound,
		Message: "transaction not found",
	}
)
