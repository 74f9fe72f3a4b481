package wallet

import (
	"context"

	"arena/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service defines the wallet ledger interface.
type Service interface {
	// Wallet management
	CreateWallet(ctx context.Context, userID uint, currency string) (*models.Wallet, error)
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	GetWalletByID(ctx context.Context, walletID uint) (*models.Wallet, error)
	GetBalance(ctx context.Context, userID uint) (decimal.Decimal, error)

	// ValidateBalance is an advisory check outside any lock. The
	// authoritative check happens inside Debit under the row lock.
	ValidateBalance(ctx context.Context, userID uint, amount decimal.Decimal) error

	// Balance mutations. Both run inside the caller's transaction, lock
	// the wallet row and return the updated wallet. The caller writes the
	// matching ledger entry in the same scope and invalidates the cache
	// after commit.
	Debit(tx *gorm.DB, walletID uint, amount decimal.Decimal) (*models.Wallet, error)
	Credit(tx *gorm.DB, walletID uint, amount decimal.Decimal) (*models.Wallet, error)

	InvalidateCache(ctx context.Context, userID uint)
}

// CacheOperator is the slice of the cache layer the service uses.
type CacheOperator interface {
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, bool, error)
	CacheWallet(ctx context.Context, wallet *models.Wallet) error
	InvalidateWallet(ctx context.Context, userID uint) error
}
