package repositories

import (
	"context"

	"arena/internal/models"

	"gorm.io/gorm"
)

// WalletRepository defines wallet persistence. Methods taking a *gorm.DB
// run inside the caller's transaction; the Lock variants acquire a row
// lock (SELECT ... FOR UPDATE) that is held until that transaction ends.
type WalletRepository interface {
	Create(ctx context.Context, wallet *models.Wallet) error
	GetByID(ctx context.Context, id uint) (*models.Wallet, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error)

	LockByID(tx *gorm.DB, id uint) (*models.Wallet, error)
	LockByUserID(tx *gorm.DB, userID uint) (*models.Wallet, error)
	Save(tx *gorm.DB, wallet *models.Wallet) error
}
