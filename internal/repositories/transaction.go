package repositories

import (
	"context"
	"time"

	"arena/internal/models"

	"gorm.io/gorm"
)

// TransactionFilter narrows and pages a transaction history query. Zero
// values mean "no constraint"; results are ordered by transaction date,
// newest first unless SortAsc is set.
type TransactionFilter struct {
	WalletID uint
	Type     models.TransactionType
	Status   models.TransactionStatus
	From     time.Time
	To       time.Time
	SortAsc  bool
	Limit    int
	Offset   int
}

// TransactionRepository defines transaction-log persistence. Methods
// taking a *gorm.DB run inside the caller's transaction; LockByID holds
// a row lock until that transaction ends.
type TransactionRepository interface {
	Create(tx *gorm.DB, txn *models.Transaction) error
	Update(tx *gorm.DB, txn *models.Transaction) error
	LockByID(tx *gorm.DB, id uint) (*models.Transaction, error)

	GetByID(ctx context.Context, id uint) (*models.Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]models.Transaction, int64, error)
	ListByStatus(ctx context.Context, status models.TransactionStatus, txType models.TransactionType, limit, offset int) ([]models.Transaction, int64, error)
}
