package repositories

import (
	"context"

	"arena/internal/models"

	"gorm.io/gorm"
)

// IdempotencyRepository persists idempotency records. LockByKey and
// Create run inside the caller's transaction so the reservation commits
// or rolls back with the guarded operation; MarkCompleted and
// SaveFailure run on their own connection after that transaction has
// finished.
type IdempotencyRepository interface {
	// LockByKey returns the record for key with a row lock held until the
	// caller's transaction ends, or (nil, nil) when the key is unknown.
	LockByKey(tx *gorm.DB, key string) (*models.IdempotencyRecord, error)
	Create(tx *gorm.DB, record *models.IdempotencyRecord) error

	MarkCompleted(ctx context.Context, key string, responseCode int, responseBody []byte) error
	// SaveFailure upserts a FAILED record by key. Used after a rollback,
	// when the PENDING reservation no longer exists.
	SaveFailure(ctx context.Context, record *models.IdempotencyRecord) error
}
