package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainErrors "arena/internal/errors"
	"arena/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type idempotencyRepository struct {
	db *gorm.DB
}

func NewIdempotencyRepository(db *gorm.DB) IdempotencyRepository {
	return &idempotencyRepository{
		db: db,
	}
}

func (r *idempotencyRepository) LockByKey(tx *gorm.DB, key string) (*models.IdempotencyRecord, error) {
	var record models.IdempotencyRecord
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("key = ?", key).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock idempotency record: %w", err)
	}
	return &record, nil
}

func (r *idempotencyRepository) Create(tx *gorm.DB, record *models.IdempotencyRecord) error {
	if err := tx.Create(record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainErrors.Conflict("a request with this idempotency key is already in progress")
		}
		return fmt.Errorf("failed to create idempotency record: %w", err)
	}
	return nil
}

func (r *idempotencyRepository) MarkCompleted(ctx context.Context, key string, responseCode int, responseBody []byte) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.IdempotencyRecord{}).
		Where("key = ? AND status = ?", key, models.IdempotencyStatusPending).
		Updates(map[string]interface{}{
			"status":        models.IdempotencyStatusCompleted,
			"response_code": responseCode,
			"response_body": responseBody,
			"completed_at":  &now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark idempotency record completed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainErrors.NotFound("no pending idempotency record for key")
	}
	return nil
}

func (r *idempotencyRepository) SaveFailure(ctx context.Context, record *models.IdempotencyRecord) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "response_code", "response_body", "failed_at", "updated_at"}),
		}).
		Create(record).Error
	if err != nil {
		return fmt.Errorf("failed to save idempotency failure: %w", err)
	}
	return nil
}
