package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	domainErrors "arena/internal/errors"
	"arena/internal/models"
	"arena/internal/repositories"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type service struct {
	repo repositories.IdempotencyRepository
}

// NewService creates the idempotency registry.
func NewService(repo repositories.IdempotencyRepository) Service {
	if repo == nil {
		panic("idempotency repository is required")
	}
	return &service{repo: repo}
}

func (s *service) CheckAndLock(tx *gorm.DB, key string, fp Fingerprint) (*CheckResult, error) {
	if key == "" {
		return &CheckResult{IsNewRequest: true}, nil
	}

	record, err := s.repo.LockByKey(tx, key)
	if err != nil {
		return nil, err
	}

	if record == nil {
		// Unknown key: reserve it in the caller's transaction. A
		// concurrent reservation surfaces as a duplicate-key conflict.
		reservation := &models.IdempotencyRecord{
			Key:         key,
			UserID:      fp.UserID,
			RequestPath: fp.RequestPath,
			RequestHash: fp.RequestHash,
			Status:      models.IdempotencyStatusPending,
		}
		if err := s.repo.Create(tx, reservation); err != nil {
			return nil, err
		}
		return &CheckResult{IsNewRequest: true}, nil
	}

	if !record.FingerprintMatches(fp.UserID, fp.RequestPath, fp.RequestHash) {
		return nil, domainErrors.Conflict("idempotency key reused with a different request")
	}

	if !record.Finished() {
		return nil, domainErrors.Conflict("a request with this idempotency key is already in progress")
	}

	return &CheckResult{
		IsNewRequest: false,
		Response: &StoredResponse{
			Code: record.ResponseCode,
			Body: record.ResponseBody,
		},
	}, nil
}

func (s *service) MarkCompleted(ctx context.Context, key string, response StoredResponse) {
	if key == "" {
		return
	}
	if err := s.repo.MarkCompleted(ctx, key, response.Code, response.Body); err != nil {
		// The operation committed but the key is stuck PENDING, so every
		// replay will now conflict instead of replaying the response.
		log.WithFields(log.Fields{
			"idempotency_key": key,
			"response_code":   response.Code,
		}).Errorf("CRITICAL: failed to finalize idempotency record after commit: %v", err)
	}
}

func (s *service) MarkFailed(ctx context.Context, key string, fp Fingerprint, response StoredResponse) {
	if key == "" {
		return
	}
	now := time.Now()
	record := &models.IdempotencyRecord{
		Key:          key,
		UserID:       fp.UserID,
		RequestPath:  fp.RequestPath,
		RequestHash:  fp.RequestHash,
		Status:       models.IdempotencyStatusFailed,
		ResponseCode: response.Code,
		ResponseBody: response.Body,
		FailedAt:     &now,
	}
	if err := s.repo.SaveFailure(ctx, record); err != nil {
		log.WithFields(log.Fields{
			"idempotency_key": key,
			"response_code":   response.Code,
		}).Errorf("CRITICAL: failed to record idempotency failure: %v", err)
	}
}

// HashRequest fingerprints a request payload as the hex sha256 of its
// JSON encoding. Handlers hash the parsed request struct, not the raw
// body, so formatting differences do not change the fingerprint.
func HashRequest(payload interface{}) string {
	data, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
