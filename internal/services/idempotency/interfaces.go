// Package idempotency is the registry that makes money operations safe
// to retry. Callers reserve a key inside the operation's transaction,
// then record the outcome once the transaction has finished, so every
// replay of the key sees exactly the response the first attempt
// produced.
package idempotency

import (
	"context"
	"encoding/json"

	domainErrors "arena/internal/errors"

	"gorm.io/gorm"
)

// Fingerprint identifies the caller and payload bound to a key. A replay
// must present the same fingerprint; reusing a key for a different
// request is a conflict.
type Fingerprint struct {
	UserID      uint
	RequestPath string
	RequestHash string
}

// StoredResponse is the recorded outcome replayed for duplicates.
type StoredResponse struct {
	Code int
	Body []byte
}

// AsError converts a stored failure back into the domain error it
// recorded, or returns nil for a stored success. Replaying a failed key
// therefore surfaces the same error category, message and HTTP status as
// the first attempt.
func (r *StoredResponse) AsError() error {
	if r == nil || r.Code < 400 {
		return nil
	}
	var payload struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.Unmarshal(r.Body, &payload); err != nil || payload.Code == "" {
		return domainErrors.Conflict("idempotency key is bound to an unreadable failure record")
	}
	return &domainErrors.DomainError{Code: payload.Code, Message: payload.Error}
}

// CheckResult tells the caller whether to run the operation.
type CheckResult struct {
	// IsNewRequest is true when the key was reserved for this caller and
	// the guarded operation must run.
	IsNewRequest bool
	// Response holds the stored outcome when IsNewRequest is false.
	Response *StoredResponse
}

// Service is the idempotency registry.
type Service interface {
	// CheckAndLock runs inside the guarded operation's transaction. It
	// reserves an unknown key (the reservation commits or rolls back with
	// the operation), replays the stored response for a finished key with
	// a matching fingerprint, and returns a conflict for an in-flight key
	// or a fingerprint mismatch. An empty key means the operation is not
	// idempotent and is always treated as new.
	CheckAndLock(tx *gorm.DB, key string, fp Fingerprint) (*CheckResult, error)

	// MarkCompleted records the outcome after the operation's transaction
	// committed. Best effort: a marking failure is logged, never returned,
	// and leaves the key permanently in progress.
	MarkCompleted(ctx context.Context, key string, response StoredResponse)

	// MarkFailed records a deterministic business failure after the
	// operation's transaction rolled back. The reservation rolled back
	// with it, so this writes a fresh FAILED record. Best effort, like
	// MarkCompleted.
	MarkFailed(ctx context.Context, key string, fp Fingerprint, response StoredResponse)
}
