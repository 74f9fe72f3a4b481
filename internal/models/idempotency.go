package models

import "time"

// IdempotencyStatus tracks the recorded outcome for an idempotency key.
type IdempotencyStatus string

const (
	IdempotencyStatusPending   IdempotencyStatus = "PENDING"
	IdempotencyStatusCompleted IdempotencyStatus = "COMPLETED"
	IdempotencyStatusFailed    IdempotencyStatus = "FAILED"
)

// IdempotencyRecord reserves a client-supplied key and, once the guarded
// operation finishes, stores the response every replay of that key must
// see. UserID, RequestPath and RequestHash form the request fingerprint;
// a replay whose fingerprint differs is a conflicting reuse of the key.
type IdempotencyRecord struct {
	ID           uint              `gorm:"primarykey"`
	Key          string            `gorm:"size:64;uniqueIndex;not null"`
	UserID       uint              `gorm:"index;not null"`
	RequestPath  string            `gorm:"size:255;not null"`
	RequestHash  string            `gorm:"size:64;not null"`
	Status       IdempotencyStatus `gorm:"size:16;not null;default:'PENDING'"`
	ResponseCode int
	ResponseBody []byte `gorm:"type:jsonb"`
	CompletedAt  *time.Time
	FailedAt     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FingerprintMatches reports whether a replayed request carries the same
// caller, path and payload hash as the stored record.
func (r *IdempotencyRecord) FingerprintMatches(userID uint, requestPath, requestHash string) bool {
	return r.UserID == userID && r.RequestPath == requestPath && r.RequestHash == requestHash
}

// Finished reports whether the record already holds a terminal outcome.
func (r *IdempotencyRecord) Finished() bool {
	return r.Status == IdempotencyStatusCompleted || r.Status == IdempotencyStatusFailed
}
