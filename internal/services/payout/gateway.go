// Package payout abstracts the external money-movement provider used to
// pay withdrawals. Once a payout call is issued it is never silently
// abandoned: the caller records a terminal outcome for every result.
package payout

import (
	"context"
	"time"

	domainErrors "arena/internal/errors"
	"arena/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultTimeout bounds a single payout API call.
const DefaultTimeout = 30 * time.Second

// PayoutRequest describes one payout to a player.
type PayoutRequest struct {
	Amount           decimal.Decimal
	Currency         string
	RecipientDetails models.JSON
	// ReferenceID deduplicates the payout on the provider side, so a
	// retried call cannot move money twice.
	ReferenceID string
}

// PayoutResult is the provider's acknowledgement.
type PayoutResult struct {
	GatewayReference string
}

// Gateway is implemented by payout providers.
type Gateway interface {
	ProcessPayout(ctx context.Context, req PayoutRequest) (*PayoutResult, error)
}

var ErrMissingRecipient = domainErrors.Validation("payout details missing stripe_account_id")
