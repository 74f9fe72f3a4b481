package payout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/transfer"
)

// StripeGateway pays players through Stripe Connect transfers to their
// connected account.
type StripeGateway struct {
	timeout time.Duration
}

func NewStripeGateway(apiKey string, timeout time.Duration) *StripeGateway {
	stripe.Key = apiKey
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &StripeGateway{timeout: timeout}
}

func (g *StripeGateway) ProcessPayout(ctx context.Context, req PayoutRequest) (*PayoutResult, error) {
	account, _ := req.RecipientDetails["stripe_account_id"].(string)
	if account == "" {
		return nil, ErrMissingRecipient
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := &stripe.TransferParams{
		Params:      stripe.Params{Context: ctx},
		Amount:      stripe.Int64(minorUnits(req.Amount)),
		Currency:    stripe.String(strings.ToLower(req.Currency)),
		Destination: stripe.String(account),
	}
	params.SetIdempotencyKey(req.ReferenceID)
	params.AddMetadata("withdrawal_reference", req.ReferenceID)

	tr, err := transfer.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe transfer failed: %w", err)
	}
	return &PayoutResult{GatewayReference: tr.ID}, nil
}

// minorUnits converts a two-decimal amount to integer cents.
func minorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).IntPart()
}
