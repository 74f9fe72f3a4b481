package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	domainErrors "arena/internal/errors"
)

func TestTransactionStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from TransactionStatus
		to   TransactionStatus
		want bool
	}{
		{"pending to completed", TransactionStatusPending, TransactionStatusCompleted, true},
		{"pending to canceled", TransactionStatusPending, TransactionStatusCanceled, true},
		{"pending to failed", TransactionStatusPending, TransactionStatusFailed, true},
		{"pending to rejected", TransactionStatusPending, TransactionStatusRejected, false},
		{"pending to requires approval", TransactionStatusPending, TransactionStatusRequiresApproval, false},

		{"processing to completed", TransactionStatusProcessing, TransactionStatusCompleted, true},
		{"processing to failed", TransactionStatusProcessing, TransactionStatusFailed, true},
		{"processing to canceled", TransactionStatusProcessing, TransactionStatusCanceled, false},

		{"requires approval to completed", TransactionStatusRequiresApproval, TransactionStatusCompleted, true},
		{"requires approval to canceled", TransactionStatusRequiresApproval, TransactionStatusCanceled, true},
		{"requires approval to failed", TransactionStatusRequiresApproval, TransactionStatusFailed, true},
		{"requires approval to rejected", TransactionStatusRequiresApproval, TransactionStatusRejected, true},
		{"requires approval to payment failed", TransactionStatusRequiresApproval, TransactionStatusPaymentFailed, true},
		{"requires approval to post-payment shortfall", TransactionStatusRequiresApproval, TransactionStatusPostPaymentShortfall, true},
		{"requires approval to pending", TransactionStatusRequiresApproval, TransactionStatusPending, false},

		{"completed is terminal", TransactionStatusCompleted, TransactionStatusRefunded, false},
		{"canceled is terminal", TransactionStatusCanceled, TransactionStatusPending, false},
		{"failed is terminal", TransactionStatusFailed, TransactionStatusPending, false},
		{"rejected is terminal", TransactionStatusRejected, TransactionStatusRequiresApproval, false},
		{"payment failed is terminal", TransactionStatusPaymentFailed, TransactionStatusRequiresApproval, false},
		{"shortfall is terminal", TransactionStatusPostPaymentShortfall, TransactionStatusCompleted, false},
		{"self transition is not allowed", TransactionStatusPending, TransactionStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestTransactionStatus_IsTerminal(t *testing.T) {
	terminal := []TransactionStatus{
		TransactionStatusCompleted,
		TransactionStatusFailed,
		TransactionStatusCanceled,
		TransactionStatusRejected,
		TransactionStatusPaymentFailed,
		TransactionStatusRefunded,
		TransactionStatusPostPaymentShortfall,
	}
	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), "expected %s to be terminal", s)
	}

	open := []TransactionStatus{
		TransactionStatusPending,
		TransactionStatusProcessing,
		TransactionStatusRequiresApproval,
	}
	for _, s := range open {
		assert.False(t, s.IsTerminal(), "expected %s to be open", s)
	}
}

func TestTransaction_TransitionTo(t *testing.T) {
	t.Run("valid transition updates the status", func(t *testing.T) {
		txn := &Transaction{ID: 1, Status: TransactionStatusPending}

		err := txn.TransitionTo(TransactionStatusCompleted, "")

		assert.NoError(t, err)
		assert.Equal(t, TransactionStatusCompleted, txn.Status)
	})

	t.Run("invalid transition leaves the transaction untouched", func(t *testing.T) {
		txn := &Transaction{ID: 1, Status: TransactionStatusCompleted}

		err := txn.TransitionTo(TransactionStatusPending, "")

		assert.ErrorIs(t, err, domainErrors.ErrInvalidStateTransition)
		assert.Equal(t, TransactionStatusCompleted, txn.Status)
	})

	t.Run("reason is required for rejection", func(t *testing.T) {
		txn := &Transaction{ID: 1, Status: TransactionStatusRequiresApproval}

		err := txn.TransitionTo(TransactionStatusRejected, "")

		assert.ErrorIs(t, err, domainErrors.ErrValidation)
		assert.Equal(t, TransactionStatusRequiresApproval, txn.Status)
	})

	t.Run("reason is recorded in metadata", func(t *testing.T) {
		txn := &Transaction{ID: 1, Status: TransactionStatusRequiresApproval}

		err := txn.TransitionTo(TransactionStatusRejected, "suspicious destination")

		assert.NoError(t, err)
		assert.Equal(t, TransactionStatusRejected, txn.Status)
		assert.Equal(t, "suspicious destination", txn.Metadata["reason"])
	})

	t.Run("optional reason is still recorded", func(t *testing.T) {
		txn := &Transaction{ID: 1, Status: TransactionStatusPending}

		err := txn.TransitionTo(TransactionStatusCompleted, "collector confirmed")

		assert.NoError(t, err)
		assert.Equal(t, "collector confirmed", txn.Metadata["reason"])
	})

	t.Run("a recorded reason cannot be overwritten", func(t *testing.T) {
		// Every reachable target is terminal, so a second transition
		// must bounce off before it can touch the metadata.
		txn := &Transaction{ID: 1, Status: TransactionStatusRequiresApproval}
		assert.NoError(t, txn.TransitionTo(TransactionStatusRejected, "suspicious destination"))

		err := txn.TransitionTo(TransactionStatusFailed, "second opinion")

		assert.ErrorIs(t, err, domainErrors.ErrInvalidStateTransition)
		assert.Equal(t, TransactionStatusRejected, txn.Status)
		assert.Equal(t, "suspicious destination", txn.Metadata["reason"])
	})
}

func TestTransactionType_IsCredit(t *testing.T) {
	credits := []TransactionType{
		TransactionTypeDeposit,
		TransactionTypePrizePayout,
		TransactionTypeRefund,
		TransactionTypeAdjustmentCredit,
	}
	for _, typ := range credits {
		assert.True(t, typ.IsCredit(), "expected %s to credit the wallet", typ)
	}

	debits := []TransactionType{
		TransactionTypeWithdrawal,
		TransactionTypeTournamentFee,
		TransactionTypeAdjustmentDebit,
	}
	for _, typ := range debits {
		assert.False(t, typ.IsCredit(), "expected %s to debit the wallet", typ)
	}
}

func TestTransactionType_InitialStatus(t *testing.T) {
	assert.Equal(t, TransactionStatusPending, TransactionTypeDeposit.InitialStatus())
	assert.Equal(t, TransactionStatusRequiresApproval, TransactionTypeWithdrawal.InitialStatus())
	assert.Equal(t, TransactionStatusCompleted, TransactionTypeTournamentFee.InitialStatus())
	assert.Equal(t, TransactionStatusCompleted, TransactionTypePrizePayout.InitialStatus())
	assert.Equal(t, TransactionStatusCompleted, TransactionTypeAdjustmentDebit.InitialStatus())
}

func TestWallet_CanCover(t *testing.T) {
	w := &Wallet{Balance: decimal.NewFromInt(100)}

	assert.True(t, w.CanCover(decimal.NewFromInt(100)))
	assert.True(t, w.CanCover(decimal.NewFromInt(99)))
	assert.False(t, w.CanCover(decimal.NewFromInt(101)))
	assert.False(t, w.CanCover(decimal.RequireFromString("100.01")))
}
