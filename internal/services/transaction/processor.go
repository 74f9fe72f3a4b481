package transaction

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	domainErrors "arena/internal/errors"
	"arena/internal/models"
	"arena/internal/services/idempotency"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// settlementParams drives one immediate settlement: a balance change and
// its COMPLETED ledger entry written in a single scope.
type settlementParams struct {
	userID         uint
	txType         models.TransactionType
	amount         decimal.Decimal
	description    string
	metadata       models.JSON
	idempotencyKey string
	requestPath    string
	requestHash    string
}

func (s *service) ChargeTournamentFee(ctx context.Context, req FeeRequest) (*models.Transaction, error) {
	if req.TournamentRef == "" {
		return nil, domainErrors.Validation("a tournament reference is required")
	}
	return s.settle(ctx, settlementParams{
		userID:      req.UserID,
		txType:      models.TransactionTypeTournamentFee,
		amount:      req.Amount,
		description: fmt.Sprintf("entry fee for tournament %s", req.TournamentRef),
		metadata: models.JSON{
			MetaTournamentReference: req.TournamentRef,
		},
		idempotencyKey: req.IdempotencyKey,
		requestPath:    PathFee,
		requestHash:    idempotency.HashRequest(req),
	})
}

func (s *service) CreditPrize(ctx context.Context, req PrizeRequest) (*models.Transaction, error) {
	if req.TournamentRef == "" {
		return nil, domainErrors.Validation("a tournament reference is required")
	}
	return s.settle(ctx, settlementParams{
		userID:      req.UserID,
		txType:      models.TransactionTypePrizePayout,
		amount:      req.Amount,
		description: fmt.Sprintf("prize for tournament %s", req.TournamentRef),
		metadata: models.JSON{
			MetaTournamentReference: req.TournamentRef,
		},
		idempotencyKey: req.IdempotencyKey,
		requestPath:    PathPrize,
		requestHash:    idempotency.HashRequest(req),
	})
}

func (s *service) Adjust(ctx context.Context, req AdjustmentRequest) (*models.Transaction, error) {
	if req.Reason == "" {
		return nil, domainErrors.Validation("an adjustment reason is required")
	}
	txType := models.TransactionTypeAdjustmentDebit
	if req.Credit {
		txType = models.TransactionTypeAdjustmentCredit
	}
	return s.settle(ctx, settlementParams{
		userID:      req.UserID,
		txType:      txType,
		amount:      req.Amount,
		description: fmt.Sprintf("manual adjustment: %s", req.Reason),
		metadata: models.JSON{
			MetaActorID: req.AdminID,
			"reason":    req.Reason,
		},
		idempotencyKey: req.IdempotencyKey,
		requestPath:    PathAdjustment,
		requestHash:    idempotency.HashRequest(req),
	})
}

// Refund credits back a completed debit transaction as a new REFUND
// entry linked to the original. The original keeps its terminal status.
// The derived key makes a second refund of the same transaction replay
// the first one instead of paying twice.
func (s *service) Refund(ctx context.Context, req RefundRequest) (*models.Transaction, error) {
	if req.Reason == "" {
		return nil, ErrRefundReason
	}

	original, err := s.repo.GetByID(ctx, req.OriginalTransactionID)
	if err != nil {
		return nil, err
	}
	if original.Type.IsCredit() {
		return nil, ErrRefundDirection
	}
	if original.Status != models.TransactionStatusCompleted {
		return nil, domainErrors.InvalidStateTransition("only completed transactions can be refunded, transaction %d is %s", original.ID, original.Status)
	}

	wallet, err := s.wallets.GetWalletByID(ctx, original.WalletID)
	if err != nil {
		return nil, err
	}

	return s.settle(ctx, settlementParams{
		userID:      wallet.UserID,
		txType:      models.TransactionTypeRefund,
		amount:      original.Amount,
		description: fmt.Sprintf("refund of transaction %d", original.ID),
		metadata: models.JSON{
			MetaOriginalTransaction: original.ID,
			MetaActorID:             req.AdminID,
			"reason":                req.Reason,
		},
		idempotencyKey: fmt.Sprintf("refund-%d", original.ID),
		requestPath:    PathRefund,
		requestHash:    idempotency.HashRequest(req),
	})
}

// settle performs the balance change and writes its ledger entry in one
// transaction, guarded by the idempotency registry.
func (s *service) settle(ctx context.Context, p settlementParams) (*models.Transaction, error) {
	if p.idempotencyKey == "" {
		return nil, ErrMissingKey
	}
	fp := idempotency.Fingerprint{
		UserID:      p.userID,
		RequestPath: p.requestPath,
		RequestHash: p.requestHash,
	}

	txn, err := s.settleInScope(ctx, p, fp)
	if err != nil {
		s.recordFailure(ctx, p.idempotencyKey, fp, err)
		return nil, err
	}
	return txn, nil
}

func (s *service) settleInScope(ctx context.Context, p settlementParams, fp idempotency.Fingerprint) (*models.Transaction, error) {
	if p.amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	wallet, err := s.wallets.GetWallet(ctx, p.userID)
	if err != nil {
		return nil, err
	}

	var settled *models.Transaction
	fresh := false
	err = s.txr.InTransaction(ctx, func(tx *gorm.DB) error {
		check, err := s.idem.CheckAndLock(tx, p.idempotencyKey, fp)
		if err != nil {
			return err
		}
		if !check.IsNewRequest {
			if err := check.Response.AsError(); err != nil {
				return err
			}
			var prior models.Transaction
			if err := json.Unmarshal(check.Response.Body, &prior); err != nil {
				return fmt.Errorf("corrupt idempotency response for settlement: %w", err)
			}
			settled = &prior
			return nil
		}
		fresh = true

		if p.txType.IsCredit() {
			_, err = s.wallets.Credit(tx, wallet.ID, p.amount)
		} else {
			_, err = s.wallets.Debit(tx, wallet.ID, p.amount)
		}
		if err != nil {
			return err
		}

		key := p.idempotencyKey
		txn := &models.Transaction{
			WalletID:        wallet.ID,
			Type:            p.txType,
			Amount:          p.amount,
			Status:          p.txType.InitialStatus(),
			IdempotencyKey:  &key,
			Description:     p.description,
			Metadata:        p.metadata,
			TransactionDate: time.Now(),
		}
		if err := s.repo.Create(tx, txn); err != nil {
			return err
		}
		settled = txn
		return nil
	})
	if err != nil {
		return nil, err
	}

	if fresh {
		s.wallets.InvalidateCache(ctx, p.userID)
		body, _ := json.Marshal(settled)
		s.idem.MarkCompleted(ctx, p.idempotencyKey, idempotency.StoredResponse{Code: http.StatusCreated, Body: body})
		s.metrics.RecordTransaction(string(settled.Type), string(settled.Status))
	}
	return settled, nil
}
