package withdrawal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	domainErrors "arena/internal/errors"
	"arena/internal/models"
	"arena/internal/repositories"
	"arena/internal/services/idempotency"
	"arena/internal/services/payout"
)

type service struct {
	txr     Transactor
	txns    repositories.TransactionRepository
	wallets WalletService
	idem    IdempotencyService
	gateway Gateway
	metrics MetricsCollector
}

// NewService creates a withdrawal service. It panics if any dependency
// other than the metrics collector is nil.
func NewService(
	txr Transactor,
	txns repositories.TransactionRepository,
	wallets WalletService,
	idem IdempotencyService,
	gateway Gateway,
	metrics MetricsCollector,
) Service {
	if txr == nil || txns == nil || wallets == nil || idem == nil || gateway == nil {
		panic("withdrawal: all dependencies are required")
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	return &service{
		txr:     txr,
		txns:    txns,
		wallets: wallets,
		idem:    idem,
		gateway: gateway,
		metrics: metrics,
	}
}

func (s *service) Request(ctx context.Context, req WithdrawalRequest) (*WithdrawalResponse, error) {
	fp := idempotency.Fingerprint{
		UserID:      req.UserID,
		RequestPath: PathWithdrawal,
		RequestHash: idempotency.HashRequest(req),
	}

	resp, err := s.request(ctx, req, fp)
	if err != nil {
		s.recordFailure(ctx, req.IdempotencyKey, fp, err)
		return nil, err
	}
	return resp, nil
}

func (s *service) request(ctx context.Context, req WithdrawalRequest, fp idempotency.Fingerprint) (*WithdrawalResponse, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}
	if len(req.PayoutDetails) == 0 {
		return nil, ErrMissingPayoutDetails
	}

	var resp *WithdrawalResponse
	fresh := false

	err := s.txr.InTransaction(ctx, func(tx *gorm.DB) error {
		check, err := s.idem.CheckAndLock(tx, req.IdempotencyKey, fp)
		if err != nil {
			return err
		}
		if !check.IsNewRequest {
			if err := check.Response.AsError(); err != nil {
				return err
			}
			var stored WithdrawalResponse
			if err := json.Unmarshal(check.Response.Body, &stored); err != nil {
				return fmt.Errorf("failed to decode stored withdrawal response: %w", err)
			}
			resp = &stored
			return nil
		}
		fresh = true

		wallet, err := s.wallets.GetWallet(ctx, req.UserID)
		if err != nil {
			return err
		}
		if req.Currency != "" && req.Currency != wallet.Currency {
			return ErrCurrencyMismatch
		}
		// Advisory only. Nothing is reserved; the authoritative check
		// runs under the wallet lock when the withdrawal is approved.
		if !wallet.CanCover(req.Amount) {
			return ErrInsufficientBalance
		}

		txn := &models.Transaction{
			WalletID:        wallet.ID,
			Type:            models.TransactionTypeWithdrawal,
			Amount:          req.Amount,
			Status:          models.TransactionTypeWithdrawal.InitialStatus(),
			Description:     "withdrawal request",
			Metadata:        models.JSON{MetaPayoutDetails: req.PayoutDetails},
			TransactionDate: time.Now(),
		}
		// Absent keys stay NULL; an empty string would collide on the
		// unique index.
		if key := req.IdempotencyKey; key != "" {
			txn.IdempotencyKey = &key
		}
		if err := s.txns.Create(tx, txn); err != nil {
			return err
		}

		resp = &WithdrawalResponse{
			TransactionID: txn.ID,
			Status:        txn.Status,
			Amount:        txn.Amount,
			Message:       "withdrawal pending manual approval",
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if fresh {
		if req.IdempotencyKey != "" {
			if body, err := json.Marshal(resp); err == nil {
				s.idem.MarkCompleted(ctx, req.IdempotencyKey, idempotency.StoredResponse{
					Code: http.StatusCreated,
					Body: body,
				})
			}
		}
		s.metrics.RecordTransaction(string(models.TransactionTypeWithdrawal), string(resp.Status))
	}
	return resp, nil
}

// Approve drives an approved withdrawal to a terminal state. The payout
// call happens before the debit, so provider and ledger failures after
// that point are committed on the transaction row instead of rolled
// back; the caller receives both the committed transaction and the
// error describing the failed attempt.
func (s *service) Approve(ctx context.Context, transactionID uint, approverID uint, notes string) (*models.Transaction, error) {
	// Detached from the caller: once the payout call is issued the scope
	// must reach a terminal state, and a canceled request must not abort
	// the statements that run after money has moved.
	ctx = context.WithoutCancel(ctx)

	var (
		txn    *models.Transaction
		opErr  error
		wallet *models.Wallet
	)

	err := s.txr.InTransaction(ctx, func(tx *gorm.DB) error {
		locked, err := s.txns.LockByID(tx, transactionID)
		if err != nil {
			return err
		}
		if locked.Type != models.TransactionTypeWithdrawal {
			return domainErrors.InvalidStateTransition("transaction %d is not a withdrawal", locked.ID)
		}
		if locked.Status != models.TransactionStatusRequiresApproval {
			return domainErrors.InvalidStateTransition("withdrawal %d is %s, not %s", locked.ID, locked.Status, models.TransactionStatusRequiresApproval)
		}

		wallet, err = s.wallets.GetWalletByID(ctx, locked.WalletID)
		if err != nil {
			return err
		}

		reference := payoutReference(locked)
		result, payErr := s.gateway.ProcessPayout(ctx, payout.PayoutRequest{
			Amount:           locked.Amount,
			Currency:         wallet.Currency,
			RecipientDetails: payoutRecipient(locked),
			ReferenceID:      reference,
		})
		if payErr != nil {
			// The provider rejected the payout. Commit the failure so
			// the attempt is never silently retried.
			locked.Metadata = locked.Metadata.With(MetaFailureReason, payErr.Error())
			if err := locked.TransitionTo(models.TransactionStatusPaymentFailed, ""); err != nil {
				return err
			}
			if err := s.txns.Update(tx, locked); err != nil {
				return err
			}
			txn = locked
			opErr = domainErrors.ExternalServiceFailure("payout provider rejected the withdrawal", payErr)
			return nil
		}

		locked.Metadata = locked.Metadata.
			With(MetaPayoutReference, result.GatewayReference).
			With(MetaApprovedBy, approverID)
		if notes != "" {
			locked.Metadata = locked.Metadata.With(MetaApprovalNotes, notes)
		}

		if _, err := s.wallets.Debit(tx, wallet.ID, locked.Amount); err != nil {
			if errors.Is(err, domainErrors.ErrInsufficientBalance) {
				// Money already left the provider but the wallet can no
				// longer cover it. Commit the reconciliation state.
				if terr := locked.TransitionTo(models.TransactionStatusPostPaymentShortfall, ""); terr != nil {
					return terr
				}
				if uerr := s.txns.Update(tx, locked); uerr != nil {
					return uerr
				}
				txn = locked
				opErr = domainErrors.CriticalInconsistency(
					"payout %s issued but wallet %d no longer covers withdrawal %d",
					result.GatewayReference, wallet.ID, locked.ID,
				)
				return nil
			}
			return err
		}

		if err := locked.TransitionTo(models.TransactionStatusCompleted, ""); err != nil {
			return err
		}
		if err := s.txns.Update(tx, locked); err != nil {
			return err
		}
		txn = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch {
	case opErr == nil:
		s.wallets.InvalidateCache(ctx, wallet.UserID)
		s.metrics.RecordTransaction(string(txn.Type), string(txn.Status))
		log.WithFields(log.Fields{
			"transaction_id": txn.ID,
			"wallet_id":      txn.WalletID,
			"approver_id":    approverID,
		}).Info("withdrawal approved and settled")
	case errors.Is(opErr, domainErrors.ErrCriticalInconsistency):
		s.metrics.RecordTransaction(string(txn.Type), string(txn.Status))
		s.metrics.RecordCriticalInconsistency()
		log.WithFields(log.Fields{
			"transaction_id":   txn.ID,
			"wallet_id":        txn.WalletID,
			"payout_reference": txn.Metadata[MetaPayoutReference],
			"amount":           txn.Amount,
		}).Error("CRITICAL: payout issued but wallet debit failed; manual reconciliation required")
	default:
		s.metrics.RecordTransaction(string(txn.Type), string(txn.Status))
		s.metrics.RecordPayoutFailure(string(txn.Status))
		log.WithFields(log.Fields{
			"transaction_id": txn.ID,
			"wallet_id":      txn.WalletID,
		}).Warnf("withdrawal payout failed: %v", opErr)
	}
	return txn, opErr
}

func (s *service) Reject(ctx context.Context, transactionID uint, approverID uint, reason string) (*models.Transaction, error) {
	if reason == "" {
		return nil, ErrRejectReason
	}

	var txn *models.Transaction
	err := s.txr.InTransaction(ctx, func(tx *gorm.DB) error {
		locked, err := s.txns.LockByID(tx, transactionID)
		if err != nil {
			return err
		}
		if locked.Type != models.TransactionTypeWithdrawal {
			return domainErrors.InvalidStateTransition("transaction %d is not a withdrawal", locked.ID)
		}
		if err := locked.TransitionTo(models.TransactionStatusRejected, reason); err != nil {
			return err
		}
		locked.Metadata = locked.Metadata.With(MetaRejectedBy, approverID)
		if err := s.txns.Update(tx, locked); err != nil {
			return err
		}
		txn = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordTransaction(string(txn.Type), string(txn.Status))
	log.WithFields(log.Fields{
		"transaction_id": txn.ID,
		"approver_id":    approverID,
	}).Info("withdrawal rejected")
	return txn, nil
}

func (s *service) ListPendingApprovals(ctx context.Context, page, limit int) ([]models.Transaction, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxApprovalPageSize {
		limit = defaultApprovalPageSize
	}
	offset := (page - 1) * limit
	return s.txns.ListByStatus(ctx, models.TransactionStatusRequiresApproval, models.TransactionTypeWithdrawal, limit, offset)
}

// recordFailure persists a deterministic failure under the request's
// idempotency key so retries replay it instead of re-executing.
func (s *service) recordFailure(ctx context.Context, key string, fp idempotency.Fingerprint, opErr error) {
	if key == "" || !domainErrors.IsDeterministic(opErr) {
		return
	}
	body, err := json.Marshal(domainErrors.Payload(opErr))
	if err != nil {
		return
	}
	s.idem.MarkFailed(ctx, key, fp, idempotency.StoredResponse{
		Code: domainErrors.HTTPStatus(opErr),
		Body: body,
	})
}

func payoutReference(txn *models.Transaction) string {
	return fmt.Sprintf("%s%d", payoutReferencePrefix, txn.ID)
}

// payoutRecipient recovers the payout destination stored when the
// withdrawal was requested. Metadata round-trips through jsonb, so the
// nested document comes back as a plain map.
func payoutRecipient(txn *models.Transaction) models.JSON {
	switch v := txn.Metadata[MetaPayoutDetails].(type) {
	case models.JSON:
		return v
	case map[string]interface{}:
		return models.JSON(v)
	default:
		return nil
	}
}
