package transaction

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	domainErrors "arena/internal/errors"
	"arena/internal/models"
	"arena/internal/repositories"
	"arena/internal/services/idempotency"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type service struct {
	txr     Transactor
	repo    repositories.TransactionRepository
	wallets WalletService
	idem    IdempotencyService
	metrics MetricsCollector
}

// NewService creates the transaction log service.
func NewService(
	txr Transactor,
	repo repositories.TransactionRepository,
	wallets WalletService,
	idem IdempotencyService,
	metrics MetricsCollector,
) Service {
	if txr == nil {
		panic("transactor is required")
	}
	if repo == nil {
		panic("transaction repository is required")
	}
	if wallets == nil {
		panic("wallet service is required")
	}
	if idem == nil {
		panic("idempotency service is required")
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		txr:     txr,
		repo:    repo,
		wallets: wallets,
		idem:    idem,
		metrics: metrics,
	}
}

func (s *service) InitializeDeposit(ctx context.Context, req DepositRequest) (*DepositResponse, error) {
	fp := idempotency.Fingerprint{
		UserID:      req.UserID,
		RequestPath: PathDeposit,
		RequestHash: idempotency.HashRequest(req),
	}

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		s.recordFailure(ctx, req.IdempotencyKey, fp, ErrInvalidAmount)
		return nil, ErrInvalidAmount
	}
	wallet, err := s.wallets.GetWallet(ctx, req.UserID)
	if err != nil {
		s.recordFailure(ctx, req.IdempotencyKey, fp, err)
		return nil, err
	}
	if req.Currency != "" && req.Currency != wallet.Currency {
		s.recordFailure(ctx, req.IdempotencyKey, fp, ErrCurrencyMismatch)
		return nil, ErrCurrencyMismatch
	}

	var resp *DepositResponse
	fresh := false
	err = s.txr.InTransaction(ctx, func(tx *gorm.DB) error {
		check, err := s.idem.CheckAndLock(tx, req.IdempotencyKey, fp)
		if err != nil {
			return err
		}
		if !check.IsNewRequest {
			if err := check.Response.AsError(); err != nil {
				return err
			}
			var prior DepositResponse
			if err := json.Unmarshal(check.Response.Body, &prior); err != nil {
				return fmt.Errorf("corrupt idempotency response for deposit: %w", err)
			}
			resp = &prior
			return nil
		}
		fresh = true

		paymentRef := "dep_" + uuid.NewString()
		txn := &models.Transaction{
			WalletID:        wallet.ID,
			Type:            models.TransactionTypeDeposit,
			Amount:          req.Amount,
			Status:          models.TransactionTypeDeposit.InitialStatus(),
			Description:     "wallet deposit",
			Metadata:        models.JSON{MetaPaymentReference: paymentRef},
			TransactionDate: time.Now(),
		}
		if key := req.IdempotencyKey; key != "" {
			txn.IdempotencyKey = &key
		}
		if err := s.repo.Create(tx, txn); err != nil {
			return err
		}
		resp = &DepositResponse{Transaction: txn, PaymentReference: paymentRef}
		return nil
	})
	if err != nil {
		s.recordFailure(ctx, req.IdempotencyKey, fp, err)
		return nil, err
	}

	if fresh {
		if req.IdempotencyKey != "" {
			body, _ := json.Marshal(resp)
			s.idem.MarkCompleted(ctx, req.IdempotencyKey, idempotency.StoredResponse{Code: http.StatusCreated, Body: body})
		}
		s.metrics.RecordTransaction(string(models.TransactionTypeDeposit), string(resp.Transaction.Status))
	}
	return resp, nil
}

// ConfirmDeposit is called by the payment collector once the external
// charge settles. Credit and status change share one scope.
func (s *service) ConfirmDeposit(ctx context.Context, transactionID uint, gatewayReference string) (*models.Transaction, error) {
	var confirmed *models.Transaction
	var ownerID uint

	err := s.txr.InTransaction(ctx, func(tx *gorm.DB) error {
		txn, err := s.repo.LockByID(tx, transactionID)
		if err != nil {
			return err
		}
		if txn.Type != models.TransactionTypeDeposit {
			return domainErrors.InvalidStateTransition("transaction %d is not a deposit", txn.ID)
		}
		if err := txn.TransitionTo(models.TransactionStatusCompleted, ""); err != nil {
			return err
		}

		wallet, err := s.wallets.Credit(tx, txn.WalletID, txn.Amount)
		if err != nil {
			return err
		}
		ownerID = wallet.UserID

		if gatewayReference != "" {
			txn.Metadata = txn.Metadata.With(MetaGatewayReference, gatewayReference)
		}
		if err := s.repo.Update(tx, txn); err != nil {
			return err
		}
		confirmed = txn
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.wallets.InvalidateCache(ctx, ownerID)
	s.metrics.RecordTransaction(string(confirmed.Type), string(confirmed.Status))
	return confirmed, nil
}

// CancelDeposit abandons a pending deposit. No funds have moved, so the
// wallet is untouched.
func (s *service) CancelDeposit(ctx context.Context, transactionID uint, reason string) (*models.Transaction, error) {
	var canceled *models.Transaction

	err := s.txr.InTransaction(ctx, func(tx *gorm.DB) error {
		txn, err := s.repo.LockByID(tx, transactionID)
		if err != nil {
			return err
		}
		if txn.Type != models.TransactionTypeDeposit {
			return domainErrors.InvalidStateTransition("transaction %d is not a deposit", txn.ID)
		}
		if err := txn.TransitionTo(models.TransactionStatusCanceled, reason); err != nil {
			return err
		}
		if err := s.repo.Update(tx, txn); err != nil {
			return err
		}
		canceled = txn
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordTransaction(string(canceled.Type), string(canceled.Status))
	return canceled, nil
}

func (s *service) GetTransaction(ctx context.Context, id uint) (*models.Transaction, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetHistory(ctx context.Context, userID uint, q HistoryQuery) ([]models.Transaction, int64, error) {
	if q.Type != "" && !q.Type.Valid() {
		return nil, 0, domainErrors.Validation("unknown transaction type %q", q.Type)
	}
	if q.Status != "" && !q.Status.Valid() {
		return nil, 0, domainErrors.Validation("unknown transaction status %q", q.Status)
	}

	wallet, err := s.wallets.GetWallet(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	return s.repo.List(ctx, repositories.TransactionFilter{
		WalletID: wallet.ID,
		Type:     q.Type,
		Status:   q.Status,
		From:     q.From,
		To:       q.To,
		SortAsc:  q.SortAsc,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
}

// recordFailure stores a deterministic business failure for replay.
// Conflicts and infrastructure errors stay unrecorded so a retry can
// re-execute.
func (s *service) recordFailure(ctx context.Context, key string, fp idempotency.Fingerprint, opErr error) {
	if key == "" || !domainErrors.IsDeterministic(opErr) {
		return
	}
	body, _ := json.Marshal(domainErrors.Payload(opErr))
	s.idem.MarkFailed(ctx, key, fp, idempotency.StoredResponse{
		Code: domainErrors.HTTPStatus(opErr),
		Body: body,
	})
}
