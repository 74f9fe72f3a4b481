package wallet

import (
	"context"
	"time"

	"arena/internal/models"
	"arena/internal/repositories"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type service struct {
	repo    repositories.WalletRepository
	cache   CacheOperator
	metrics MetricsCollector
}

// NewService creates a new wallet ledger service.
func NewService(
	repo repositories.WalletRepository,
	cache CacheOperator,
	metrics MetricsCollector,
) Service {
	if repo == nil {
		panic("wallet repository is required")
	}
	if cache == nil {
		panic("cache is required")
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		repo:    repo,
		cache:   cache,
		metrics: metrics,
	}
}

func (s *service) CreateWallet(ctx context.Context, userID uint, currency string) (*models.Wallet, error) {
	defer s.observe(OpCreateWallet, time.Now())

	if currency == "" {
		currency = DefaultCurrency
	}
	if !supportedCurrencies[currency] {
		return nil, ErrInvalidCurrency
	}

	wallet := &models.Wallet{
		UserID:   userID,
		Currency: currency,
	}
	if err := s.repo.Create(ctx, wallet); err != nil {
		return nil, err
	}

	if err := s.cache.CacheWallet(ctx, wallet); err != nil {
		log.WithFields(log.Fields{"user_id": userID}).Warnf("failed to cache wallet: %v", err)
	}
	return wallet, nil
}

func (s *service) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	defer s.observe(OpGetWallet, time.Now())

	wallet, found, err := s.cache.GetWallet(ctx, userID)
	if err != nil {
		log.WithFields(log.Fields{"user_id": userID}).Warnf("wallet cache read failed: %v", err)
	}
	if found {
		s.metrics.RecordCacheHit("wallet")
		return wallet, nil
	}
	s.metrics.RecordCacheMiss("wallet")

	wallet, err = s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.CacheWallet(ctx, wallet); err != nil {
		log.WithFields(log.Fields{"user_id": userID}).Warnf("failed to cache wallet: %v", err)
	}
	return wallet, nil
}

// GetWalletByID is an uncached read used when only the wallet id is
// known, such as resolving the owner of a ledger entry.
func (s *service) GetWalletByID(ctx context.Context, walletID uint) (*models.Wallet, error) {
	return s.repo.GetByID(ctx, walletID)
}

func (s *service) GetBalance(ctx context.Context, userID uint) (decimal.Decimal, error) {
	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return wallet.Balance, nil
}

func (s *service) ValidateBalance(ctx context.Context, userID uint, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return err
	}
	if !wallet.CanCover(amount) {
		return ErrInsufficientBalance
	}
	return nil
}

func (s *service) Debit(tx *gorm.DB, walletID uint, amount decimal.Decimal) (*models.Wallet, error) {
	defer s.observe(OpDebit, time.Now())

	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	wallet, err := s.repo.LockByID(tx, walletID)
	if err != nil {
		return nil, err
	}

	// The balance may have moved between any earlier advisory check and
	// this lock; verify again before writing.
	if !wallet.CanCover(amount) {
		return nil, ErrInsufficientBalance
	}

	wallet.Balance = wallet.Balance.Sub(amount)
	if err := s.repo.Save(tx, wallet); err != nil {
		return nil, err
	}
	return wallet, nil
}

func (s *service) Credit(tx *gorm.DB, walletID uint, amount decimal.Decimal) (*models.Wallet, error) {
	defer s.observe(OpCredit, time.Now())

	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	wallet, err := s.repo.LockByID(tx, walletID)
	if err != nil {
		return nil, err
	}

	wallet.Balance = wallet.Balance.Add(amount)
	if err := s.repo.Save(tx, wallet); err != nil {
		return nil, err
	}
	return wallet, nil
}

func (s *service) InvalidateCache(ctx context.Context, userID uint) {
	if err := s.cache.InvalidateWallet(ctx, userID); err != nil {
		log.WithFields(log.Fields{"user_id": userID}).Warnf("failed to invalidate wallet cache: %v", err)
	}
}

func (s *service) observe(op string, start time.Time) {
	s.metrics.RecordOperationDuration(op, time.Since(start))
}
