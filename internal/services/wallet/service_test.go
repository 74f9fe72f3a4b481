package wallet

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	domainErrors "arena/internal/errors"
	"arena/internal/models"
)

type MockWalletRepo struct {
	mock.Mock
}

func (m *MockWalletRepo) Create(ctx context.Context, wallet *models.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}

func (m *MockWalletRepo) GetByID(ctx context.Context, id uint) (*models.Wallet, error) {
	args := m.Called(ctx, id)
	if w := args.Get(0); w != nil {
		return w.(*models.Wallet), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockWalletRepo) GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error) {
	args := m.Called(ctx, userID)
	if w := args.Get(0); w != nil {
		return w.(*models.Wallet), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockWalletRepo) LockByID(tx *gorm.DB, id uint) (*models.Wallet, error) {
	args := m.Called(tx, id)
	if w := args.Get(0); w != nil {
		return w.(*models.Wallet), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockWalletRepo) LockByUserID(tx *gorm.DB, userID uint) (*models.Wallet, error) {
	args := m.Called(tx, userID)
	if w := args.Get(0); w != nil {
		return w.(*models.Wallet), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockWalletRepo) Save(tx *gorm.DB, wallet *models.Wallet) error {
	args := m.Called(tx, wallet)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetWallet(ctx context.Context, userID uint) (*models.Wallet, bool, error) {
	args := m.Called(ctx, userID)
	if w := args.Get(0); w != nil {
		return w.(*models.Wallet), args.Bool(1), args.Error(2)
	}
	return nil, args.Bool(1), args.Error(2)
}

func (m *MockCache) CacheWallet(ctx context.Context, wallet *models.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}

func (m *MockCache) InvalidateWallet(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func TestService_CreateWallet(t *testing.T) {
	t.Run("defaults to USD and caches the wallet", func(t *testing.T) {
		repo := new(MockWalletRepo)
		cache := new(MockCache)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(w *models.Wallet) bool {
			return w.UserID == 1 && w.Currency == "USD"
		})).Return(nil)
		cache.On("CacheWallet", mock.Anything, mock.Anything).Return(nil)

		s := NewService(repo, cache, nil)
		w, err := s.CreateWallet(context.Background(), 1, "")

		assert.NoError(t, err)
		assert.Equal(t, "USD", w.Currency)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("rejects unsupported currencies", func(t *testing.T) {
		repo := new(MockWalletRepo)
		cache := new(MockCache)

		s := NewService(repo, cache, nil)
		_, err := s.CreateWallet(context.Background(), 1, "XYZ")

		assert.ErrorIs(t, err, ErrInvalidCurrency)
		repo.AssertNotCalled(t, "Create")
	})
}

func TestService_GetWallet(t *testing.T) {
	t.Run("cache hit skips the database", func(t *testing.T) {
		repo := new(MockWalletRepo)
		cache := new(MockCache)
		cached := &models.Wallet{ID: 3, UserID: 1, Balance: decimal.NewFromInt(50)}
		cache.On("GetWallet", mock.Anything, uint(1)).Return(cached, true, nil)

		s := NewService(repo, cache, nil)
		w, err := s.GetWallet(context.Background(), 1)

		assert.NoError(t, err)
		assert.Equal(t, cached, w)
		repo.AssertNotCalled(t, "GetByUserID")
	})

	t.Run("cache miss falls back to the database and refills", func(t *testing.T) {
		repo := new(MockWalletRepo)
		cache := new(MockCache)
		stored := &models.Wallet{ID: 3, UserID: 1, Balance: decimal.NewFromInt(50)}
		cache.On("GetWallet", mock.Anything, uint(1)).Return(nil, false, nil)
		repo.On("GetByUserID", mock.Anything, uint(1)).Return(stored, nil)
		cache.On("CacheWallet", mock.Anything, stored).Return(nil)

		s := NewService(repo, cache, nil)
		w, err := s.GetWallet(context.Background(), 1)

		assert.NoError(t, err)
		assert.Equal(t, stored, w)
		cache.AssertExpectations(t)
	})

	t.Run("cache errors degrade to the database", func(t *testing.T) {
		repo := new(MockWalletRepo)
		cache := new(MockCache)
		stored := &models.Wallet{ID: 3, UserID: 1}
		cache.On("GetWallet", mock.Anything, uint(1)).Return(nil, false, assert.AnError)
		repo.On("GetByUserID", mock.Anything, uint(1)).Return(stored, nil)
		cache.On("CacheWallet", mock.Anything, stored).Return(nil)

		s := NewService(repo, cache, nil)
		w, err := s.GetWallet(context.Background(), 1)

		assert.NoError(t, err)
		assert.Equal(t, stored, w)
	})

	t.Run("missing wallet surfaces not found", func(t *testing.T) {
		repo := new(MockWalletRepo)
		cache := new(MockCache)
		cache.On("GetWallet", mock.Anything, uint(1)).Return(nil, false, nil)
		repo.On("GetByUserID", mock.Anything, uint(1)).Return(nil, domainErrors.ErrWalletNotFound)

		s := NewService(repo, cache, nil)
		_, err := s.GetWallet(context.Background(), 1)

		assert.ErrorIs(t, err, ErrWalletNotFound)
	})
}

func TestService_Debit(t *testing.T) {
	tests := []struct {
		name      string
		amount    decimal.Decimal
		balance   decimal.Decimal
		setupMock func(*MockWalletRepo)
		wantErr   error
		wantLeft  decimal.Decimal
	}{
		{
			name:    "successful debit",
			amount:  decimal.NewFromInt(30),
			balance: decimal.NewFromInt(100),
			setupMock: func(repo *MockWalletRepo) {
				repo.On("Save", mock.Anything, mock.Anything).Return(nil)
			},
			wantLeft: decimal.NewFromInt(70),
		},
		{
			name:    "debit of the full balance",
			amount:  decimal.NewFromInt(100),
			balance: decimal.NewFromInt(100),
			setupMock: func(repo *MockWalletRepo) {
				repo.On("Save", mock.Anything, mock.Anything).Return(nil)
			},
			wantLeft: decimal.Zero,
		},
		{
			name:    "insufficient balance under the lock",
			amount:  decimal.NewFromInt(150),
			balance: decimal.NewFromInt(100),
			wantErr: ErrInsufficientBalance,
		},
		{
			name:    "zero amount",
			amount:  decimal.Zero,
			balance: decimal.NewFromInt(100),
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			amount:  decimal.NewFromInt(-5),
			balance: decimal.NewFromInt(100),
			wantErr: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockWalletRepo)
			cache := new(MockCache)
			repo.On("LockByID", mock.Anything, uint(3)).
				Return(&models.Wallet{ID: 3, UserID: 1, Balance: tt.balance}, nil).
				Maybe()
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			s := NewService(repo, cache, nil)
			w, err := s.Debit(nil, 3, tt.amount)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "Save")
				return
			}
			assert.NoError(t, err)
			assert.True(t, tt.wantLeft.Equal(w.Balance), "want %s, got %s", tt.wantLeft, w.Balance)
		})
	}
}

func TestService_Credit(t *testing.T) {
	t.Run("successful credit", func(t *testing.T) {
		repo := new(MockWalletRepo)
		cache := new(MockCache)
		repo.On("LockByID", mock.Anything, uint(3)).
			Return(&models.Wallet{ID: 3, UserID: 1, Balance: decimal.NewFromInt(10)}, nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)

		s := NewService(repo, cache, nil)
		w, err := s.Credit(nil, 3, decimal.RequireFromString("2.50"))

		assert.NoError(t, err)
		assert.True(t, decimal.RequireFromString("12.50").Equal(w.Balance))
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		repo := new(MockWalletRepo)
		cache := new(MockCache)

		s := NewService(repo, cache, nil)
		_, err := s.Credit(nil, 3, decimal.Zero)

		assert.ErrorIs(t, err, ErrInvalidAmount)
		repo.AssertNotCalled(t, "LockByID")
	})
}

func TestService_ValidateBalance(t *testing.T) {
	repo := new(MockWalletRepo)
	cache := new(MockCache)
	cache.On("GetWallet", mock.Anything, uint(1)).
		Return(&models.Wallet{ID: 3, UserID: 1, Balance: decimal.NewFromInt(20)}, true, nil)

	s := NewService(repo, cache, nil)

	assert.NoError(t, s.ValidateBalance(context.Background(), 1, decimal.NewFromInt(20)))
	assert.ErrorIs(t, s.ValidateBalance(context.Background(), 1, decimal.NewFromInt(21)), ErrInsufficientBalance)
	assert.ErrorIs(t, s.ValidateBalance(context.Background(), 1, decimal.Zero), ErrInvalidAmount)
}
