package idempotency

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	domainErrors "arena/internal/errors"
	"arena/internal/models"
)

type MockIdempotencyRepo struct {
	mock.Mock
}

func (m *MockIdempotencyRepo) LockByKey(tx *gorm.DB, key string) (*models.IdempotencyRecord, error) {
	args := m.Called(tx, key)
	if rec := args.Get(0); rec != nil {
		return rec.(*models.IdempotencyRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIdempotencyRepo) Create(tx *gorm.DB, record *models.IdempotencyRecord) error {
	args := m.Called(tx, record)
	return args.Error(0)
}

func (m *MockIdempotencyRepo) MarkCompleted(ctx context.Context, key string, responseCode int, responseBody []byte) error {
	args := m.Called(ctx, key, responseCode, responseBody)
	return args.Error(0)
}

func (m *MockIdempotencyRepo) SaveFailure(ctx context.Context, record *models.IdempotencyRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func testFingerprint() Fingerprint {
	return Fingerprint{
		UserID:      7,
		RequestPath: "/api/wallet/deposits",
		RequestHash: HashRequest(map[string]string{"amount": "25.00"}),
	}
}

func TestService_CheckAndLock(t *testing.T) {
	fp := testFingerprint()

	t.Run("empty key is always a new request", func(t *testing.T) {
		repo := new(MockIdempotencyRepo)
		s := NewService(repo)

		result, err := s.CheckAndLock(nil, "", fp)

		assert.NoError(t, err)
		assert.True(t, result.IsNewRequest)
		repo.AssertNotCalled(t, "LockByKey")
	})

	t.Run("unknown key is reserved for the caller", func(t *testing.T) {
		repo := new(MockIdempotencyRepo)
		repo.On("LockByKey", mock.Anything, "key-1").Return(nil, nil)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(rec *models.IdempotencyRecord) bool {
			return rec.Key == "key-1" &&
				rec.UserID == fp.UserID &&
				rec.RequestHash == fp.RequestHash &&
				rec.Status == models.IdempotencyStatusPending
		})).Return(nil)
		s := NewService(repo)

		result, err := s.CheckAndLock(nil, "key-1", fp)

		assert.NoError(t, err)
		assert.True(t, result.IsNewRequest)
		repo.AssertExpectations(t)
	})

	t.Run("completed key replays the stored response", func(t *testing.T) {
		repo := new(MockIdempotencyRepo)
		body := []byte(`{"transaction_id":42}`)
		repo.On("LockByKey", mock.Anything, "key-1").Return(&models.IdempotencyRecord{
			Key:          "key-1",
			UserID:       fp.UserID,
			RequestPath:  fp.RequestPath,
			RequestHash:  fp.RequestHash,
			Status:       models.IdempotencyStatusCompleted,
			ResponseCode: http.StatusCreated,
			ResponseBody: body,
		}, nil)
		s := NewService(repo)

		result, err := s.CheckAndLock(nil, "key-1", fp)

		assert.NoError(t, err)
		assert.False(t, result.IsNewRequest)
		assert.Equal(t, http.StatusCreated, result.Response.Code)
		assert.Equal(t, body, result.Response.Body)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("fingerprint mismatch is a conflict", func(t *testing.T) {
		repo := new(MockIdempotencyRepo)
		repo.On("LockByKey", mock.Anything, "key-1").Return(&models.IdempotencyRecord{
			Key:         "key-1",
			UserID:      fp.UserID,
			RequestPath: fp.RequestPath,
			RequestHash: "different-hash",
			Status:      models.IdempotencyStatusCompleted,
		}, nil)
		s := NewService(repo)

		result, err := s.CheckAndLock(nil, "key-1", fp)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, domainErrors.ErrConflict)
	})

	t.Run("key owned by another user is a conflict", func(t *testing.T) {
		repo := new(MockIdempotencyRepo)
		repo.On("LockByKey", mock.Anything, "key-1").Return(&models.IdempotencyRecord{
			Key:         "key-1",
			UserID:      99,
			RequestPath: fp.RequestPath,
			RequestHash: fp.RequestHash,
			Status:      models.IdempotencyStatusCompleted,
		}, nil)
		s := NewService(repo)

		_, err := s.CheckAndLock(nil, "key-1", fp)

		assert.ErrorIs(t, err, domainErrors.ErrConflict)
	})

	t.Run("pending key is still in progress", func(t *testing.T) {
		repo := new(MockIdempotencyRepo)
		repo.On("LockByKey", mock.Anything, "key-1").Return(&models.IdempotencyRecord{
			Key:         "key-1",
			UserID:      fp.UserID,
			RequestPath: fp.RequestPath,
			RequestHash: fp.RequestHash,
			Status:      models.IdempotencyStatusPending,
		}, nil)
		s := NewService(repo)

		_, err := s.CheckAndLock(nil, "key-1", fp)

		assert.ErrorIs(t, err, domainErrors.ErrConflict)
	})

	t.Run("failed key replays the stored failure", func(t *testing.T) {
		repo := new(MockIdempotencyRepo)
		body, _ := json.Marshal(domainErrors.Payload(domainErrors.ErrInsufficientFunds))
		repo.On("LockByKey", mock.Anything, "key-1").Return(&models.IdempotencyRecord{
			Key:          "key-1",
			UserID:       fp.UserID,
			RequestPath:  fp.RequestPath,
			RequestHash:  fp.RequestHash,
			Status:       models.IdempotencyStatusFailed,
			ResponseCode: http.StatusUnprocessableEntity,
			ResponseBody: body,
		}, nil)
		s := NewService(repo)

		result, err := s.CheckAndLock(nil, "key-1", fp)

		assert.NoError(t, err)
		assert.False(t, result.IsNewRequest)
		assert.ErrorIs(t, result.Response.AsError(), domainErrors.ErrInsufficientFunds)
	})
}

func TestService_MarkCompleted(t *testing.T) {
	t.Run("records the response", func(t *testing.T) {
		repo := new(MockIdempotencyRepo)
		repo.On("MarkCompleted", mock.Anything, "key-1", http.StatusCreated, []byte(`{}`)).Return(nil)
		s := NewService(repo)

		s.MarkCompleted(context.Background(), "key-1", StoredResponse{Code: http.StatusCreated, Body: []byte(`{}`)})

		repo.AssertExpectations(t)
	})

	t.Run("marking failures are swallowed", func(t *testing.T) {
		repo := new(MockIdempotencyRepo)
		repo.On("MarkCompleted", mock.Anything, "key-1", mock.Anything, mock.Anything).Return(assert.AnError)
		s := NewService(repo)

		s.MarkCompleted(context.Background(), "key-1", StoredResponse{Code: http.StatusCreated})

		repo.AssertExpectations(t)
	})

	t.Run("empty key is a no-op", func(t *testing.T) {
		repo := new(MockIdempotencyRepo)
		s := NewService(repo)

		s.MarkCompleted(context.Background(), "", StoredResponse{Code: http.StatusCreated})

		repo.AssertNotCalled(t, "MarkCompleted")
	})
}

func TestService_MarkFailed(t *testing.T) {
	fp := testFingerprint()

	repo := new(MockIdempotencyRepo)
	repo.On("SaveFailure", mock.Anything, mock.MatchedBy(func(rec *models.IdempotencyRecord) bool {
		return rec.Key == "key-1" &&
			rec.Status == models.IdempotencyStatusFailed &&
			rec.ResponseCode == http.StatusUnprocessableEntity &&
			rec.FailedAt != nil
	})).Return(nil)
	s := NewService(repo)

	s.MarkFailed(context.Background(), "key-1", fp, StoredResponse{
		Code: http.StatusUnprocessableEntity,
		Body: []byte(`{"error":"insufficient funds","code":"INSUFFICIENT_FUNDS"}`),
	})

	repo.AssertExpectations(t)
}

func TestHashRequest(t *testing.T) {
	type req struct {
		Amount   string `json:"amount"`
		Currency string `json:"currency"`
	}

	a := HashRequest(req{Amount: "10.00", Currency: "USD"})
	b := HashRequest(req{Amount: "10.00", Currency: "USD"})
	c := HashRequest(req{Amount: "11.00", Currency: "USD"})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestStoredResponse_AsError(t *testing.T) {
	t.Run("success codes carry no error", func(t *testing.T) {
		r := &StoredResponse{Code: http.StatusCreated, Body: []byte(`{"id":1}`)}
		assert.NoError(t, r.AsError())
	})

	t.Run("failure is rebuilt with its category", func(t *testing.T) {
		body, _ := json.Marshal(domainErrors.Payload(domainErrors.Validation("amount must be positive")))
		r := &StoredResponse{Code: http.StatusBadRequest, Body: body}

		err := r.AsError()

		assert.ErrorIs(t, err, domainErrors.ErrValidation)
		assert.Contains(t, err.Error(), "amount must be positive")
	})

	t.Run("unreadable failure body degrades to a conflict", func(t *testing.T) {
		r := &StoredResponse{Code: http.StatusBadRequest, Body: []byte("not json")}
		assert.ErrorIs(t, r.AsError(), domainErrors.ErrConflict)
	})
}
