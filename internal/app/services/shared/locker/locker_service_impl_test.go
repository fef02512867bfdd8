package locker

import (
	"context"
	"errors"
	"ips-timeline-service/internal/pkg/constvars"
	"ips-timeline-service/internal/pkg/exceptions"
	"net/http"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRedisRepository struct {
	mock.Mock
}

func (m *mockRedisRepository) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockRedisRepository) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	return m.Called(ctx, key, value, exp).Error(0)
}

func (m *mockRedisRepository) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *mockRedisRepository) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, exp)
	return args.Bool(0), args.Error(1)
}

func TestLockService_TryLockAndUnlock(t *testing.T) {
	ctx := context.WithValue(context.Background(), constvars.CONTEXT_REQUEST_ID_KEY, "req-1")
	repo := new(mockRedisRepository)
	service := NewLockService(repo, zap.NewNop())

	var stored lockHolder
	repo.On("TrySetNX", ctx, "lock:s1", mock.AnythingOfType("locker.lockHolder"), time.Minute).
		Run(func(args mock.Arguments) { stored = args.Get(2).(lockHolder) }).
		Return(true, nil).Once()
	acquired, token, err := service.TryLock(ctx, "lock:s1", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)
	require.NotEmpty(t, token)
	assert.Equal(t, token, stored.Token)
	assert.Equal(t, "req-1", stored.RequestID)

	encoded, err := json.Marshal(stored)
	require.NoError(t, err)
	repo.On("Get", ctx, "lock:s1").Return(string(encoded), nil).Once()
	repo.On("Delete", ctx, "lock:s1").Return(nil).Once()
	require.NoError(t, service.Unlock(ctx, "lock:s1", token))

	repo.AssertExpectations(t)
}

func TestLockService_TryLockNotAcquired(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRedisRepository)
	service := NewLockService(repo, zap.NewNop())

	repo.On("TrySetNX", ctx, "lock:s1", mock.Anything, time.Minute).Return(false, nil)
	repo.On("Get", ctx, "lock:s1").Return(`{"token":"other","request_id":"req-0","acquired_at":"2024-01-01T00:00:00Z"}`, nil)
	acquired, token, err := service.TryLock(ctx, "lock:s1", time.Minute)

	assert.NoError(t, err)
	assert.False(t, acquired)
	assert.Empty(t, token)
}

func TestLockService_TryLockRedisError(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRedisRepository)
	service := NewLockService(repo, zap.NewNop())

	repo.On("TrySetNX", ctx, "lock:s1", mock.Anything, time.Minute).Return(false, errors.New("connection refused"))
	acquired, _, err := service.TryLock(ctx, "lock:s1", time.Minute)

	assert.Error(t, err)
	assert.False(t, acquired)
}

func TestLockService_UnlockOwnershipMismatch(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRedisRepository)
	service := NewLockService(repo, zap.NewNop())

	repo.On("Get", ctx, "lock:s1").Return(`{"token":"someone-else"}`, nil)
	err := service.Unlock(ctx, "lock:s1", "mine")

	assert.Error(t, err)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestLockService_UnlockCorruptHolder(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRedisRepository)
	service := NewLockService(repo, zap.NewNop())

	repo.On("Get", ctx, "lock:s1").Return(`not-json`, nil)
	err := service.Unlock(ctx, "lock:s1", "mine")

	assert.Equal(t, http.StatusBadRequest, exceptions.StatusCodeOf(err))
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestLockService_UnlockMissingLock(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRedisRepository)
	service := NewLockService(repo, zap.NewNop())

	repo.On("Get", ctx, "lock:s1").Return("", nil)
	assert.NoError(t, service.Unlock(ctx, "lock:s1", "mine"))
}
