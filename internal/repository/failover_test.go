package repository

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"agenda/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) CheckRateLimit(ctx context.Context, phone string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, phone, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepo) GetCachedDates(ctx context.Context, key string) ([]models.Date, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]models.Date), args.Bool(1), args.Error(2)
}

func (m *mockRepo) SetCachedDates(ctx context.Context, key string, dates []models.Date, ttl time.Duration) error {
	args := m.Called(ctx, key, dates, ttl)
	return args.Error(0)
}

func TestFailoverClientRepository(t *testing.T) {
	primary := new(mockRepo)
	fallback := new(mockRepo)
	logger := zerolog.New(io.Discard)
	repo := NewFailoverClientRepository(primary, fallback, &logger)
	ctx := context.Background()

	window := time.Minute

	t.Run("PrimarySuccess", func(t *testing.T) {
		primary.On("CheckRateLimit", ctx, "111", 5, window).Return(true, nil).Once()

		allowed, err := repo.CheckRateLimit(ctx, "111", 5, window)
		assert.NoError(t, err)
		assert.True(t, allowed)
		primary.AssertExpectations(t)
	})

	t.Run("PrimaryFailFallbackSuccess", func(t *testing.T) {
		primary.On("CheckRateLimit", ctx, "222", 5, window).Return(false, errors.New("fail")).Once()
		fallback.On("CheckRateLimit", ctx, "222", 5, window).Return(true, nil).Once()

		allowed, err := repo.CheckRateLimit(ctx, "222", 5, window)
		assert.NoError(t, err)
		assert.True(t, allowed)
		assert.True(t, repo.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("RecoveryAttempt", func(t *testing.T) {
		repo.isDown.Store(true)
		repo.lastCheck = time.Now().Add(-2 * time.Minute)

		primary.On("CheckRateLimit", ctx, "333", 5, window).Return(true, nil).Once()

		allowed, err := repo.CheckRateLimit(ctx, "333", 5, window)
		assert.NoError(t, err)
		assert.True(t, allowed)
		assert.False(t, repo.isDown.Load())
		primary.AssertExpectations(t)
	})

	t.Run("CachedDatesFallback", func(t *testing.T) {
		repo.isDown.Store(false)
		dates := []models.Date{models.NewDate(2025, time.June, 9)}

		primary.On("GetCachedDates", ctx, "preview").Return(nil, false, errors.New("fail")).Once()
		fallback.On("GetCachedDates", ctx, "preview").Return(dates, true, nil).Once()

		got, ok, err := repo.GetCachedDates(ctx, "preview")
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, dates, got)
		assert.True(t, repo.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("SetCachedDatesWhenDown", func(t *testing.T) {
		repo.isDown.Store(true)
		repo.lastCheck = time.Now()
		dates := []models.Date{models.NewDate(2025, time.June, 11)}

		fallback.On("SetCachedDates", ctx, "real", dates, time.Minute).Return(nil).Once()

		err := repo.SetCachedDates(ctx, "real", dates, time.Minute)
		assert.NoError(t, err)
		fallback.AssertExpectations(t)
	})
}
