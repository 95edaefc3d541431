package repository

import (
	"context"
	"sync/atomic"
	"time"

	"agenda/internal/domain"
	"agenda/internal/models"

	"github.com/rs/zerolog"
)

type FailoverClientRepository struct {
	primary   domain.ClientStateRepository
	fallback  domain.ClientStateRepository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck time.Time
}

func NewFailoverClientRepository(primary, fallback domain.ClientStateRepository, logger *zerolog.Logger) *FailoverClientRepository {
	return &FailoverClientRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverClientRepository) CheckRateLimit(ctx context.Context, phone string, limit int, window time.Duration) (bool, error) {
	if !r.isDown.Load() {
		allowed, err := r.primary.CheckRateLimit(ctx, phone, limit, window)
		if err == nil {
			return allowed, nil
		}
		r.logger.Error().Err(err).Msg("Primary client repository failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	// Try to recover after 1 minute
	if r.isDown.Load() && time.Since(r.lastCheck) > time.Minute {
		allowed, err := r.primary.CheckRateLimit(ctx, phone, limit, window)
		if err == nil {
			r.isDown.Store(false)
			return allowed, nil
		}
		r.lastCheck = time.Now()
	}

	return r.fallback.CheckRateLimit(ctx, phone, limit, window)
}

func (r *FailoverClientRepository) GetCachedDates(ctx context.Context, key string) ([]models.Date, bool, error) {
	if !r.isDown.Load() {
		dates, ok, err := r.primary.GetCachedDates(ctx, key)
		if err == nil {
			return dates, ok, nil
		}
		r.logger.Error().Err(err).Msg("Primary client repository failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	return r.fallback.GetCachedDates(ctx, key)
}

func (r *FailoverClientRepository) SetCachedDates(ctx context.Context, key string, dates []models.Date, ttl time.Duration) error {
	if !r.isDown.Load() {
		err := r.primary.SetCachedDates(ctx, key, dates, ttl)
		if err == nil {
			return nil
		}
		r.logger.Error().Err(err).Msg("Primary client repository failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	return r.fallback.SetCachedDates(ctx, key, dates, ttl)
}
