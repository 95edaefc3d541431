package repository

import (
	"context"
	"sync"
	"time"

	"agenda/internal/models"
)

type MemoryClientRepository struct {
	cachedDates sync.Map
	rateLimits  sync.Map
}

func NewMemoryClientRepository() *MemoryClientRepository {
	return &MemoryClientRepository{}
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

func (r *MemoryClientRepository) CheckRateLimit(ctx context.Context, phone string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	val, ok := r.rateLimits.Load(phone)

	var entry *rateLimitEntry
	if !ok {
		entry = &rateLimitEntry{
			count:     1,
			expiresAt: now.Add(window),
		}
	} else {
		entry = val.(*rateLimitEntry)
		if now.After(entry.expiresAt) {
			entry.count = 1
			entry.expiresAt = now.Add(window)
		} else {
			entry.count++
		}
	}

	r.rateLimits.Store(phone, entry)
	return entry.count <= limit, nil
}

type cachedDatesEntry struct {
	dates     []models.Date
	expiresAt time.Time
}

func (r *MemoryClientRepository) GetCachedDates(ctx context.Context, key string) ([]models.Date, bool, error) {
	val, ok := r.cachedDates.Load(key)
	if !ok {
		return nil, false, nil
	}
	entry := val.(*cachedDatesEntry)
	if time.Now().After(entry.expiresAt) {
		r.cachedDates.Delete(key)
		return nil, false, nil
	}
	return entry.dates, true, nil
}

func (r *MemoryClientRepository) SetCachedDates(ctx context.Context, key string, dates []models.Date, ttl time.Duration) error {
	r.cachedDates.Store(key, &cachedDatesEntry{
		dates:     dates,
		expiresAt: time.Now().Add(ttl),
	})
	return nil
}
