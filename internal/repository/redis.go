package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"agenda/internal/config"
	"agenda/internal/models"

	"github.com/redis/go-redis/v9"
)

type RedisClientRepository struct {
	client *redis.Client
}

// NewRedisClient создает новый клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

func NewRedisClientRepository(client *redis.Client) *RedisClientRepository {
	return &RedisClientRepository{client: client}
}

// CheckRateLimit ограничивает частоту заявок с одного телефона.
func (r *RedisClientRepository) CheckRateLimit(ctx context.Context, phone string, limit int, window time.Duration) (bool, error) {
	if r.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	key := fmt.Sprintf("booking_rate:%s", phone)
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit: %w", err)
	}

	if count == 1 {
		r.client.Expire(ctx, key, window)
	}

	return count <= int64(limit), nil
}

// GetCachedDates возвращает закэшированный отчет по датам.
// Второй результат false — промах кэша.
func (r *RedisClientRepository) GetCachedDates(ctx context.Context, key string) ([]models.Date, bool, error) {
	if r.client == nil {
		return nil, false, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, cacheKey(key)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cached dates: %w", err)
	}

	var dates []models.Date
	if err := json.Unmarshal([]byte(val), &dates); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached dates: %w", err)
	}

	return dates, true, nil
}

func (r *RedisClientRepository) SetCachedDates(ctx context.Context, key string, dates []models.Date, ttl time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(dates)
	if err != nil {
		return fmt.Errorf("failed to marshal dates: %w", err)
	}

	if err := r.client.Set(ctx, cacheKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cached dates: %w", err)
	}

	return nil
}

func cacheKey(key string) string {
	return "next_dates:" + key
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close закрывает соединение с Redis
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
