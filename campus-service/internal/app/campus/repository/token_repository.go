package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"campusreview/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

type redisTokenRepository struct {
	client *redis.Client
}

// NewRedisTokenRepository создает черный список токенов в Redis
func NewRedisTokenRepository(client *redis.Client) TokenRepository {
	return &redisTokenRepository{client: client}
}

// blacklistKey хранит хеш, а не сам токен, чтобы ключи Redis не содержали секретов
func blacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "blacklist:" + hex.EncodeToString(sum[:])
}

// AddToBlacklist добавляет токен в черный список до истечения его срока
func (r *redisTokenRepository) AddToBlacklist(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Токен уже истек, хранить его незачем
		return nil
	}

	timer := metrics.NewRedisTimer(metricsService, metrics.RedisOpSet)
	err := r.client.Set(ctx, blacklistKey(token), "1", ttl).Err()
	timer.ObserveDuration()
	if err != nil {
		metrics.RecordRedisError(metricsService, metrics.RedisOpSet)
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}

	return nil
}

func (r *redisTokenRepository) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	timer := metrics.NewRedisTimer(metricsService, metrics.RedisOpExists)
	exists, err := r.client.Exists(ctx, blacklistKey(token)).Result()
	timer.ObserveDuration()
	if err != nil {
		metrics.RecordRedisError(metricsService, metrics.RedisOpExists)
		return false, fmt.Errorf("failed to check if token is blacklisted: %w", err)
	}

	return exists > 0, nil
}
