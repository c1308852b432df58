package repository

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"time"

	"readiness-workers/internal/common/logger"
	"readiness-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

// CachedPartnerStore serves partner pools from Redis and falls back to the wrapped
// store on a miss. Redis failures are logged and never fail the lookup.
type CachedPartnerStore struct {
	next   PartnerStore
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedPartnerStore(next PartnerStore, redisClient *redis.Client, ttl time.Duration, log logger.Logger) *CachedPartnerStore {
	return &CachedPartnerStore{next: next, redis: redisClient, ttl: ttl, logger: log}
}

// partnerCacheKey is order-insensitive in categories.
func partnerCacheKey(categories []string) string {
	if len(categories) == 0 {
		return "partners:all"
	}
	sorted := slices.Clone(categories)
	slices.Sort(sorted)
	return "partners:" + strings.Join(slices.Compact(sorted), ",")
}

func (s *CachedPartnerStore) ListPartners(ctx context.Context, categories []string) ([]models.PartnerRecord, error) {
	key := partnerCacheKey(categories)

	cached, err := s.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		var partners []models.PartnerRecord
		if jsonErr := json.Unmarshal([]byte(cached), &partners); jsonErr == nil {
			return partners, nil
		}
		s.logger.Warn("Discarding unreadable partner cache entry", map[string]interface{}{"key": key})
	case !errors.Is(err, redis.Nil):
		s.logger.Warn("Partner cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
	}

	partners, err := s.next.ListPartners(ctx, categories)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(partners); err == nil {
		if err := s.redis.Set(ctx, key, data, s.ttl).Err(); err != nil {
			s.logger.Warn("Partner cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}
	return partners, nil
}
