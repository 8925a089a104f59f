package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"chainsight/internal/decision/models"
)

// ViewCache is the seam for short-lived derived-view caching. Implementations
// must be safe for concurrent use; a miss is (nil, false, nil).
type ViewCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisViewCache backs the view cache with Redis.
type RedisViewCache struct {
	client redis.UniversalClient
}

func NewRedisViewCache(client redis.UniversalClient) *RedisViewCache {
	return &RedisViewCache{client: client}
}

func (c *RedisViewCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("view cache get: %w", err)
	}
	return value, true, nil
}

func (c *RedisViewCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("view cache set: %w", err)
	}
	return nil
}

// viewCacheKey scopes entries by decision id and version so a re-ingested
// version can never serve the previous version's sections.
func viewCacheKey(d *models.Decision) string {
	return fmt.Sprintf("chainsight:view:%s:%d", d.ID, d.Version)
}

// cachedView attempts to load a serialized view. Cache failures degrade to
// a recompute; they are logged, never surfaced.
func (s *Service) cachedView(ctx context.Context, d *models.Decision) (*View, bool) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil, false
	}

	payload, ok, err := s.cache.Get(ctx, viewCacheKey(d))
	if err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "view cache read failed", "error", err, "decision_id", d.ID)
		}
		return nil, false
	}
	if !ok {
		s.cacheMiss()
		return nil, false
	}

	var view View
	if err := json.Unmarshal(payload, &view); err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "view cache entry corrupt", "error", err, "decision_id", d.ID)
		}
		return nil, false
	}

	s.cacheHit()
	return &view, true
}

func (s *Service) storeView(ctx context.Context, d *models.Decision, view *View) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}

	payload, err := json.Marshal(view)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, viewCacheKey(d), payload, s.cacheTTL); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "view cache write failed", "error", err, "decision_id", d.ID)
	}
}

func (s *Service) cacheHit() {
	if s.metrics != nil {
		s.metrics.ViewCacheHits.Inc()
	}
}

func (s *Service) cacheMiss() {
	if s.metrics != nil {
		s.metrics.ViewCacheMisses.Inc()
	}
}
