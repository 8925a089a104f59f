package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"chainsight/internal/notification/models"
)

const prefsKeyPrefix = "chainsight:notification:prefs:"

// RedisStore persists preferences as JSON values with no expiry. Preferences
// are settings, not cache entries.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func prefsKey(companyID uuid.UUID) string {
	return prefsKeyPrefix + companyID.String()
}

func (s *RedisStore) Get(ctx context.Context, companyID uuid.UUID) (models.Preferences, error) {
	raw, err := s.client.Get(ctx, prefsKey(companyID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.Preferences{}, ErrNotFound
		}
		return models.Preferences{}, fmt.Errorf("load preferences: %w", err)
	}

	var prefs models.Preferences
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return models.Preferences{}, fmt.Errorf("decode preferences: %w", err)
	}
	return prefs, nil
}

func (s *RedisStore) Put(ctx context.Context, prefs models.Preferences) error {
	raw, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := s.client.Set(ctx, prefsKey(prefs.CompanyID), raw, 0).Err(); err != nil {
		return fmt.Errorf("store preferences: %w", err)
	}
	return nil
}
