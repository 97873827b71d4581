package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/referral-service/internal/domain"
)

const profileKeyPrefix = "profile:"

// ProfileCache keeps rendered profile views in Redis for a short TTL.
// All methods are nil-safe so the service runs unchanged without Redis.
type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProfileCache wraps a Redis client. A nil client or non-positive
// TTL disables caching.
func NewProfileCache(client *redis.Client, ttl time.Duration) *ProfileCache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &ProfileCache{client: client, ttl: ttl}
}

// Get returns the cached profile for the account, or false on miss.
func (c *ProfileCache) Get(ctx context.Context, accountID string) (domain.Profile, bool) {
	if c == nil {
		return domain.Profile{}, false
	}
	raw, err := c.client.Get(ctx, profileKeyPrefix+accountID).Bytes()
	if err != nil {
		return domain.Profile{}, false
	}
	var profile domain.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return domain.Profile{}, false
	}
	return profile, true
}

// Set stores the profile view.
func (c *ProfileCache) Set(ctx context.Context, accountID string, profile domain.Profile) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, profileKeyPrefix+accountID, raw, c.ttl).Err()
}

// Invalidate drops the cached view, e.g. after a referral credit
// changes the account's score.
func (c *ProfileCache) Invalidate(ctx context.Context, accountID string) {
	if c == nil {
		return
	}
	_ = c.client.Del(ctx, profileKeyPrefix+accountID).Err()
}
