package redis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// IDCache maps string keys to UUIDs with a fixed TTL. It backs the billing
// tenant lookup when several service instances should share one cache.
type IDCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewIDCache creates an IDCache. Keys are namespaced with prefix.
func NewIDCache(client redis.UniversalClient, prefix string, ttl time.Duration) *IDCache {
	if client == nil {
		panic("redis: nil client")
	}
	return &IDCache{client: client, prefix: prefix, ttl: ttl}
}

// Get returns the cached id. A missing key is not an error.
func (c *IDCache) Get(ctx context.Context, key string) (uuid.UUID, bool, error) {
	raw, err := c.client.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		// drop the bad value so the next lookup repopulates it
		delErr := c.client.Del(ctx, c.prefix+key).Err()
		return uuid.Nil, false, errors.Join(ErrCorruptValue, err, delErr)
	}
	return id, true, nil
}

// Set stores id under key for the configured TTL.
func (c *IDCache) Set(ctx context.Context, key string, id uuid.UUID) error {
	return c.client.Set(ctx, c.prefix+key, id.String(), c.ttl).Err()
}
