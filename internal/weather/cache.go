package weather

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "weather:"

// Cache stores reshaped weather responses in Redis with a TTL. A miss is
// (nil, nil); cache errors are returned so the caller can decide to fall
// through to the upstream API.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

func (c *Cache) Get(ctx context.Context, location string) (*Response, error) {
	b, err := c.rdb.Get(ctx, cacheKeyPrefix+normalizeLocation(location)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var resp Response
	if err := json.Unmarshal(b, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Cache) Set(ctx context.Context, location string, resp *Response) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, cacheKeyPrefix+normalizeLocation(location), b, c.ttl).Err()
}

func normalizeLocation(location string) string {
	return strings.TrimSpace(strings.ToLower(location))
}
