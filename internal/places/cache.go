package places

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SugaryLLC/sugary-web/internal/logger"
	"github.com/SugaryLLC/sugary-web/internal/metrics"
)

// Store is the backing key-value layer for the places cache.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// errCacheMiss marks absence as distinct from a broken store.
var errCacheMiss = errors.New("places: cache miss")

type redisStore struct {
	client *redis.Client
}

func (s redisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", errCacheMiss
	}
	return val, err
}

func (s redisStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// Cache holds recent upstream places responses. It only ever stores
// map data, never session state, and it degrades to a no-op: a nil
// *Cache is valid, and store errors are logged, not surfaced.
type Cache struct {
	store  Store
	prefix string
	ttl    time.Duration
}

// NewCache wraps a redis client. TTL bounds how stale a forwarded
// prediction may be.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return newCacheWithStore(redisStore{client: client}, ttl)
}

func newCacheWithStore(store Store, ttl time.Duration) *Cache {
	return &Cache{
		store:  store,
		prefix: "places:",
		ttl:    ttl,
	}
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}

	val, err := c.store.Get(ctx, c.prefix+key)
	if err != nil {
		if !errors.Is(err, errCacheMiss) {
			logger.FromContext(ctx).Warnw("places cache get failed", "err", err.Error())
		}
		metrics.PlacesCache.WithLabelValues("miss").Inc()
		return nil, false
	}

	metrics.PlacesCache.WithLabelValues("hit").Inc()
	return []byte(val), true
}

func (c *Cache) Set(ctx context.Context, key string, body []byte) {
	if c == nil {
		return
	}
	if err := c.store.Set(ctx, c.prefix+key, string(body), c.ttl); err != nil {
		logger.FromContext(ctx).Warnw("places cache set failed", "err", err.Error())
	}
}
