// Package searchcache memoizes full search responses in the key-value store.
package searchcache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/nusahr/hrsearch/internal/db"
	"github.com/nusahr/hrsearch/internal/domain/search/response"
)

// DefaultTTL is the response cache lifetime when no override is configured.
const DefaultTTL = 30 * time.Minute

// store is the consumer interface for the response cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
}

// Cache stores serialized responses keyed by index version and request
// fingerprint. The version in the key namespace means a rebuild implicitly
// invalidates every prior entry without any pattern scanning.
//
// All failures are soft: a broken backend degrades to uncached searches.
type Cache struct {
	store     store
	keyPrefix string
	ttl       time.Duration
	logger    *zap.Logger
}

// New creates a response cache.
func New(s store, keyPrefix string, ttl time.Duration, logger *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{store: s, keyPrefix: keyPrefix, ttl: ttl, logger: logger}
}

// Get returns a cached response, or false on miss or backend failure.
func (c *Cache) Get(ctx context.Context, version int64, fingerprint string) (*response.Response, bool) {
	data, err := c.store.Get(ctx, c.key(version, fingerprint))
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to read cached response", zap.Error(err))
		}
		return nil, false
	}

	resp, err := decodeResponse(data)
	if err != nil {
		c.logger.Warn("Failed to decode cached response", zap.Error(err))
		return nil, false
	}
	return resp, true
}

// Put stores a response with the configured TTL. Best-effort.
func (c *Cache) Put(ctx context.Context, version int64, fingerprint string, resp *response.Response) {
	data, err := encodeResponse(resp)
	if err != nil {
		c.logger.Warn("Failed to encode response for caching", zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, c.key(version, fingerprint), data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache response", zap.Error(err))
	}
}

// NextVersion increments and returns the shared index version counter.
func (c *Cache) NextVersion(ctx context.Context) (int64, error) {
	v, err := c.store.IncrBy(ctx, c.keyPrefix+"index_version", 1)
	if err != nil {
		return 0, fmt.Errorf("increment index version: %w", err)
	}
	return v, nil
}

func (c *Cache) key(version int64, fingerprint string) string {
	return c.keyPrefix + "search:v" + strconv.FormatInt(version, 10) + ":" + fingerprint
}
