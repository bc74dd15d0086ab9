package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// CachedStore is a read-through Redis cache in front of a Reader. Only
// single-product lookups are cached; filtered listings always hit the
// underlying reader. Cache failures are logged and bypassed.
type CachedStore struct {
	next   Reader
	client *redis.Client
	prefix string
	ttl    time.Duration
	log    logrus.FieldLogger
}

// NewCachedStore wraps next with a Redis cache.
func NewCachedStore(next Reader, client *redis.Client, prefix string, ttl time.Duration, log logrus.FieldLogger) *CachedStore {
	return &CachedStore{next: next, client: client, prefix: prefix, ttl: ttl, log: log}
}

func (c *CachedStore) key(id string) string {
	return c.prefix + "catalog:product:" + id
}

// GetProductByID serves from Redis when possible and populates it on a miss.
func (c *CachedStore) GetProductByID(ctx context.Context, id string) (*Product, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	switch {
	case err == nil:
		var p Product
		if uerr := json.Unmarshal(data, &p); uerr == nil {
			return &p, nil
		}
		c.log.WithField("product_id", id).Warn("discarding undecodable cached product")
	case !errors.Is(err, redis.Nil):
		c.log.WithError(err).WithField("product_id", id).Warn("catalog cache read failed")
	}

	p, err := c.next.GetProductByID(ctx, id)
	if err != nil || p == nil {
		return p, err
	}

	if data, err := json.Marshal(p); err == nil {
		if err := c.client.Set(ctx, c.key(id), data, c.ttl).Err(); err != nil {
			c.log.WithError(err).WithField("product_id", id).Warn("catalog cache write failed")
		}
	}
	return p, nil
}

// GetFilteredProducts delegates to the wrapped reader.
func (c *CachedStore) GetFilteredProducts(ctx context.Context, f Filter) ([]Product, error) {
	return c.next.GetFilteredProducts(ctx, f)
}

// Invalidate drops a cached product, used after seeding rewrites it.
func (c *CachedStore) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}
