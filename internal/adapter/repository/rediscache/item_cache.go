package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/user/storefront/internal/adapter/metrics"
	"github.com/user/storefront/internal/domain"
)

const itemKeyPrefix = "item:"

// ItemCache is a read-through cache decorating a domain.ItemRepository.
// Single-item reads are served from Redis when possible; writes go straight
// to the inner repository and invalidate the cached copy. Cache failures
// degrade to the inner repository, never to an error for the caller.
type ItemCache struct {
	inner   domain.ItemRepository
	client  *redis.Client
	logger  *slog.Logger
	metrics *metrics.StoreMetrics
	ttl     time.Duration
}

// NewItemCache wraps inner with a Redis read-through cache.
func NewItemCache(inner domain.ItemRepository, client *redis.Client, logger *slog.Logger, m *metrics.StoreMetrics, ttl time.Duration) *ItemCache {
	return &ItemCache{
		inner:   inner,
		client:  client,
		logger:  logger.With("component", "item_cache"),
		metrics: m,
		ttl:     ttl,
	}
}

func (c *ItemCache) key(id uuid.UUID) string {
	return itemKeyPrefix + id.String()
}

func (c *ItemCache) Create(ctx context.Context, item *domain.Item) error {
	return c.inner.Create(ctx, item)
}

func (c *ItemCache) FindByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err == nil {
		var item domain.Item
		if err := json.Unmarshal(data, &item); err == nil {
			c.countHit()
			return &item, nil
		}
		// A corrupt entry falls through to the source of truth.
		c.logger.Warn("dropping undecodable cache entry", "item_id", id)
		_ = c.client.Del(ctx, c.key(id)).Err()
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("item cache read failed, falling back to store", "error", err)
	}
	c.countMiss()

	item, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(item); err == nil {
		if err := c.client.Set(ctx, c.key(id), data, c.ttl).Err(); err != nil {
			c.logger.Warn("item cache write failed", "error", err)
		}
	}
	return item, nil
}

func (c *ItemCache) List(ctx context.Context, limit, offset int) ([]*domain.Item, error) {
	// Listings are not cached; pagination makes the keyspace unbounded.
	return c.inner.List(ctx, limit, offset)
}

func (c *ItemCache) Update(ctx context.Context, id uuid.UUID, patch domain.ItemPatch) (*domain.Item, error) {
	item, err := c.inner.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, id)
	return item, nil
}

func (c *ItemCache) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *ItemCache) invalidate(ctx context.Context, id uuid.UUID) {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		c.logger.Warn("item cache invalidation failed", "item_id", id, "error", err)
	}
}

func (c *ItemCache) countHit() {
	if c.metrics != nil {
		c.metrics.ItemCacheHits.Inc()
	}
}

func (c *ItemCache) countMiss() {
	if c.metrics != nil {
		c.metrics.ItemCacheMisses.Inc()
	}
}
