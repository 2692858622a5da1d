package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/cart"
)

// ItemsCache holds per-user cart snapshots keyed by user id.
type ItemsCache interface {
	Get(ctx context.Context, userID string) ([]cart.Item, error)
	Set(ctx context.Context, userID string, items []cart.Item) error
	Delete(ctx context.Context, userID string) error
}

var ErrCacheMiss = errors.New("cache miss")

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r *RedisCache) Get(ctx context.Context, userID string) ([]cart.Item, error) {
	data, err := r.client.Get(ctx, cacheKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var items []cart.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}

	return items, nil
}

func (r *RedisCache) Set(ctx context.Context, userID string, items []cart.Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	// Jitter spreads expirations so a burst of loads does not refill at once.
	ttl := r.baseTTL + time.Duration(rand.Intn(5))*time.Minute
	if err := r.client.Set(ctx, cacheKey(userID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, cacheKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}

// WithCache wraps a repository with read-through caching. Writes go to
// the database first, then invalidate; cache trouble is logged, never
// surfaced, so the store keeps working when redis is down.
func WithCache(repo Repository, cache ItemsCache, logger *log.Logger) Repository {
	return &cachedRepository{repo: repo, cache: cache, logger: logger}
}

type cachedRepository struct {
	repo   Repository
	cache  ItemsCache
	logger *log.Logger
}

func (c *cachedRepository) GetItems(ctx context.Context, userID string) ([]cart.Item, error) {
	items, err := c.cache.Get(ctx, userID)
	if err == nil {
		return items, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		c.logger.Printf("cart cache read for user %s: %v", userID, err)
	}

	items, err = c.repo.GetItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, userID, items); err != nil {
		c.logger.Printf("cart cache fill for user %s: %v", userID, err)
	}
	return items, nil
}

func (c *cachedRepository) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	if err := c.repo.SetQuantity(ctx, userID, productID, quantity); err != nil {
		return err
	}
	c.invalidate(ctx, userID)
	return nil
}

func (c *cachedRepository) DeleteItem(ctx context.Context, userID, productID string) error {
	if err := c.repo.DeleteItem(ctx, userID, productID); err != nil {
		return err
	}
	c.invalidate(ctx, userID)
	return nil
}

func (c *cachedRepository) ClearUser(ctx context.Context, userID string) error {
	if err := c.repo.ClearUser(ctx, userID); err != nil {
		return err
	}
	c.invalidate(ctx, userID)
	return nil
}

func (c *cachedRepository) invalidate(ctx context.Context, userID string) {
	if err := c.cache.Delete(ctx, userID); err != nil {
		c.logger.Printf("cart cache invalidate for user %s: %v", userID, err)
	}
}
