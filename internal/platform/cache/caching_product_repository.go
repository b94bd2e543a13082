// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"shop_backend/internal/feature/catalog/domain/entity"
	"shop_backend/internal/feature/catalog/usecase"
)

// CachingProductRepository decorates a ProductRepository with a Redis read-through cache
// for single products and the full list. Every write through it invalidates the affected keys.
type CachingProductRepository struct {
	usecase.ProductRepository

	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.ProductRepository = (*CachingProductRepository)(nil)

// NewCachingProductRepository decorates inner with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "products".
// A nil rdb turns the decorator into a pass-through.
func NewCachingProductRepository(rdb *redis.Client, ttl time.Duration, inner usecase.ProductRepository, namespace string) *CachingProductRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "products"
	}
	return &CachingProductRepository{
		ProductRepository: inner,
		rdb:               rdb,
		ttl:               ttl,
		namespace:         namespace,
	}
}

// FindByID checks the cache first and falls back to the inner repository.
func (c *CachingProductRepository) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	var p entity.Product
	if c.get(ctx, c.idKey(id), &p) {
		return &p, nil
	}
	got, err := c.ProductRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(ctx, c.idKey(id), got)
	return got, nil
}

// List checks the cache first and falls back to the inner repository.
func (c *CachingProductRepository) List(ctx context.Context) ([]entity.Product, error) {
	var out []entity.Product
	if c.get(ctx, c.listKey(), &out) {
		return out, nil
	}
	out, err := c.ProductRepository.List(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, c.listKey(), out)
	return out, nil
}

func (c *CachingProductRepository) Create(ctx context.Context, p *entity.Product) error {
	if err := c.ProductRepository.Create(ctx, p); err != nil {
		return err
	}
	return c.InvalidateProducts(ctx)
}

func (c *CachingProductRepository) Update(ctx context.Context, p *entity.Product) error {
	if err := c.ProductRepository.Update(ctx, p); err != nil {
		return err
	}
	return c.InvalidateProducts(ctx, p.ID)
}

func (c *CachingProductRepository) Delete(ctx context.Context, id string) error {
	if err := c.ProductRepository.Delete(ctx, id); err != nil {
		return err
	}
	return c.InvalidateProducts(ctx, id)
}

// InvalidateProducts drops the cached entries of ids and the cached list.
// Cache failures are logged and never returned.
func (c *CachingProductRepository) InvalidateProducts(ctx context.Context, ids ...string) error {
	if c.rdb == nil {
		return nil
	}
	keys := make([]string, 0, len(ids)+1)
	keys = append(keys, c.listKey())
	for _, id := range ids {
		keys = append(keys, c.idKey(id))
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("product cache invalidation failed", "error", err, "keys", len(keys))
	}
	return nil
}

// InvalidateAll drops every key of the namespace. Category renames use it since cached products carry the category name.
func (c *CachingProductRepository) InvalidateAll(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	if err := c.deleteByPattern(ctx, c.namespace+":*"); err != nil {
		slog.Warn("product cache flush failed", "error", err, "namespace", c.namespace)
	}
	return nil
}

func (c *CachingProductRepository) get(ctx context.Context, key string, dst any) bool {
	if c.rdb == nil {
		return false
	}
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

func (c *CachingProductRepository) set(ctx context.Context, key string, v any) {
	if c.rdb == nil {
		return
	}
	if b, err := json.Marshal(v); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
}

func (c *CachingProductRepository) idKey(id string) string {
	return fmt.Sprintf("%s:id:%s", c.namespace, safe(id))
}

func (c *CachingProductRepository) listKey() string {
	return c.namespace + ":list"
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingProductRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
