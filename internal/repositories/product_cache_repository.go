package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefront/internal/models"
)

// CachedProductRepository is a cache-aside decorator: single product reads go
// through Redis, writes go to the wrapped store and evict the entry. Cache
// failures are logged and never fail the request.
type CachedProductRepository struct {
	ProductRepository
	cache *redis.Client
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedProductRepository(repo ProductRepository, cache *redis.Client, ttl time.Duration, log *zap.Logger) *CachedProductRepository {
	return &CachedProductRepository{
		ProductRepository: repo,
		cache:             cache,
		ttl:               ttl,
		log:               log,
	}
}

func productCacheKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

func (r *CachedProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	key := productCacheKey(id)

	data, err := r.cache.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var product models.Product
		if err := json.Unmarshal(data, &product); err == nil {
			return &product, nil
		}
		r.log.Warn("Discarding unreadable product cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		r.log.Warn("Product cache read failed", zap.String("key", key), zap.Error(err))
	}

	product, err := r.ProductRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(product); err == nil {
		if err := r.cache.Set(ctx, key, data, r.ttl).Err(); err != nil {
			r.log.Warn("Product cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return product, nil
}

func (r *CachedProductRepository) Update(ctx context.Context, product *models.Product) error {
	if err := r.ProductRepository.Update(ctx, product); err != nil {
		return err
	}
	r.evict(ctx, product.ID)
	return nil
}

func (r *CachedProductRepository) Delete(ctx context.Context, id string) (*models.Product, error) {
	product, err := r.ProductRepository.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	r.evict(ctx, id)
	return product, nil
}

func (r *CachedProductRepository) evict(ctx context.Context, id string) {
	if err := r.cache.Del(ctx, productCacheKey(id)).Err(); err != nil {
		r.log.Warn("Product cache eviction failed", zap.String("product_id", id), zap.Error(err))
	}
}
