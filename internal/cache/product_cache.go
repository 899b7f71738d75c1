package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/priyanshuspawar/Karwaan-Backend/internal/domain"
)

// cachedProductRepository is a read-through Redis cache in front of the
// product store. Catalog reads dominate the checkout path; cache failures
// degrade to direct reads rather than failing the request.
type cachedProductRepository struct {
	inner  domain.ProductRepository
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

func NewCachedProductRepository(inner domain.ProductRepository, client *redis.Client, ttl time.Duration, logger *logrus.Logger) domain.ProductRepository {
	return &cachedProductRepository{
		inner:  inner,
		client: client,
		ttl:    ttl,
		log:    logger,
	}
}

func (r *cachedProductRepository) cacheKey(id int) string {
	return fmt.Sprintf("karwaan:product:%d", id)
}

func (r *cachedProductRepository) GetProductByID(ctx context.Context, id int) (*domain.Product, error) {
	key := r.cacheKey(id)

	cached, err := r.client.Get(ctx, key).Result()
	if err == nil {
		var product domain.Product
		if err := json.Unmarshal([]byte(cached), &product); err == nil {
			r.log.Debugf("Cache: Hit for product %d", id)
			return &product, nil
		}
		r.log.Warnf("Cache: Corrupt entry for product %d, falling through", id)
	} else if err != redis.Nil {
		r.log.Warnf("Cache: Redis read failed for product %d: %v", id, err)
	}

	product, err := r.inner.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(product)
	if err == nil {
		if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
			r.log.Warnf("Cache: Redis write failed for product %d: %v", id, err)
		}
	}

	return product, nil
}
