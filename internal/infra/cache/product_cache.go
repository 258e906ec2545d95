package cache

import (
	"context"
	"log/slog"
	"time"

	"pickleshop/internal/domain/model"
	"pickleshop/internal/metrics"
	repo "pickleshop/internal/repository"

	"github.com/redis/go-redis/v9"
)

const productListKey = keyPrefix + "products:all"

// ProductCache は商品一覧を読み込み時にキャッシュする。
// 書き込みがあれば一覧のキャッシュを消す。個別取得はそのまま下に流す。
type ProductCache struct {
	next repo.ProductRepository
	rdb  redis.Cmdable
	ttl  time.Duration
	log  *slog.Logger
}

func NewProductCache(next repo.ProductRepository, rdb redis.Cmdable, ttl time.Duration, log *slog.Logger) *ProductCache {
	if log == nil {
		log = slog.Default()
	}
	return &ProductCache{next: next, rdb: rdb, ttl: ttl, log: log}
}

var _ repo.ProductRepository = (*ProductCache)(nil)

func (c *ProductCache) List(ctx context.Context) ([]model.Product, error) {
	var cached []model.Product
	ok, err := getJSON(ctx, c.rdb, productListKey, &cached)
	if err != nil {
		// redisが落ちていてもDBから読む
		c.log.WarnContext(ctx, "product cache get", slog.Any("err", err))
	}
	if ok {
		metrics.CacheHits.WithLabelValues("products").Inc()
		return cached, nil
	}
	metrics.CacheMisses.WithLabelValues("products").Inc()

	items, err := c.next.List(ctx)
	if err != nil {
		return nil, err
	}
	// 空の一覧は静的データに切り替わるのでキャッシュしない
	if len(items) > 0 {
		if err := setJSON(ctx, c.rdb, productListKey, items, c.ttl); err != nil {
			c.log.WarnContext(ctx, "product cache set", slog.Any("err", err))
		}
	}
	return items, nil
}

func (c *ProductCache) FindByID(ctx context.Context, id string) (model.Product, error) {
	return c.next.FindByID(ctx, id)
}

func (c *ProductCache) Create(ctx context.Context, p model.Product) (model.Product, error) {
	created, err := c.next.Create(ctx, p)
	if err == nil {
		c.invalidate(ctx)
	}
	return created, err
}

func (c *ProductCache) UpsertMerge(ctx context.Context, p model.Product) error {
	err := c.next.UpsertMerge(ctx, p)
	if err == nil {
		c.invalidate(ctx)
	}
	return err
}

func (c *ProductCache) Delete(ctx context.Context, id string) error {
	err := c.next.Delete(ctx, id)
	if err == nil {
		c.invalidate(ctx)
	}
	return err
}

func (c *ProductCache) invalidate(ctx context.Context) {
	if err := c.rdb.Del(ctx, productListKey).Err(); err != nil {
		c.log.WarnContext(ctx, "product cache invalidate", slog.Any("err", err))
	}
}
