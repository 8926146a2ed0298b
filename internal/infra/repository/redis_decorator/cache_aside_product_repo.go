package redis_decorator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/model"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/cache"
	"github.com/RoyceAzure/lab/storefront/internal/util"
	"github.com/rs/zerolog/log"
)

/*
商品詳情走 cache aside
讀: cache miss 才查 db 再回填
寫: 先寫 db 再刪 cache
瀏覽數累加不清 cache，允許 view_count 短暫落後
*/
type CacheAsideProductRepo struct {
	db.IProductRepository
	cache cache.Cache
	ttl   time.Duration
}

var _ db.IProductRepository = (*CacheAsideProductRepo)(nil)

func NewCacheAsideProductRepo(repo db.IProductRepository, c cache.Cache, ttl time.Duration) *CacheAsideProductRepo {
	if util.IsNil(repo) {
		panic("NewCacheAsideProductRepo: product repository cannot be nil")
	}
	if util.IsNil(c) {
		panic("NewCacheAsideProductRepo: cache cannot be nil")
	}
	return &CacheAsideProductRepo{IProductRepository: repo, cache: c, ttl: ttl}
}

func productKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

func (p *CacheAsideProductRepo) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	if raw, err := p.cache.Get(ctx, productKey(id)); err == nil {
		var product model.Product
		if err := json.Unmarshal(raw, &product); err == nil {
			return &product, nil
		}
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		log.Warn().Err(err).Str("product_id", id).Msg("product cache read failed")
	}

	product, err := p.IProductRepository.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(product); err == nil {
		if err := p.cache.Set(ctx, productKey(id), raw, p.ttl); err != nil {
			log.Warn().Err(err).Str("product_id", id).Msg("product cache write failed")
		}
	}
	return product, nil
}

func (p *CacheAsideProductRepo) UpdateProduct(ctx context.Context, product *model.Product) error {
	if err := p.IProductRepository.UpdateProduct(ctx, product); err != nil {
		return err
	}
	p.invalidate(ctx, product.ID)
	return nil
}

func (p *CacheAsideProductRepo) DeleteProduct(ctx context.Context, id string) error {
	if err := p.IProductRepository.DeleteProduct(ctx, id); err != nil {
		return err
	}
	p.invalidate(ctx, id)
	return nil
}

func (p *CacheAsideProductRepo) IncrementProductCounters(ctx context.Context, id string, delta model.ProductCounterDelta) error {
	if err := p.IProductRepository.IncrementProductCounters(ctx, id, delta); err != nil {
		return err
	}
	if delta.Sales != 0 || delta.Stock != 0 {
		p.invalidate(ctx, id)
	}
	return nil
}

// 刪除失敗時延遲重試一次，仍失敗就等 ttl 過期
func (p *CacheAsideProductRepo) invalidate(ctx context.Context, id string) {
	if err := p.cache.Delete(ctx, productKey(id)); err != nil {
		log.Warn().Err(err).Str("product_id", id).Msg("product cache invalidate failed, retrying")
		go func() {
			time.Sleep(500 * time.Millisecond)
			retryCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = p.cache.Delete(retryCtx, productKey(id))
		}()
	}
}
